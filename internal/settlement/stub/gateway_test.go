package stub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-treasury/internal/settlement"
)

func TestStubGatewayRecordsTransfers(t *testing.T) {
	g := NewGateway()
	ctx := context.Background()

	r1, err := g.Settle(ctx, "a", 0.05)
	require.NoError(t, err)
	r2, err := g.Settle(ctx, "b", 1.0)
	require.NoError(t, err)

	assert.NotEqual(t, r1.TxID, r2.TxID)
	require.Len(t, g.Settled, 2)
	assert.Equal(t, "a", g.Settled[0].Destination)
	assert.Equal(t, 1.0, g.Settled[1].Amount)
}

func TestStubGatewayFailNextIsOneShot(t *testing.T) {
	g := NewGateway()
	g.FailNext = true
	ctx := context.Background()

	_, err := g.Settle(ctx, "a", 1.0)
	assert.ErrorIs(t, err, settlement.ErrSettlementFailed)

	_, err = g.Settle(ctx, "a", 1.0)
	assert.NoError(t, err)
}

func TestStubGatewayFailAlways(t *testing.T) {
	g := NewGateway()
	g.FailAlways = true
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := g.Settle(ctx, "a", 1.0)
		assert.ErrorIs(t, err, settlement.ErrSettlementFailed)
	}
	assert.Empty(t, g.Settled)
}
