package stub

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/mr-tron/base58"

	"solar-treasury/internal/settlement"
)

// Transfer records one settled payment.
type Transfer struct {
	Destination string
	Amount      float64
	TxID        string
}

// Gateway implements settlement.Gateway in memory for tests and offline
// demo runs. Transaction ids are deterministic base58-encoded sequence
// numbers.
type Gateway struct {
	mu sync.Mutex

	// FailNext fails exactly one settlement, then clears itself.
	FailNext bool
	// FailAlways fails every settlement.
	FailAlways bool

	seq     uint64
	Settled []Transfer
}

func NewGateway() *Gateway {
	return &Gateway{}
}

func (g *Gateway) Settle(_ context.Context, destination string, amount float64) (settlement.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailAlways {
		return settlement.Receipt{}, settlement.ErrSettlementFailed
	}
	if g.FailNext {
		g.FailNext = false
		return settlement.Receipt{}, settlement.ErrSettlementFailed
	}

	g.seq++
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], g.seq)
	tx := base58.Encode(raw[:])

	g.Settled = append(g.Settled, Transfer{Destination: destination, Amount: amount, TxID: tx})
	return settlement.Receipt{TxID: tx}, nil
}
