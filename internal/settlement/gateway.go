package settlement

import (
	"context"
	"errors"
)

// ErrSettlementFailed wraps transport or chain level failures. The epoch
// engine treats it as non-fatal: a deploy is downgraded, a premium purchase
// falls back to the basic forecast.
var ErrSettlementFailed = errors.New("settlement failed")

// ErrPaymentNotProven is returned when the payment endpoint refuses to
// release data because it cannot verify the transfer.
var ErrPaymentNotProven = errors.New("payment not proven")

// Receipt identifies one confirmed transfer.
type Receipt struct {
	// TxID is the chain transaction identifier (base58).
	TxID string
	// IdempotencyKey is the client-chosen key sent with the transfer, used
	// to reconcile confirmed settlements against local mutations.
	IdempotencyKey string
}

// Gateway is the opaque "transfer funds, return an identifier or fail"
// capability. The call blocks until the transfer is confirmed or fails;
// there is no speculative settlement.
type Gateway interface {
	Settle(ctx context.Context, destination string, amount float64) (Receipt, error)
}
