package settlement

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// IntentKind labels what a settlement was supposed to buy.
type IntentKind string

const (
	IntentPremiumPurchase  IntentKind = "premium_purchase"
	IntentAssetAcquisition IntentKind = "asset_acquisition"
)

// IntentState tracks an intent through the settle-then-mutate sequence.
type IntentState string

const (
	IntentPending   IntentState = "pending"   // recorded, settlement not yet confirmed
	IntentConfirmed IntentState = "confirmed" // settlement confirmed, mutation not yet applied
	IntentCompleted IntentState = "completed" // local mutation applied
	IntentFailed    IntentState = "failed"    // settlement failed, nothing to reconcile
)

// Intent is one journaled settlement intention.
type Intent struct {
	Key       string
	Kind      IntentKind
	Amount    float64
	Step      int
	TxID      string
	State     IntentState
	CreatedAt time.Time
}

// Journal records intended portfolio mutations *before* the settlement call
// is made. A settlement confirmed on chain without a matching completed
// intent is the known consistency gap of this design: the journal makes the
// gap observable (Unreconciled) so a restart can replay the mutation exactly
// once, keyed by transaction id. The journal itself is in-memory only, like
// the rest of the simulation state.
type Journal struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

func NewJournal() *Journal {
	return &Journal{intents: make(map[string]*Intent)}
}

// Begin records a pending intent and returns its key.
func (j *Journal) Begin(kind IntentKind, amount float64, step int) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	key := uuid.NewString()
	j.intents[key] = &Intent{
		Key:       key,
		Kind:      kind,
		Amount:    amount,
		Step:      step,
		State:     IntentPending,
		CreatedAt: time.Now(),
	}
	return key
}

// Confirm marks the settlement as confirmed and attaches the transaction id.
func (j *Journal) Confirm(key, txID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if in, ok := j.intents[key]; ok {
		in.TxID = txID
		in.State = IntentConfirmed
	}
}

// Complete marks the local mutation as applied.
func (j *Journal) Complete(key string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if in, ok := j.intents[key]; ok {
		in.State = IntentCompleted
	}
}

// Fail marks the settlement as failed; the portfolio was never mutated.
func (j *Journal) Fail(key string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if in, ok := j.intents[key]; ok {
		in.State = IntentFailed
	}
}

// Unreconciled returns intents whose settlement was confirmed but whose
// local mutation never completed.
func (j *Journal) Unreconciled() []Intent {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []Intent
	for _, in := range j.intents {
		if in.State == IntentConfirmed {
			out = append(out, *in)
		}
	}
	return out
}
