package negotiation

import (
	"context"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
)

// LoadRepository defines the single read the policy depends on
type LoadRepository interface {
	// GetByID retrieves a load by ID, load.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*load.Load, error)
}

// Service defines the offer evaluation interface
type Service interface {
	// Evaluate returns the policy decision for one offer. Deterministic
	// and idempotent for identical inputs; the only I/O is one load read.
	Evaluate(ctx context.Context, offer OfferContext) (*Decision, error)
}

// Outcome is the decision enum other components depend on.
type Outcome string

const (
	OutcomeAccept  Outcome = "accept"
	OutcomeCounter Outcome = "counter"
	OutcomeReject  Outcome = "reject"
)

// OfferContext carries one evaluation call's inputs. An AgreedRate marks a
// closing decision; without one the call is an in-progress round. Rounds is
// 1-based and defaults to 1 when absent.
type OfferContext struct {
	LoadID      string
	InitialRate float64
	AgreedRate  *float64
	Rounds      *int
}

// Decision is the policy verdict. The four field names are the stable wire
// contract the API layer and call recorder depend on.
type Decision struct {
	Decision Outcome  `json:"decision"`
	Rate     *float64 `json:"rate"`
	Floor    float64  `json:"floor"`
	Reason   string   `json:"reason"`
}
