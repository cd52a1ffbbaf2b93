package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
	"github.com/felixggj/happy-robot-fde/internal/domain/values"
	apperrors "github.com/felixggj/happy-robot-fde/internal/errors"
)

// Policy constants. The floor takes the higher of a 10% haircut and a flat
// $150 discount: the percentage dominates for cheap loads, the flat amount
// for expensive ones. Counters walk 92%, 89%, 87% of the loadboard rate and
// clamp at the last step, so late rounds never decay past 87%.
var (
	floorPercent    = decimal.NewFromFloat(0.90)
	floorDiscount   = values.MustNewMoneyFromFloat(150, values.USD)
	acceptThreshold = decimal.NewFromFloat(0.95)

	counterMultipliers = []decimal.Decimal{
		decimal.NewFromFloat(0.92),
		decimal.NewFromFloat(0.89),
		decimal.NewFromFloat(0.87),
	}
)

// service implements the Service interface
type service struct {
	repo   LoadRepository
	logger *slog.Logger
}

// NewService creates a new negotiation policy service
func NewService(repo LoadRepository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{repo: repo, logger: logger}
}

// Evaluate resolves the load and applies the pricing policy. A context with
// an agreed rate is a closing decision: accept at or above the floor, reject
// below it. A context without one is an in-progress round: reject below the
// floor, accept at 95% of the loadboard rate or better, otherwise counter
// from the round table. The agreed-rate field alone selects the path, so the
// two rule sets never see the same input. Comparisons run at full decimal
// precision; rate and floor are rounded to cents only in the returned value.
func (s *service) Evaluate(ctx context.Context, offer OfferContext) (*Decision, error) {
	l, err := s.repo.GetByID(ctx, offer.LoadID)
	if err != nil {
		if errors.Is(err, load.ErrNotFound) {
			return &Decision{
				Decision: OutcomeReject,
				Rate:     nil,
				Floor:    0,
				Reason:   "Load not found.",
			}, nil
		}
		return nil, apperrors.NewInternalError(fmt.Sprintf("resolving load %s: %v", offer.LoadID, err)).WithCause(err)
	}

	rate := values.MustNewMoneyFromFloat(l.LoadboardRate, values.USD)
	floor := floorPrice(rate)

	var d *Decision
	if offer.AgreedRate != nil {
		d = finalize(*offer.AgreedRate, floor)
	} else {
		d = counterOrClose(offer, rate, floor)
	}

	s.logger.InfoContext(ctx, "offer evaluated",
		"load_id", offer.LoadID,
		"decision", string(d.Decision),
		"floor", d.Floor,
		"reason", d.Reason)

	return d, nil
}

// floorPrice computes max(rate * 0.9, rate - 150). Both terms are always
// evaluated; the higher one wins.
func floorPrice(rate values.Money) values.Money {
	pct := rate.Mul(floorPercent)
	flat, err := rate.Sub(floorDiscount)
	if err != nil {
		// same-currency by construction
		panic(err)
	}
	return values.Max(pct, flat)
}

// finalize keys the decision solely on the agreed rate against the floor.
// The boundary is inclusive: an agreed rate equal to the floor accepts.
func finalize(agreedRate float64, floor values.Money) *Decision {
	agreed := values.MustNewMoneyFromFloat(agreedRate, values.USD)

	if agreed.LessThan(floor) {
		return &Decision{
			Decision: OutcomeReject,
			Rate:     nil,
			Floor:    floor.Float64(),
			Reason:   fmt.Sprintf("Final offer $%s below minimum floor price of $%s.", agreed.String(), floor.String()),
		}
	}

	accepted := agreed.Float64()
	return &Decision{
		Decision: OutcomeAccept,
		Rate:     &accepted,
		Floor:    floor.Float64(),
		Reason:   fmt.Sprintf("Final offer accepted at $%s.", agreed.String()),
	}
}

// counterOrClose evaluates an in-progress round against the initial ask.
func counterOrClose(offer OfferContext, rate, floor values.Money) *Decision {
	effective := values.MustNewMoneyFromFloat(offer.InitialRate, values.USD)

	if effective.LessThan(floor) {
		return &Decision{
			Decision: OutcomeReject,
			Rate:     nil,
			Floor:    floor.Float64(),
			Reason:   fmt.Sprintf("Offer below minimum floor price of $%s.", floor.String()),
		}
	}

	if effective.GreaterThanOrEqual(rate.Mul(acceptThreshold)) {
		accepted := effective.Float64()
		return &Decision{
			Decision: OutcomeAccept,
			Rate:     &accepted,
			Floor:    floor.Float64(),
			Reason:   "Offer accepted.",
		}
	}

	round := 1
	if offer.Rounds != nil && *offer.Rounds > 1 {
		round = *offer.Rounds
	}

	idx := round - 1
	if idx >= len(counterMultipliers) {
		idx = len(counterMultipliers) - 1
	}

	counter := values.Max(rate.Mul(counterMultipliers[idx]), floor)
	proposed := counter.Float64()

	reason := fmt.Sprintf("Counter offer round %d: $%s", round, counter.String())
	if round > len(counterMultipliers) {
		reason = fmt.Sprintf("Final counter offer: $%s", counter.String())
	}

	return &Decision{
		Decision: OutcomeCounter,
		Rate:     &proposed,
		Floor:    floor.Float64(),
		Reason:   reason,
	}
}
