package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/felixggj/happy-robot-fde/internal/domain/callsession"
	"github.com/felixggj/happy-robot-fde/internal/errors"
)

// CallSessionRepository defines the read the aggregator depends on
type CallSessionRepository interface {
	ListAll(ctx context.Context) ([]*callsession.CallSession, error)
}

// Service defines the reporting interface
type Service interface {
	// Summary aggregates all recorded call outcomes.
	Summary(ctx context.Context) (*Summary, error)
}

// Summary is the reporting payload for the operator dashboard.
type Summary struct {
	TotalCalls           int            `json:"total_calls"`
	ConversionRate       float64        `json:"conversion_rate"`
	AvgNegotiationRounds float64        `json:"avg_negotiation_rounds"`
	Outcomes             map[string]int `json:"outcomes"`
	Sentiment            map[string]int `json:"sentiment"`
	TotalRevenue         float64        `json:"total_revenue"`
}

// service implements the Service interface
type service struct {
	repo CallSessionRepository
}

// NewService creates a new analytics service
func NewService(repo CallSessionRepository) Service {
	return &service{repo: repo}
}

// Summary walks every session once. Sessions without a classification or
// sentiment count under "unknown"; revenue counts accepted calls at the
// agreed rate, falling back to the initial rate.
func (s *service) Summary(ctx context.Context) (*Summary, error) {
	sessions, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Sprintf("listing call sessions: %v", err)).WithCause(err)
	}

	summary := &Summary{
		Outcomes:  map[string]int{},
		Sentiment: map[string]int{},
	}
	summary.TotalCalls = len(sessions)

	var (
		roundsSum   int
		roundsCount int
		revenue     = decimal.Zero
	)

	for _, sess := range sessions {
		outcome := sess.Classification
		if outcome == "" {
			outcome = "unknown"
		}
		summary.Outcomes[outcome]++

		sentiment := sess.Sentiment
		if sentiment == "" {
			sentiment = "unknown"
		}
		summary.Sentiment[sentiment]++

		if sess.NegotiationRounds != nil {
			roundsSum += *sess.NegotiationRounds
			roundsCount++
		}

		if sess.Classification == callsession.ClassificationAccepted {
			revenue = revenue.Add(decimal.NewFromFloat(sess.Revenue()))
		}
	}

	if summary.TotalCalls > 0 {
		accepted := decimal.NewFromInt(int64(summary.Outcomes[callsession.ClassificationAccepted]))
		total := decimal.NewFromInt(int64(summary.TotalCalls))
		summary.ConversionRate = accepted.Div(total).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}

	if roundsCount > 0 {
		summary.AvgNegotiationRounds = decimal.NewFromInt(int64(roundsSum)).
			Div(decimal.NewFromInt(int64(roundsCount))).Round(2).InexactFloat64()
	}

	summary.TotalRevenue = revenue.Round(2).InexactFloat64()

	return summary, nil
}
