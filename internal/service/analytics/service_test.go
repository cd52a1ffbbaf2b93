package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixggj/happy-robot-fde/internal/domain/callsession"
	"github.com/felixggj/happy-robot-fde/internal/service/analytics"
	"github.com/felixggj/happy-robot-fde/internal/testutil/fixtures"
)

type stubRepo struct {
	sessions []*callsession.CallSession
	err      error
}

func (s *stubRepo) ListAll(context.Context) ([]*callsession.CallSession, error) {
	return s.sessions, s.err
}

func TestSummaryEmpty(t *testing.T) {
	svc := analytics.NewService(&stubRepo{})

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got.TotalCalls)
	assert.Zero(t, got.ConversionRate)
	assert.Zero(t, got.AvgNegotiationRounds)
	assert.Zero(t, got.TotalRevenue)
	assert.Empty(t, got.Outcomes)
	assert.Empty(t, got.Sentiment)
}

func TestSummaryAggregation(t *testing.T) {
	sessions := []*callsession.CallSession{
		fixtures.NewSessionBuilder().
			WithAgreedRate(2400).WithInitialRate(2500).WithRounds(2).Build(t),
		fixtures.NewSessionBuilder().
			WithInitialRate(1800).WithRounds(1).Build(t), // accepted, no agreed rate
		fixtures.NewSessionBuilder().
			WithClassification(callsession.ClassificationRejected).
			WithSentiment("negative").WithRounds(3).Build(t),
		fixtures.NewSessionBuilder().
			WithClassification(callsession.ClassificationNoCarrier).
			WithSentiment("").Build(t), // no rounds recorded
	}

	svc := analytics.NewService(&stubRepo{sessions: sessions})
	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, got.TotalCalls)
	assert.Equal(t, map[string]int{
		callsession.ClassificationAccepted:  2,
		callsession.ClassificationRejected:  1,
		callsession.ClassificationNoCarrier: 1,
	}, got.Outcomes)
	assert.Equal(t, map[string]int{"positive": 2, "negative": 1, "unknown": 1}, got.Sentiment)

	// 2 of 4 accepted
	assert.InDelta(t, 50.0, got.ConversionRate, 0.001)
	// (2+1+3)/3 sessions with a round count
	assert.InDelta(t, 2.0, got.AvgNegotiationRounds, 0.001)
	// agreed 2400 + initial fallback 1800, rejected calls contribute nothing
	assert.InDelta(t, 4200.0, got.TotalRevenue, 0.001)
}

func TestSummaryRepositoryFailure(t *testing.T) {
	svc := analytics.NewService(&stubRepo{err: errors.New("connection refused")})
	_, err := svc.Summary(context.Background())
	require.Error(t, err)
}
