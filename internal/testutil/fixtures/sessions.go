package fixtures

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/felixggj/happy-robot-fde/internal/domain/callsession"
)

// SessionBuilder builds test CallSession records
type SessionBuilder struct {
	callID         string
	loadID         string
	carrierMC      string
	classification string
	sentiment      string
	initialRate    *float64
	agreedRate     *float64
	rounds         *int
	durationSec    int
}

// NewSessionBuilder creates a SessionBuilder defaulting to an accepted call.
func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		callID:         uuid.NewString(),
		loadID:         "LOAD001",
		carrierMC:      "MC-123456",
		classification: callsession.ClassificationAccepted,
		sentiment:      "positive",
		durationSec:    240,
	}
}

func (b *SessionBuilder) WithClassification(c string) *SessionBuilder {
	b.classification = c
	return b
}

func (b *SessionBuilder) WithSentiment(s string) *SessionBuilder {
	b.sentiment = s
	return b
}

func (b *SessionBuilder) WithInitialRate(rate float64) *SessionBuilder {
	b.initialRate = &rate
	return b
}

func (b *SessionBuilder) WithAgreedRate(rate float64) *SessionBuilder {
	b.agreedRate = &rate
	return b
}

func (b *SessionBuilder) WithRounds(rounds int) *SessionBuilder {
	b.rounds = &rounds
	return b
}

// Build constructs the CallSession, failing the test on invalid fixture data.
func (b *SessionBuilder) Build(t *testing.T) *callsession.CallSession {
	t.Helper()

	s, err := callsession.New(b.callID, b.classification, b.durationSec)
	if err != nil {
		t.Fatalf("invalid call session fixture: %v", err)
	}
	s.LoadID = b.loadID
	s.CarrierMC = b.carrierMC
	s.Sentiment = b.sentiment
	s.InitialRate = b.initialRate
	s.AgreedRate = b.agreedRate
	s.NegotiationRounds = b.rounds
	s.CreatedAt = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	return s
}
