package callsession

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Classification values the voice agent reports for a finished call.
const (
	ClassificationAccepted   = "accepted"
	ClassificationRejected   = "rejected"
	ClassificationNoCarrier  = "no_carrier"
	ClassificationFollowUp   = "follow_up"
	ClassificationIneligible = "ineligible"
)

// CallSession records the outcome of one negotiation call. Rates and rounds
// are pointers because the agent may end a call before any offer is made.
type CallSession struct {
	CallID            string   `json:"call_id"`
	CarrierMC         string   `json:"carrier_mc,omitempty"`
	CarrierName       string   `json:"carrier_name,omitempty"`
	LoadID            string   `json:"load_id,omitempty"`
	InitialRate       *float64 `json:"initial_rate,omitempty"`
	AgreedRate        *float64 `json:"agreed_rate,omitempty"`
	NegotiationRounds *int     `json:"negotiation_rounds,omitempty"`
	Classification    string   `json:"classification"`
	Sentiment         string   `json:"sentiment,omitempty"`
	DurationSec       int      `json:"duration_sec"`
	Transcript        string   `json:"transcript,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// New creates a CallSession for a finished call. A missing call ID gets a
// generated one so the recorder never drops an outcome over it.
func New(callID, classification string, durationSec int) (*CallSession, error) {
	if classification == "" {
		return nil, errors.New("classification cannot be empty")
	}
	if durationSec < 0 {
		return nil, errors.New("duration cannot be negative")
	}
	if callID == "" {
		callID = uuid.NewString()
	}

	return &CallSession{
		CallID:         callID,
		Classification: classification,
		DurationSec:    durationSec,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Revenue returns the rate this call contributes to booked revenue: the
// agreed rate when one exists, the initial rate otherwise, zero for calls
// that never produced a number.
func (s *CallSession) Revenue() float64 {
	if s.AgreedRate != nil {
		return *s.AgreedRate
	}
	if s.InitialRate != nil {
		return *s.InitialRate
	}
	return 0
}
