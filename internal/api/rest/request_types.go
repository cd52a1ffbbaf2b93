package rest

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
	"github.com/felixggj/happy-robot-fde/internal/service/negotiation"
)

// CarrierVerifyRequest asks for an eligibility check.
type CarrierVerifyRequest struct {
	CarrierMC string `json:"carrier_mc" validate:"required"`
}

// OfferEvaluateRequest carries one offer for the policy engine. Rates arrive
// as JSON numbers; malformed payloads are rejected here, before the policy
// sees them.
type OfferEvaluateRequest struct {
	LoadID            string   `json:"load_id" validate:"required"`
	InitialRate       float64  `json:"initial_rate" validate:"required,gt=0"`
	AgreedRate        *float64 `json:"agreed_rate" validate:"omitempty,gt=0"`
	NegotiationRounds *int     `json:"negotiation_rounds" validate:"omitempty,gte=0"`
}

// ToOfferContext converts the validated request into the policy input.
func (r *OfferEvaluateRequest) ToOfferContext() negotiation.OfferContext {
	return negotiation.OfferContext{
		LoadID:      r.LoadID,
		InitialRate: r.InitialRate,
		AgreedRate:  r.AgreedRate,
		Rounds:      r.NegotiationRounds,
	}
}

// CallCompleteRequest records a finished call.
type CallCompleteRequest struct {
	CallID            string   `json:"call_id"`
	LoadID            string   `json:"load_id"`
	CarrierMC         string   `json:"carrier_mc"`
	CarrierName       string   `json:"carrier_name"`
	InitialRate       *float64 `json:"initial_rate" validate:"omitempty,gt=0"`
	AgreedRate        *float64 `json:"agreed_rate" validate:"omitempty,gt=0"`
	NegotiationRounds *int     `json:"negotiation_rounds" validate:"omitempty,gte=0"`
	Classification    string   `json:"classification" validate:"required"`
	Sentiment         string   `json:"sentiment"`
	DurationSec       int      `json:"duration_sec" validate:"gte=0"`
	Transcript        string   `json:"transcript"`
}

// parseSearchCriteria decodes the load search query string. Numeric fields
// parse-or-reject; nothing loose reaches the matcher.
func parseSearchCriteria(q url.Values) (load.SearchCriteria, error) {
	criteria := load.SearchCriteria{
		Origin:        q.Get("origin"),
		Destination:   q.Get("destination"),
		EquipmentType: q.Get("equipment_type"),
		PickupFrom:    q.Get("pickup_from"),
		PickupTo:      q.Get("pickup_to"),
	}

	if raw := q.Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return load.SearchCriteria{}, fmt.Errorf("max_results must be an integer")
		}
		if n < 1 {
			return load.SearchCriteria{}, fmt.Errorf("max_results must be positive")
		}
		criteria.MaxResults = n
	}

	return criteria, nil
}

// parseListLimit decodes the call-session list limit with a default and cap.
func parseListLimit(q url.Values, def, max int) (int, error) {
	raw := q.Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	if n > max {
		n = max
	}
	return n, nil
}
