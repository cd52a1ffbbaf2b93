package carrier

// Verification status values surfaced to callers. The external registry's
// operating status is lowercased into Status when a lookup succeeds; the
// fixed values below cover everything else.
const (
	StatusInvalid  = "invalid"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// VerificationResult is the outcome of an eligibility check against the
// FMCSA registry. Field names are the stable wire contract the voice agent
// consumes.
type VerificationResult struct {
	Eligible  bool     `json:"eligible"`
	LegalName *string  `json:"legalName"`
	Status    string   `json:"status"`
	RiskNotes []string `json:"riskNotes"`
}

// NotEligible builds the fail-closed result used for every lookup failure.
func NotEligible(status string, notes ...string) *VerificationResult {
	if notes == nil {
		notes = []string{}
	}
	return &VerificationResult{
		Eligible:  false,
		LegalName: nil,
		Status:    status,
		RiskNotes: notes,
	}
}
