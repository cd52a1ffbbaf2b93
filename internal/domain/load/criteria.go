package load

// DefaultMaxResults caps a search when the caller does not ask for a size.
const DefaultMaxResults = 10

// MaxResultsCeiling bounds how many results a single search may request.
const MaxResultsCeiling = 50

// SearchCriteria carries one search call's filters. Empty string fields are
// not applied. PickupFrom/PickupTo are inclusive bounds compared lexically
// against the stored pickup timestamp.
type SearchCriteria struct {
	Origin        string
	Destination   string
	EquipmentType string
	PickupFrom    string
	PickupTo      string
	MaxResults    int
}

// Limit returns the effective result count for these criteria.
func (c SearchCriteria) Limit() int {
	if c.MaxResults <= 0 {
		return DefaultMaxResults
	}
	if c.MaxResults > MaxResultsCeiling {
		return MaxResultsCeiling
	}
	return c.MaxResults
}

// ScoredLoad pairs a load with its relevance score for one search.
type ScoredLoad struct {
	Load  *Load   `json:"load"`
	Score float64 `json:"score"`
}
