package matching

import (
	"context"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
)

// Filters narrow the repository query before scoring. String fields are
// case-insensitive substring filters; pickup bounds are inclusive lexical
// comparisons against the stored timestamp.
type Filters struct {
	Origin        string
	Destination   string
	EquipmentType string
	PickupFrom    string
	PickupTo      string
	Limit         int
}

// LoadRepository defines the interface for load storage
type LoadRepository interface {
	// FindAvailable returns available loads matching the filters, in
	// repository order, up to Limit.
	FindAvailable(ctx context.Context, f Filters) ([]*load.Load, error)
}

// Service defines the load matching service interface
type Service interface {
	// Search scores and ranks available loads against the criteria,
	// highest score first, truncated to the criteria's limit.
	Search(ctx context.Context, criteria load.SearchCriteria) ([]load.ScoredLoad, error)
}
