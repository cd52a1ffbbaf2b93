package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
	"github.com/felixggj/happy-robot-fde/internal/errors"
)

// Scoring weights. Equipment dominates: a wrong trailer makes a load
// unusable, a wrong lane only makes it suboptimal.
const (
	scoreBase             = 10.0
	scoreEquipmentExact   = 100.0
	scoreEquipmentPartial = 50.0
	scoreOriginMatch      = 30.0
	scoreDestinationMatch = 30.0
)

// candidateCeiling bounds the over-fetch regardless of the requested limit.
const candidateCeiling = 100

// service implements the Service interface
type service struct {
	repo   LoadRepository
	logger *slog.Logger
}

// NewService creates a new load matching service
func NewService(repo LoadRepository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{repo: repo, logger: logger}
}

// Search queries the repository, scores each candidate, and returns the top
// matches. Empty criteria fall through to repository order by base score;
// no matches is an empty slice, never an error.
func (s *service) Search(ctx context.Context, criteria load.SearchCriteria) ([]load.ScoredLoad, error) {
	limit := criteria.Limit()

	// Over-fetch so scoring can re-rank beyond the SQL filters.
	fetch := limit * 2
	if fetch > candidateCeiling {
		fetch = candidateCeiling
	}

	candidates, err := s.repo.FindAvailable(ctx, Filters{
		Origin:        criteria.Origin,
		Destination:   criteria.Destination,
		EquipmentType: criteria.EquipmentType,
		PickupFrom:    criteria.PickupFrom,
		PickupTo:      criteria.PickupTo,
		Limit:         fetch,
	})
	if err != nil {
		return nil, errors.NewInternalError(fmt.Sprintf("load search failed: %v", err)).WithCause(err)
	}

	scored := make([]load.ScoredLoad, 0, len(candidates))
	for _, l := range candidates {
		if score := matchScore(l, criteria); score > 0 {
			scored = append(scored, load.ScoredLoad{Load: l, Score: score})
		}
	}

	// Stable sort: ties keep repository order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	s.logger.DebugContext(ctx, "load search completed",
		"candidates", len(candidates),
		"matches", len(scored),
		"limit", limit)

	return scored, nil
}

// matchScore computes the additive relevance score for one candidate.
func matchScore(l *load.Load, c load.SearchCriteria) float64 {
	score := scoreBase

	if c.EquipmentType != "" {
		want := strings.ToLower(c.EquipmentType)
		have := strings.ToLower(l.EquipmentType)
		switch {
		case have == want:
			score += scoreEquipmentExact
		case strings.Contains(have, want):
			score += scoreEquipmentPartial
		}
	}

	if c.Origin != "" && strings.Contains(strings.ToLower(l.Origin), strings.ToLower(c.Origin)) {
		score += scoreOriginMatch
	}
	if c.Destination != "" && strings.Contains(strings.ToLower(l.Destination), strings.ToLower(c.Destination)) {
		score += scoreDestinationMatch
	}

	return score
}
