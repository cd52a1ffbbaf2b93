package matching_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
	"github.com/felixggj/happy-robot-fde/internal/service/matching"
	"github.com/felixggj/happy-robot-fde/internal/testutil/fixtures"
)

// memoryRepo applies the same filter semantics as the Postgres repository,
// over an in-memory slice in insertion order.
type memoryRepo struct {
	loads []*load.Load
	err   error
}

func (m *memoryRepo) FindAvailable(_ context.Context, f matching.Filters) ([]*load.Load, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*load.Load
	for _, l := range m.loads {
		if !l.IsAvailable() {
			continue
		}
		if f.Origin != "" && !strings.Contains(strings.ToLower(l.Origin), strings.ToLower(f.Origin)) {
			continue
		}
		if f.Destination != "" && !strings.Contains(strings.ToLower(l.Destination), strings.ToLower(f.Destination)) {
			continue
		}
		if f.EquipmentType != "" && !strings.Contains(strings.ToLower(l.EquipmentType), strings.ToLower(f.EquipmentType)) {
			continue
		}
		if f.PickupFrom != "" && l.PickupDatetime < f.PickupFrom {
			continue
		}
		if f.PickupTo != "" && l.PickupDatetime > f.PickupTo {
			continue
		}
		out = append(out, l)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

func TestSearchScoring(t *testing.T) {
	reefer := fixtures.NewLoadBuilder().WithID("L1").WithEquipment("Reefer").Build(t)
	dryVan := fixtures.NewLoadBuilder().WithID("L2").WithEquipment("Dry Van").Build(t)

	tests := []struct {
		name      string
		loads     []*load.Load
		criteria  load.SearchCriteria
		wantIDs   []string
		wantScore map[string]float64
	}{
		{
			name:      "exact equipment match scores base plus exact",
			loads:     []*load.Load{reefer},
			criteria:  load.SearchCriteria{EquipmentType: "Reefer"},
			wantIDs:   []string{"L1"},
			wantScore: map[string]float64{"L1": 110},
		},
		{
			name:      "partial equipment match scores base plus partial",
			loads:     []*load.Load{dryVan},
			criteria:  load.SearchCriteria{EquipmentType: "van"},
			wantIDs:   []string{"L2"},
			wantScore: map[string]float64{"L2": 60},
		},
		{
			name:      "equipment match is case-insensitive",
			loads:     []*load.Load{reefer},
			criteria:  load.SearchCriteria{EquipmentType: "REEFER"},
			wantIDs:   []string{"L1"},
			wantScore: map[string]float64{"L1": 110},
		},
		{
			name: "origin and destination add thirty each",
			loads: []*load.Load{
				fixtures.NewLoadBuilder().WithID("L3").
					WithLane("Chicago, IL", "Atlanta, GA").
					WithEquipment("Dry Van").Build(t),
			},
			criteria:  load.SearchCriteria{Origin: "chicago", Destination: "atlanta", EquipmentType: "Dry Van"},
			wantIDs:   []string{"L3"},
			wantScore: map[string]float64{"L3": 170},
		},
		{
			name: "exact equipment outranks closer lane",
			loads: []*load.Load{
				fixtures.NewLoadBuilder().WithID("LANE").
					WithLane("Dallas, TX", "Phoenix, AZ").
					WithEquipment("Flatbed").Build(t),
				fixtures.NewLoadBuilder().WithID("EQUIP").
					WithLane("Miami, FL", "New York, NY").
					WithEquipment("Reefer").Build(t),
			},
			criteria: load.SearchCriteria{EquipmentType: "Reefer"},
			wantIDs:  []string{"EQUIP"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := matching.NewService(&memoryRepo{loads: tt.loads}, nil)
			got, err := svc.Search(context.Background(), tt.criteria)
			require.NoError(t, err)

			ids := make([]string, len(got))
			for i, sl := range got {
				ids[i] = sl.Load.ID
				if want, ok := tt.wantScore[sl.Load.ID]; ok {
					assert.Equal(t, want, sl.Score, "score for %s", sl.Load.ID)
				}
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSearchOrderingAndTruncation(t *testing.T) {
	var loads []*load.Load
	// three exact reefers, then a partial, then plain vans
	for _, id := range []string{"R1", "R2", "R3"} {
		loads = append(loads, fixtures.NewLoadBuilder().WithID(id).WithEquipment("Reefer").Build(t))
	}
	loads = append(loads, fixtures.NewLoadBuilder().WithID("P1").WithEquipment("Reefer Van").Build(t))
	loads = append(loads, fixtures.NewLoadBuilder().WithID("V1").WithEquipment("Dry Van").Build(t))

	svc := matching.NewService(&memoryRepo{loads: loads}, nil)

	got, err := svc.Search(context.Background(), load.SearchCriteria{MaxResults: 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	// no criteria: everything ties at base score, repository order preserved
	assert.Equal(t, "R1", got[0].Load.ID)
	assert.Equal(t, "R2", got[1].Load.ID)
	assert.Equal(t, "R3", got[2].Load.ID)

	got, err = svc.Search(context.Background(), load.SearchCriteria{EquipmentType: "Reefer"})
	require.NoError(t, err)
	require.Len(t, got, 4)
	// exact matches first in repository order, partial after
	assert.Equal(t, []float64{110, 110, 110, 60}, []float64{got[0].Score, got[1].Score, got[2].Score, got[3].Score})
	assert.Equal(t, "P1", got[3].Load.ID)
}

func TestSearchEdgeCases(t *testing.T) {
	t.Run("empty repository returns empty slice", func(t *testing.T) {
		svc := matching.NewService(&memoryRepo{}, nil)
		got, err := svc.Search(context.Background(), load.SearchCriteria{Origin: "Chicago"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("booked loads are never matched", func(t *testing.T) {
		booked := fixtures.NewLoadBuilder().WithID("B1").WithStatus(load.StatusBooked).Build(t)
		svc := matching.NewService(&memoryRepo{loads: []*load.Load{booked}}, nil)
		got, err := svc.Search(context.Background(), load.SearchCriteria{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("pickup window is inclusive", func(t *testing.T) {
		l := fixtures.NewLoadBuilder().WithID("W1").WithPickup("2024-01-15 08:00").Build(t)
		svc := matching.NewService(&memoryRepo{loads: []*load.Load{l}}, nil)

		got, err := svc.Search(context.Background(), load.SearchCriteria{
			PickupFrom: "2024-01-15 08:00",
			PickupTo:   "2024-01-15 08:00",
		})
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = svc.Search(context.Background(), load.SearchCriteria{PickupFrom: "2024-01-15 08:01"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("repository failure surfaces as internal error", func(t *testing.T) {
		svc := matching.NewService(&memoryRepo{err: errors.New("connection refused")}, nil)
		_, err := svc.Search(context.Background(), load.SearchCriteria{})
		require.Error(t, err)
	})
}
