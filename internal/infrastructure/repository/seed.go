package repository

import (
	"context"
	"fmt"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
)

// Seeder is the slice of the load repository that seeding needs.
type Seeder interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, l *load.Load) error
}

type seedLoad struct {
	id, origin, destination string
	pickup, delivery        string
	equipment               string
	rate                    float64
	weight, miles           float64
	commodity               string
}

var sampleLoads = []seedLoad{
	{
		id: "LOAD001", origin: "Chicago, IL", destination: "Atlanta, GA",
		pickup: "2026-09-02 08:00", delivery: "2026-09-03 18:00",
		equipment: "Dry Van", rate: 2500,
		weight: 35000, miles: 715, commodity: "General Freight",
	},
	{
		id: "LOAD002", origin: "Dallas, TX", destination: "Phoenix, AZ",
		pickup: "2026-09-03 10:00", delivery: "2026-09-04 16:00",
		equipment: "Flatbed", rate: 2800,
		weight: 45000, miles: 887, commodity: "Steel Coils",
	},
	{
		id: "LOAD003", origin: "Miami, FL", destination: "New York, NY",
		pickup: "2026-09-04 06:00", delivery: "2026-09-06 14:00",
		equipment: "Reefer", rate: 3200,
		weight: 38000, miles: 1283, commodity: "Frozen Foods",
	},
}

// SeedSampleLoads inserts a small demo loadboard when the table is empty.
// Used in development so the search endpoint has data out of the box.
func SeedSampleLoads(ctx context.Context, repo Seeder) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting loads: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, s := range sampleLoads {
		l, err := load.NewLoad(s.id, s.origin, s.destination, s.pickup, s.delivery, s.equipment, s.rate)
		if err != nil {
			return fmt.Errorf("building seed load %s: %w", s.id, err)
		}
		weight, miles, commodity := s.weight, s.miles, s.commodity
		l.Weight = &weight
		l.Miles = &miles
		l.CommodityType = &commodity
		if err := repo.Create(ctx, l); err != nil {
			return fmt.Errorf("inserting seed load %s: %w", s.id, err)
		}
	}
	return nil
}
