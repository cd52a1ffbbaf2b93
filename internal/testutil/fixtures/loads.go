package fixtures

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
)

var loadSeq atomic.Int64

// LoadBuilder builds test Load entities
type LoadBuilder struct {
	id            string
	origin        string
	destination   string
	pickup        string
	delivery      string
	equipmentType string
	rate          float64
	status        load.Status
	miles         *float64
	weight        *float64
	commodity     *string
}

// NewLoadBuilder creates a LoadBuilder with workable defaults.
func NewLoadBuilder() *LoadBuilder {
	return &LoadBuilder{
		id:            fmt.Sprintf("LOAD%03d", loadSeq.Add(1)),
		origin:        "Chicago, IL",
		destination:   "Atlanta, GA",
		pickup:        "2024-01-15 08:00",
		delivery:      "2024-01-16 18:00",
		equipmentType: "Dry Van",
		rate:          2500.00,
		status:        load.StatusAvailable,
	}
}

func (b *LoadBuilder) WithID(id string) *LoadBuilder {
	b.id = id
	return b
}

func (b *LoadBuilder) WithLane(origin, destination string) *LoadBuilder {
	b.origin = origin
	b.destination = destination
	return b
}

func (b *LoadBuilder) WithPickup(pickup string) *LoadBuilder {
	b.pickup = pickup
	return b
}

func (b *LoadBuilder) WithEquipment(equipmentType string) *LoadBuilder {
	b.equipmentType = equipmentType
	return b
}

func (b *LoadBuilder) WithRate(rate float64) *LoadBuilder {
	b.rate = rate
	return b
}

func (b *LoadBuilder) WithStatus(status load.Status) *LoadBuilder {
	b.status = status
	return b
}

func (b *LoadBuilder) WithMiles(miles float64) *LoadBuilder {
	b.miles = &miles
	return b
}

func (b *LoadBuilder) WithWeight(weight float64) *LoadBuilder {
	b.weight = &weight
	return b
}

func (b *LoadBuilder) WithCommodity(commodity string) *LoadBuilder {
	b.commodity = &commodity
	return b
}

// Build constructs the Load, failing the test on invalid fixture data.
func (b *LoadBuilder) Build(t *testing.T) *load.Load {
	t.Helper()

	l, err := load.NewLoad(b.id, b.origin, b.destination, b.pickup, b.delivery, b.equipmentType, b.rate)
	if err != nil {
		t.Fatalf("invalid load fixture: %v", err)
	}
	l.Status = b.status
	l.Miles = b.miles
	l.Weight = b.weight
	l.CommodityType = b.commodity
	l.CreatedAt = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	return l
}
