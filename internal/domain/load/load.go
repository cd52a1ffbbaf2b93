package load

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when no load matches the given ID.
var ErrNotFound = errors.New("load not found")

// Load is a posted shipment on the loadboard. Pickup and delivery times are
// stored as strings and compared lexically; callers must supply a sortable
// format (the ingestion pipeline writes "YYYY-MM-DD HH:MM").
type Load struct {
	ID               string  `json:"load_id"`
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	PickupDatetime   string  `json:"pickup_datetime"`
	DeliveryDatetime string  `json:"delivery_datetime"`
	EquipmentType    string  `json:"equipment_type"`
	LoadboardRate    float64 `json:"loadboard_rate"`

	Notes         string   `json:"notes,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	CommodityType *string  `json:"commodity_type,omitempty"`
	NumOfPieces   *int     `json:"num_of_pieces,omitempty"`
	Miles         *float64 `json:"miles,omitempty"`
	Dimensions    *string  `json:"dimensions,omitempty"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Status int

const (
	StatusAvailable Status = iota
	StatusBooked
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusBooked:
		return "booked"
	case StatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// ParseStatus maps the stored status string back to a Status. Unrecognized
// values are treated as booked so they never surface as matchable.
func ParseStatus(s string) Status {
	switch s {
	case "available":
		return StatusAvailable
	case "booked":
		return StatusBooked
	case "expired":
		return StatusExpired
	default:
		return StatusBooked
	}
}

// NewLoad creates a Load with the required fields validated.
func NewLoad(id, origin, destination, pickup, delivery, equipmentType string, loadboardRate float64) (*Load, error) {
	if id == "" {
		return nil, errors.New("load id cannot be empty")
	}
	if origin == "" || destination == "" {
		return nil, errors.New("origin and destination cannot be empty")
	}
	if equipmentType == "" {
		return nil, errors.New("equipment type cannot be empty")
	}
	if loadboardRate <= 0 {
		return nil, errors.New("loadboard rate must be positive")
	}

	return &Load{
		ID:               id,
		Origin:           origin,
		Destination:      destination,
		PickupDatetime:   pickup,
		DeliveryDatetime: delivery,
		EquipmentType:    equipmentType,
		LoadboardRate:    loadboardRate,
		Status:           StatusAvailable,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// IsAvailable reports whether the load can still be matched.
func (l *Load) IsAvailable() bool {
	return l.Status == StatusAvailable
}
