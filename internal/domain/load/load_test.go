package load_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
)

func TestNewLoad(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		origin  string
		dest    string
		equip   string
		rate    float64
		wantErr string
	}{
		{
			name:   "creates load with valid data",
			id:     "LOAD001",
			origin: "Chicago, IL",
			dest:   "Atlanta, GA",
			equip:  "Dry Van",
			rate:   2500.00,
		},
		{
			name:    "rejects empty id",
			origin:  "Chicago, IL",
			dest:    "Atlanta, GA",
			equip:   "Dry Van",
			rate:    2500.00,
			wantErr: "load id cannot be empty",
		},
		{
			name:    "rejects empty origin",
			id:      "LOAD001",
			dest:    "Atlanta, GA",
			equip:   "Dry Van",
			rate:    2500.00,
			wantErr: "origin and destination cannot be empty",
		},
		{
			name:    "rejects zero rate",
			id:      "LOAD001",
			origin:  "Chicago, IL",
			dest:    "Atlanta, GA",
			equip:   "Dry Van",
			wantErr: "loadboard rate must be positive",
		},
		{
			name:    "rejects negative rate",
			id:      "LOAD001",
			origin:  "Chicago, IL",
			dest:    "Atlanta, GA",
			equip:   "Dry Van",
			rate:    -100,
			wantErr: "loadboard rate must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := load.NewLoad(tt.id, tt.origin, tt.dest, "2024-01-15 08:00", "2024-01-16 18:00", tt.equip, tt.rate)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, load.StatusAvailable, l.Status)
			assert.True(t, l.IsAvailable())
			assert.NotZero(t, l.CreatedAt)
		})
	}
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []load.Status{load.StatusAvailable, load.StatusBooked, load.StatusExpired} {
		assert.Equal(t, s, load.ParseStatus(s.String()))
	}
	assert.Equal(t, load.StatusBooked, load.ParseStatus("garbage"))
}

func TestSearchCriteriaLimit(t *testing.T) {
	assert.Equal(t, load.DefaultMaxResults, load.SearchCriteria{}.Limit())
	assert.Equal(t, load.DefaultMaxResults, load.SearchCriteria{MaxResults: -3}.Limit())
	assert.Equal(t, 25, load.SearchCriteria{MaxResults: 25}.Limit())
	assert.Equal(t, load.MaxResultsCeiling, load.SearchCriteria{MaxResults: 500}.Limit())
}
