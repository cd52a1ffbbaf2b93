package rest

import (
	"encoding/json"
	"net/http"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
	apperrors "github.com/felixggj/happy-robot-fde/internal/errors"
)

// LoadSearchResponse is one scored load on the wire. Field names match the
// voice-agent tooling contract.
type LoadSearchResponse struct {
	LoadID           string   `json:"load_id"`
	Origin           string   `json:"origin"`
	Destination      string   `json:"destination"`
	PickupDatetime   string   `json:"pickup_datetime"`
	DeliveryDatetime string   `json:"delivery_datetime"`
	EquipmentType    string   `json:"equipment_type"`
	LoadboardRate    float64  `json:"loadboard_rate"`
	Notes            string   `json:"notes,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
	CommodityType    *string  `json:"commodity_type,omitempty"`
	NumOfPieces      *int     `json:"num_of_pieces,omitempty"`
	Miles            *float64 `json:"miles,omitempty"`
	Dimensions       *string  `json:"dimensions,omitempty"`
	Score            float64  `json:"score"`
}

func toLoadSearchResponse(sl load.ScoredLoad) LoadSearchResponse {
	l := sl.Load
	return LoadSearchResponse{
		LoadID:           l.ID,
		Origin:           l.Origin,
		Destination:      l.Destination,
		PickupDatetime:   l.PickupDatetime,
		DeliveryDatetime: l.DeliveryDatetime,
		EquipmentType:    l.EquipmentType,
		LoadboardRate:    l.LoadboardRate,
		Notes:            l.Notes,
		Weight:           l.Weight,
		CommodityType:    l.CommodityType,
		NumOfPieces:      l.NumOfPieces,
		Miles:            l.Miles,
		Dimensions:       l.Dimensions,
		Score:            sl.Score,
	}
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// StatusResponse acknowledges a write.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

func writeAppError(w http.ResponseWriter, status int, err *apperrors.AppError) {
	writeError(w, status, err.Code, err.Message)
}
