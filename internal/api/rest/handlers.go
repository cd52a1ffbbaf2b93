package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/felixggj/happy-robot-fde/internal/domain/callsession"
	apperrors "github.com/felixggj/happy-robot-fde/internal/errors"
	"github.com/felixggj/happy-robot-fde/internal/service/analytics"
	"github.com/felixggj/happy-robot-fde/internal/service/matching"
	"github.com/felixggj/happy-robot-fde/internal/service/negotiation"
	"github.com/felixggj/happy-robot-fde/internal/service/verification"
)

const (
	defaultSessionListLimit = 20
	maxSessionListLimit     = 100
	maxBodySize             = 1 << 20 // 1MB
)

// Services bundles everything the handlers depend on.
type Services struct {
	Matching     matching.Service
	Negotiation  negotiation.Service
	Verification verification.Service
	Analytics    analytics.Service
	Sessions     SessionRepository

	// Health pings the server's dependencies. Nil means liveness only.
	Health func(ctx context.Context) error
}

// SessionRepository is the call outcome storage the handlers use.
type SessionRepository interface {
	Create(ctx context.Context, s *callsession.CallSession) error
	ListRecent(ctx context.Context, limit int) ([]*callsession.CallSession, error)
}

// Handler serves the carrier sales API.
type Handler struct {
	services  *Services
	validator *validator.Validate
	logger    *slog.Logger
	version   string
}

// NewHandler creates the API handler
func NewHandler(services *Services, logger *slog.Logger, version string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		services:  services,
		validator: validator.New(),
		logger:    logger,
		version:   version,
	}
}

// RegisterRoutes wires all endpoints onto the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("POST /api/verify", h.handleVerifyCarrier)
	mux.HandleFunc("GET /api/loads/search", h.handleSearchLoads)
	mux.HandleFunc("POST /api/offers/evaluate", h.handleEvaluateOffer)
	mux.HandleFunc("POST /api/events/call-completed", h.handleCallCompleted)
	mux.HandleFunc("GET /api/call-sessions", h.handleListSessions)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.services.Health != nil {
		if err := h.services.Health(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Version: h.version})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

func (h *Handler) handleVerifyCarrier(w http.ResponseWriter, r *http.Request) {
	var req CarrierVerifyRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result := h.services.Verification.Verify(r.Context(), req.CarrierMC)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSearchLoads(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseSearchCriteria(r.URL.Query())
	if err != nil {
		writeAppError(w, http.StatusBadRequest, apperrors.NewValidationError(err.Error()))
		return
	}

	scored, err := h.services.Matching.Search(r.Context(), criteria)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// always a JSON array, never null
	resp := make([]LoadSearchResponse, 0, len(scored))
	for _, sl := range scored {
		resp = append(resp, toLoadSearchResponse(sl))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEvaluateOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferEvaluateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	decision, err := h.services.Negotiation.Evaluate(r.Context(), req.ToOfferContext())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	offerDecisionsTotal.WithLabelValues(string(decision.Decision)).Inc()
	writeJSON(w, http.StatusOK, decision)
}

func (h *Handler) handleCallCompleted(w http.ResponseWriter, r *http.Request) {
	var req CallCompleteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	session, err := callsession.New(req.CallID, req.Classification, req.DurationSec)
	if err != nil {
		writeAppError(w, http.StatusBadRequest, apperrors.NewValidationError(err.Error()))
		return
	}
	session.LoadID = req.LoadID
	session.CarrierMC = req.CarrierMC
	session.CarrierName = req.CarrierName
	session.InitialRate = req.InitialRate
	session.AgreedRate = req.AgreedRate
	session.NegotiationRounds = req.NegotiationRounds
	session.Sentiment = req.Sentiment
	session.Transcript = req.Transcript

	if err := h.services.Sessions.Create(r.Context(), session); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			writeError(w, http.StatusConflict, "CONFLICT", err.Error())
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "call completed",
		"call_id", session.CallID,
		"load_id", session.LoadID,
		"classification", session.Classification)

	writeJSON(w, http.StatusOK, StatusResponse{Status: "recorded"})
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseListLimit(r.URL.Query(), defaultSessionListLimit, maxSessionListLimit)
	if err != nil {
		writeAppError(w, http.StatusBadRequest, apperrors.NewValidationError(err.Error()))
		return
	}

	sessions, err := h.services.Sessions.ListRecent(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if sessions == nil {
		sessions = []*callsession.CallSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.services.Analytics.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// decodeAndValidate reads, decodes and validates a JSON body. It writes the
// 400 itself and reports whether the handler may proceed.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		writeAppError(w, http.StatusBadRequest, apperrors.NewValidationError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Struct(dest); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeAppError(w, http.StatusBadRequest,
				apperrors.NewValidationError("Invalid field: "+strings.ToLower(verrs[0].Field())))
			return false
		}
		writeAppError(w, http.StatusBadRequest, apperrors.NewValidationError("Invalid request"))
		return false
	}

	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.CodeValidation:
			writeAppError(w, http.StatusBadRequest, appErr)
			return
		case apperrors.CodeUnauthorized:
			writeAppError(w, http.StatusUnauthorized, appErr)
			return
		}
	}

	h.logger.ErrorContext(r.Context(), "request failed",
		"path", r.URL.Path,
		"error", err)
	writeError(w, http.StatusInternalServerError, apperrors.CodeInternal, "An internal error occurred")
}
