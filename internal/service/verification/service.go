package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/felixggj/happy-robot-fde/internal/domain/carrier"
	"github.com/felixggj/happy-robot-fde/internal/infrastructure/cache"
	"github.com/felixggj/happy-robot-fde/internal/infrastructure/config"
)

// Service verifies carrier eligibility against the FMCSA registry. Every
// failure path returns a fixed not-eligible result; no registry problem ever
// escapes as an error.
type Service interface {
	Verify(ctx context.Context, mcNumber string) *carrier.VerificationResult
}

// Operating statuses the registry reports for carriers in good standing.
var eligibleStatuses = map[string]bool{
	"ACTIVE":     true,
	"AUTHORIZED": true,
}

// service implements the Service interface
type service struct {
	client  *http.Client
	cache   cache.Cache
	limiter *rate.Limiter
	cfg     config.FMCSAConfig
	logger  *slog.Logger
}

// NewService creates a new verification service. The cache is optional; a
// nil cache disables result caching, nothing else.
func NewService(cfg config.FMCSAConfig, c cache.Cache, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &service{
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   c,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		cfg:     cfg,
		logger:  logger,
	}
}

// Verify checks one MC number. Accepts "123456", "MC123456" or "MC-123456".
func (s *service) Verify(ctx context.Context, mcNumber string) *carrier.VerificationResult {
	if strings.TrimSpace(mcNumber) == "" {
		return carrier.NotEligible(carrier.StatusInvalid, "MC number is required")
	}

	identifier := normalizeMC(mcNumber)

	if cached := s.fromCache(ctx, identifier); cached != nil {
		return cached
	}

	if s.cfg.WebKey == "" {
		s.logger.WarnContext(ctx, "fmcsa web key not configured, failing closed")
		return unavailable()
	}

	result := s.lookup(ctx, identifier)

	// Only definitive answers are cached; transient failures retry on the
	// next call.
	if result.Status != carrier.StatusError {
		s.toCache(ctx, identifier, result)
	}

	return result
}

func (s *service) lookup(ctx context.Context, identifier string) *carrier.VerificationResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.ErrorContext(ctx, "fmcsa rate limiter wait failed", "error", err)
		return unavailable()
	}

	reqURL := fmt.Sprintf("%s/docketNumber/%s?webKey=%s",
		s.cfg.BaseURL, url.PathEscape(identifier), url.QueryEscape(s.cfg.WebKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "building fmcsa request failed", "error", err)
		return unavailable()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.ErrorContext(ctx, "fmcsa request failed", "mc_number", identifier, "error", err)
		return unavailable()
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body registryResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			s.logger.ErrorContext(ctx, "decoding fmcsa response failed", "error", err)
			return unavailable()
		}
		return parseRegistryResponse(&body)
	case http.StatusNotFound:
		return carrier.NotEligible(carrier.StatusNotFound, "Carrier not found in FMCSA database")
	default:
		s.logger.ErrorContext(ctx, "fmcsa returned unexpected status",
			"mc_number", identifier, "status_code", resp.StatusCode)
		return unavailable()
	}
}

type registryResponse struct {
	Content []registryCarrier `json:"content"`
}

type registryCarrier struct {
	LegalName        string `json:"legalName"`
	OperatingStatus  string `json:"operatingStatus"`
	OutOfServiceDate string `json:"outOfServiceDate"`
	SafetyRating     string `json:"safetyRating"`
}

func parseRegistryResponse(body *registryResponse) *carrier.VerificationResult {
	if len(body.Content) == 0 {
		return carrier.NotEligible(carrier.StatusNotFound, "No carrier data found")
	}

	c := body.Content[0]
	operatingStatus := strings.ToUpper(c.OperatingStatus)

	eligible := eligibleStatuses[operatingStatus] && c.OutOfServiceDate == ""

	riskNotes := []string{}
	if !eligibleStatuses[operatingStatus] {
		riskNotes = append(riskNotes, "Operating status: "+operatingStatus)
	}
	if c.OutOfServiceDate != "" {
		riskNotes = append(riskNotes, "Out of service: "+c.OutOfServiceDate)
	}

	switch c.SafetyRating {
	case "UNSATISFACTORY":
		riskNotes = append(riskNotes, "Safety rating: "+c.SafetyRating)
		eligible = false
	case "CONDITIONAL":
		riskNotes = append(riskNotes, "Safety rating: "+c.SafetyRating)
	}

	legalName := c.LegalName
	if legalName == "" {
		legalName = "Unknown"
	}

	return &carrier.VerificationResult{
		Eligible:  eligible,
		LegalName: &legalName,
		Status:    strings.ToLower(operatingStatus),
		RiskNotes: riskNotes,
	}
}

// normalizeMC strips the MC prefix so "MC-123456" and "123456" hit the same
// docket number.
func normalizeMC(mc string) string {
	id := strings.TrimSpace(mc)
	upper := strings.ToUpper(id)
	if strings.HasPrefix(upper, "MC") {
		id = id[2:]
		id = strings.TrimPrefix(id, "-")
		id = strings.TrimSpace(id)
	}
	return id
}

func unavailable() *carrier.VerificationResult {
	return carrier.NotEligible(carrier.StatusError, "Carrier verification unavailable - please try again later")
}

func (s *service) fromCache(ctx context.Context, identifier string) *carrier.VerificationResult {
	if s.cache == nil {
		return nil
	}
	var result carrier.VerificationResult
	err := s.cache.GetJSON(ctx, cache.VerificationPrefix+identifier, &result)
	if err != nil {
		return nil
	}
	return &result
}

func (s *service) toCache(ctx context.Context, identifier string, result *carrier.VerificationResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, cache.VerificationPrefix+identifier, result, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "caching verification result failed", "error", err)
	}
}
