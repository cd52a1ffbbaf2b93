package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/felixggj/happy-robot-fde/internal/domain/callsession"
)

// callSessionRepository implements call outcome storage using PostgreSQL
type callSessionRepository struct {
	db DB
}

// NewCallSessionRepository creates a new call session repository
func NewCallSessionRepository(db DB) *callSessionRepository {
	return &callSessionRepository{db: db}
}

const sessionColumns = `
	call_id, COALESCE(carrier_mc, ''), COALESCE(carrier_name, ''),
	COALESCE(load_id, ''), initial_rate, agreed_rate, negotiation_rounds,
	classification, COALESCE(sentiment, ''), duration_sec,
	COALESCE(transcript, ''), created_at`

// Create inserts a completed call record
func (r *callSessionRepository) Create(ctx context.Context, s *callsession.CallSession) error {
	query := `
		INSERT INTO call_sessions (
			call_id, carrier_mc, carrier_name, load_id, initial_rate,
			agreed_rate, negotiation_rounds, classification, sentiment,
			duration_sec, transcript, created_at
		) VALUES (
			$1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5,
			$6, $7, $8, NULLIF($9, ''),
			$10, NULLIF($11, ''), $12
		)
	`

	_, err := r.db.Exec(ctx, query,
		s.CallID, s.CarrierMC, s.CarrierName, s.LoadID, s.InitialRate,
		s.AgreedRate, s.NegotiationRounds, s.Classification, s.Sentiment,
		s.DurationSec, s.Transcript, s.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("call session %s already exists", s.CallID)
		}
		return fmt.Errorf("creating call session: %w", err)
	}

	return nil
}

// ListRecent returns the most recent sessions, newest first.
func (r *callSessionRepository) ListRecent(ctx context.Context, limit int) ([]*callsession.CallSession, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM call_sessions ORDER BY created_at DESC LIMIT $1", sessionColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying call sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListAll returns every recorded session, for metrics aggregation.
func (r *callSessionRepository) ListAll(ctx context.Context) ([]*callsession.CallSession, error) {
	query := fmt.Sprintf("SELECT %s FROM call_sessions", sessionColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying call sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]*callsession.CallSession, error) {
	var sessions []*callsession.CallSession
	for rows.Next() {
		var s callsession.CallSession
		err := rows.Scan(
			&s.CallID, &s.CarrierMC, &s.CarrierName,
			&s.LoadID, &s.InitialRate, &s.AgreedRate, &s.NegotiationRounds,
			&s.Classification, &s.Sentiment, &s.DurationSec,
			&s.Transcript, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning call session: %w", err)
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}
