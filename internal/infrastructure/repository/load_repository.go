package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/felixggj/happy-robot-fde/internal/domain/load"
	"github.com/felixggj/happy-robot-fde/internal/service/matching"
)

// DB is the subset of pgxpool.Pool the repositories need, so they also run
// inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// loadRepository implements load storage using PostgreSQL
type loadRepository struct {
	db DB
}

// NewLoadRepository creates a new load repository
func NewLoadRepository(db DB) *loadRepository {
	return &loadRepository{db: db}
}

const loadColumns = `
	load_id, origin, destination, pickup_datetime, delivery_datetime,
	equipment_type, loadboard_rate, COALESCE(notes, ''), weight,
	commodity_type, num_of_pieces, miles, dimensions, status, created_at`

// FindAvailable returns available loads matching the filters in insertion
// order. Text filters are case-insensitive substring matches; pickup bounds
// compare lexically against the stored timestamp string.
func (r *loadRepository) FindAvailable(ctx context.Context, f matching.Filters) ([]*load.Load, error) {
	var (
		conds = []string{"status = 'available'"}
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Origin != "" {
		conds = append(conds, "origin ILIKE "+arg("%"+f.Origin+"%"))
	}
	if f.Destination != "" {
		conds = append(conds, "destination ILIKE "+arg("%"+f.Destination+"%"))
	}
	if f.EquipmentType != "" {
		conds = append(conds, "equipment_type ILIKE "+arg("%"+f.EquipmentType+"%"))
	}
	if f.PickupFrom != "" {
		conds = append(conds, "pickup_datetime >= "+arg(f.PickupFrom))
	}
	if f.PickupTo != "" {
		conds = append(conds, "pickup_datetime <= "+arg(f.PickupTo))
	}

	query := fmt.Sprintf("SELECT %s FROM loads WHERE %s ORDER BY created_at, load_id",
		loadColumns, strings.Join(conds, " AND "))
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying loads: %w", err)
	}
	defer rows.Close()

	var loads []*load.Load
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}

	return loads, rows.Err()
}

// GetByID retrieves a load by its ID
func (r *loadRepository) GetByID(ctx context.Context, id string) (*load.Load, error) {
	query := fmt.Sprintf("SELECT %s FROM loads WHERE load_id = $1", loadColumns)

	l, err := scanLoad(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, load.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// Create inserts a new load
func (r *loadRepository) Create(ctx context.Context, l *load.Load) error {
	query := `
		INSERT INTO loads (
			load_id, origin, destination, pickup_datetime, delivery_datetime,
			equipment_type, loadboard_rate, notes, weight, commodity_type,
			num_of_pieces, miles, dimensions, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, NULLIF($8, ''), $9, $10,
			$11, $12, $13, $14, $15
		)
	`

	_, err := r.db.Exec(ctx, query,
		l.ID, l.Origin, l.Destination, l.PickupDatetime, l.DeliveryDatetime,
		l.EquipmentType, l.LoadboardRate, l.Notes, l.Weight, l.CommodityType,
		l.NumOfPieces, l.Miles, l.Dimensions, l.Status.String(), l.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("load %s already exists", l.ID)
		}
		return fmt.Errorf("creating load: %w", err)
	}

	return nil
}

// Count returns the number of loads in the inventory.
func (r *loadRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM loads").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting loads: %w", err)
	}
	return n, nil
}

func scanLoad(row pgx.Row) (*load.Load, error) {
	var (
		l         load.Load
		statusStr string
	)

	err := row.Scan(
		&l.ID, &l.Origin, &l.Destination, &l.PickupDatetime, &l.DeliveryDatetime,
		&l.EquipmentType, &l.LoadboardRate, &l.Notes, &l.Weight,
		&l.CommodityType, &l.NumOfPieces, &l.Miles, &l.Dimensions, &statusStr, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning load: %w", err)
	}

	l.Status = load.ParseStatus(statusStr)
	return &l, nil
}
