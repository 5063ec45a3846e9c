package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewdeck/crewdeck/internal/types"
)

// CreateKPI registers a new tracked metric
func (s *SQLiteStorage) CreateKPI(ctx context.Context, kpi *types.KPI, actor string) error {
	if err := kpi.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if kpi.ID == "" {
		kpi.ID = uuid.NewString()
	}
	kpi.CreatedAt = time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kpis (id, name, unit, direction, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, kpi.ID, kpi.Name, kpi.Unit, kpi.Direction, kpi.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert kpi: %w", err)
	}

	eventData, _ := json.Marshal(kpi)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (entity_kind, entity_id, event_type, actor, new_value)
		VALUES ('kpi', ?, ?, ?, ?)
	`, kpi.ID, types.EventCreated, actor, string(eventData))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return tx.Commit()
}

// GetKPI retrieves a KPI by ID. Returns (nil, nil) if not found.
func (s *SQLiteStorage) GetKPI(ctx context.Context, id string) (*types.KPI, error) {
	var kpi types.KPI
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, unit, direction, created_at FROM kpis WHERE id = ?
	`, id).Scan(&kpi.ID, &kpi.Name, &kpi.Unit, &kpi.Direction, &kpi.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi: %w", err)
	}
	return &kpi, nil
}

// ListKPIs returns all tracked metrics ordered by name
func (s *SQLiteStorage) ListKPIs(ctx context.Context) ([]*types.KPI, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, unit, direction, created_at FROM kpis ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var kpis []*types.KPI
	for rows.Next() {
		var kpi types.KPI
		if err := rows.Scan(&kpi.ID, &kpi.Name, &kpi.Unit, &kpi.Direction, &kpi.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan kpi: %w", err)
		}
		kpis = append(kpis, &kpi)
	}
	return kpis, rows.Err()
}

// AddKPIPoint records one observation. A second observation at the same
// instant replaces the first (corrections re-post the same timestamp).
func (s *SQLiteStorage) AddKPIPoint(ctx context.Context, point *types.KPIPoint) error {
	if point.ObservedAt.IsZero() {
		point.ObservedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kpi_points (kpi_id, observed_at, value)
		VALUES (?, ?, ?)
		ON CONFLICT(kpi_id, observed_at) DO UPDATE SET value = excluded.value
	`, point.KPIID, point.ObservedAt, point.Value)
	if err != nil {
		return fmt.Errorf("failed to add kpi point: %w", err)
	}
	return nil
}

// GetKPISeries returns observations since the given time, oldest first
func (s *SQLiteStorage) GetKPISeries(ctx context.Context, kpiID string, since time.Time) ([]*types.KPIPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kpi_id, observed_at, value
		FROM kpi_points
		WHERE kpi_id = ? AND observed_at >= ?
		ORDER BY observed_at
	`, kpiID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []*types.KPIPoint
	for rows.Next() {
		var p types.KPIPoint
		if err := rows.Scan(&p.KPIID, &p.ObservedAt, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan kpi point: %w", err)
		}
		points = append(points, &p)
	}
	return points, rows.Err()
}
