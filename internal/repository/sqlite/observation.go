package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/internal/repository"
)

const observationColumns = `id, ts, category, pattern_type, intensity, duration_minutes, notes, details, created_at, updated_at`

type observationRepository struct {
	db *sql.DB
}

// NewObservationRepository creates a SQLite-backed observation repository
func NewObservationRepository(db *sql.DB) repository.ObservationRepository {
	return &observationRepository{db: db}
}

func (r *observationRepository) Create(ctx context.Context, o *models.Observation) (*models.Observation, error) {
	now := time.Now().UTC()
	created := *o
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO observations (`+observationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, toUnix(created.Timestamp), string(created.Category), string(created.PatternType),
		created.Intensity, created.Duration, nullString(created.Notes), nullString(created.Details),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert observation: %w", err)
	}
	return &created, nil
}

func (r *observationRepository) GetByID(ctx context.Context, id string) (*models.Observation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+observationColumns+` FROM observations WHERE id = ?`, id)
	o, err := scanObservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}
	return o, nil
}

func (r *observationRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Observation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+observationColumns+` FROM observations WHERE ts >= ? AND ts <= ? ORDER BY ts ASC, id ASC`,
		toUnix(start), toUnix(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var out []models.Observation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *observationRepository) Update(ctx context.Context, o *models.Observation) (*models.Observation, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE observations SET notes = ?, details = ?, updated_at = ? WHERE id = ?`,
		nullString(o.Notes), nullString(o.Details), formatTime(now), o.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update observation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, o.ID)
}

func (r *observationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM observations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete observation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanObservation(s scanner) (*models.Observation, error) {
	var (
		o                  models.Observation
		ts                 int64
		category, pattern  string
		notes, details     sql.NullString
		createdAt, updated string
	)
	if err := s.Scan(&o.ID, &ts, &category, &pattern, &o.Intensity, &o.Duration, &notes, &details, &createdAt, &updated); err != nil {
		return nil, err
	}
	o.Timestamp = fromUnix(ts)
	o.Category = models.Category(category)
	o.PatternType = models.PatternType(pattern)
	o.Notes = stringPtr(notes)
	o.Details = stringPtr(details)
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updated)
	return &o, nil
}
