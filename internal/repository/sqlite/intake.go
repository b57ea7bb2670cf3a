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

const intakeColumns = `id, ts, medication_id, taken, effectiveness, mood, energy_level, side_effects_note, skip_reason, created_at, updated_at`

type medicationIntakeRepository struct {
	db *sql.DB
}

// NewMedicationIntakeRepository creates a SQLite-backed intake repository
func NewMedicationIntakeRepository(db *sql.DB) repository.MedicationIntakeRepository {
	return &medicationIntakeRepository{db: db}
}

func (r *medicationIntakeRepository) Create(ctx context.Context, m *models.MedicationIntake) (*models.MedicationIntake, error) {
	now := time.Now().UTC()
	created := *m
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO medication_intakes (`+intakeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, toUnix(created.Timestamp), created.MedicationID, created.Taken,
		created.Effectiveness, created.Mood, created.EnergyLevel,
		nullString(created.SideEffectsNote), nullString(created.SkipReason),
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert medication intake: %w", err)
	}
	return &created, nil
}

func (r *medicationIntakeRepository) GetByID(ctx context.Context, id string) (*models.MedicationIntake, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+intakeColumns+` FROM medication_intakes WHERE id = ?`, id)
	m, err := scanIntake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication intake: %w", err)
	}
	return m, nil
}

func (r *medicationIntakeRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+intakeColumns+` FROM medication_intakes WHERE ts >= ? AND ts <= ? ORDER BY ts ASC, id ASC`,
		toUnix(start), toUnix(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query medication intakes: %w", err)
	}
	defer rows.Close()

	var out []models.MedicationIntake
	for rows.Next() {
		m, err := scanIntake(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication intake: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *medicationIntakeRepository) Update(ctx context.Context, m *models.MedicationIntake) (*models.MedicationIntake, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE medication_intakes
		 SET effectiveness = ?, mood = ?, energy_level = ?, side_effects_note = ?, skip_reason = ?, updated_at = ?
		 WHERE id = ?`,
		m.Effectiveness, m.Mood, m.EnergyLevel,
		nullString(m.SideEffectsNote), nullString(m.SkipReason),
		formatTime(time.Now()), m.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update medication intake: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, m.ID)
}

func (r *medicationIntakeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medication_intakes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication intake: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanIntake(s scanner) (*models.MedicationIntake, error) {
	var (
		m                    models.MedicationIntake
		ts                   int64
		sideEffects, skip    sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&m.ID, &ts, &m.MedicationID, &m.Taken, &m.Effectiveness, &m.Mood, &m.EnergyLevel,
		&sideEffects, &skip, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	m.Timestamp = fromUnix(ts)
	m.SideEffectsNote = stringPtr(sideEffects)
	m.SkipReason = stringPtr(skip)
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return &m, nil
}
