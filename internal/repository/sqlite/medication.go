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

type medicationRepository struct {
	db *sql.DB
}

// NewMedicationRepository creates a SQLite-backed medication repository
func NewMedicationRepository(db *sql.DB) repository.MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Create(ctx context.Context, m *models.Medication) (*models.Medication, error) {
	now := time.Now().UTC()
	created := *m
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO medications (id, name, dosage, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		created.ID, created.Name, created.Dosage, created.Active, formatTime(now), formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert medication: %w", err)
	}
	return &created, nil
}

func (r *medicationRepository) GetByID(ctx context.Context, id string) (*models.Medication, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, dosage, active, created_at, updated_at FROM medications WHERE id = ?`, id)
	m, err := scanMedication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return m, nil
}

func (r *medicationRepository) List(ctx context.Context) ([]models.Medication, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, dosage, active, created_at, updated_at FROM medications ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	out := []models.Medication{}
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func scanMedication(s scanner) (*models.Medication, error) {
	var m models.Medication
	var createdAt, updatedAt string
	if err := s.Scan(&m.ID, &m.Name, &m.Dosage, &m.Active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)
	return &m, nil
}
