package repository

import (
	"context"
	"errors"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// ObservationRepository defines the interface for observation data access
type ObservationRepository interface {
	Create(ctx context.Context, o *models.Observation) (*models.Observation, error)
	GetByID(ctx context.Context, id string) (*models.Observation, error)
	// GetByDateRange returns observations in [start, end] ordered by timestamp ascending
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Observation, error)
	// Update replaces the editable fields (notes, details)
	Update(ctx context.Context, o *models.Observation) (*models.Observation, error)
	Delete(ctx context.Context, id string) error
}

// MedicationRepository defines the interface for medication data access
type MedicationRepository interface {
	Create(ctx context.Context, m *models.Medication) (*models.Medication, error)
	GetByID(ctx context.Context, id string) (*models.Medication, error)
	List(ctx context.Context) ([]models.Medication, error)
}

// MedicationIntakeRepository defines the interface for medication intake data access
type MedicationIntakeRepository interface {
	Create(ctx context.Context, m *models.MedicationIntake) (*models.MedicationIntake, error)
	GetByID(ctx context.Context, id string) (*models.MedicationIntake, error)
	// GetByDateRange returns intakes in [start, end] ordered by timestamp ascending
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error)
	// Update replaces the ratings and notes
	Update(ctx context.Context, m *models.MedicationIntake) (*models.MedicationIntake, error)
	Delete(ctx context.Context, id string) error
}

// EntryRepository lists observations and intakes as one journal
type EntryRepository interface {
	// List returns entries newest first (ties by id descending)
	List(ctx context.Context, offset, limit int) ([]models.Entry, error)
}

// Store bundles the repositories of one datastore
type Store struct {
	Observations ObservationRepository
	Medications  MedicationRepository
	Intakes      MedicationIntakeRepository
	Entries      EntryRepository
	// Close releases the datastore, nil when there is nothing to release
	Close func() error
}
