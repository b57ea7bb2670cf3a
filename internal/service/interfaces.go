package service

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces_test.go -package=service

import (
	"context"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

// EventSource is the read side of the datastore the insight engine consumes.
// Both queries return records ordered by timestamp ascending with bounds
// inclusive; ListEntries returns journal rows newest first.
type EventSource interface {
	QueryObservations(ctx context.Context, start, end time.Time) ([]models.Observation, error)
	QueryMedicationIntakes(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error)
	ListEntries(ctx context.Context, offset, limit int) ([]models.Entry, error)
}

// Invalidator is notified by the write path after a record changes
type Invalidator interface {
	InvalidateAfterWrite(ts time.Time)
}

// ObservationService defines the interface for observation business logic
type ObservationService interface {
	CreateObservation(ctx context.Context, req *models.CreateObservationRequest) (*models.Observation, error)
	GetObservation(ctx context.Context, id string) (*models.Observation, error)
	ListObservations(ctx context.Context, start, end time.Time) ([]models.Observation, error)
	UpdateObservation(ctx context.Context, id string, req *models.UpdateObservationRequest) (*models.Observation, error)
	DeleteObservation(ctx context.Context, id string) error
}

// MedicationService defines the interface for medication and intake business logic
type MedicationService interface {
	CreateMedication(ctx context.Context, req *models.CreateMedicationRequest) (*models.Medication, error)
	GetMedication(ctx context.Context, id string) (*models.Medication, error)
	ListMedications(ctx context.Context) ([]models.Medication, error)

	CreateIntake(ctx context.Context, req *models.CreateMedicationIntakeRequest) (*models.MedicationIntake, error)
	GetIntake(ctx context.Context, id string) (*models.MedicationIntake, error)
	ListIntakes(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error)
	UpdateIntake(ctx context.Context, id string, req *models.UpdateMedicationIntakeRequest) (*models.MedicationIntake, error)
	DeleteIntake(ctx context.Context, id string) error
}
