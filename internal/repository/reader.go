package repository

import (
	"context"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

// EventReader is the narrow read view of a Store the insight engine consumes
type EventReader struct {
	store *Store
}

// NewEventReader wraps store for the engine
func NewEventReader(store *Store) *EventReader {
	return &EventReader{store: store}
}

// QueryObservations returns observations in [start, end], oldest first
func (r *EventReader) QueryObservations(ctx context.Context, start, end time.Time) ([]models.Observation, error) {
	return r.store.Observations.GetByDateRange(ctx, start, end)
}

// QueryMedicationIntakes returns intakes in [start, end], oldest first
func (r *EventReader) QueryMedicationIntakes(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error) {
	return r.store.Intakes.GetByDateRange(ctx, start, end)
}

// ListEntries returns journal entries newest first
func (r *EventReader) ListEntries(ctx context.Context, offset, limit int) ([]models.Entry, error) {
	return r.store.Entries.List(ctx, offset, limit)
}
