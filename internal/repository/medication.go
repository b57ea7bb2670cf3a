package repository

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/pkg/supabase"
)

const (
	medicationsTable = "medications"
	intakesTable     = "medication_intakes"
)

type medicationRepository struct {
	client *supabase.Client
}

// NewMedicationRepository creates a Supabase-backed medication repository
func NewMedicationRepository(client *supabase.Client) MedicationRepository {
	return &medicationRepository{client: client}
}

func (r *medicationRepository) Create(ctx context.Context, m *models.Medication) (*models.Medication, error) {
	data := map[string]interface{}{
		"id":     m.ID,
		"name":   m.Name,
		"dosage": m.Dosage,
		"active": m.Active,
	}

	body, err := r.client.Insert(ctx, medicationsTable, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}
	return firstRow[models.Medication](body, "medication")
}

func (r *medicationRepository) GetByID(ctx context.Context, id string) (*models.Medication, error) {
	body, err := r.client.Query(ctx, medicationsTable, url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return firstRow[models.Medication](body, "medication")
}

func (r *medicationRepository) List(ctx context.Context) ([]models.Medication, error) {
	body, err := r.client.Query(ctx, medicationsTable, url.Values{
		"select": {"*"},
		"order":  {"name.asc"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	medications := []models.Medication{}
	if err := json.Unmarshal(body, &medications); err != nil {
		return nil, fmt.Errorf("failed to unmarshal medications: %w", err)
	}
	return medications, nil
}

type intakeRepository struct {
	client *supabase.Client
}

// NewMedicationIntakeRepository creates a Supabase-backed intake repository
func NewMedicationIntakeRepository(client *supabase.Client) MedicationIntakeRepository {
	return &intakeRepository{client: client}
}

func (r *intakeRepository) Create(ctx context.Context, m *models.MedicationIntake) (*models.MedicationIntake, error) {
	data := map[string]interface{}{
		"id":                m.ID,
		"timestamp":         m.Timestamp.UTC(),
		"medication_id":     m.MedicationID,
		"taken":             m.Taken,
		"effectiveness":     m.Effectiveness,
		"mood":              m.Mood,
		"energy_level":      m.EnergyLevel,
		"side_effects_note": m.SideEffectsNote,
		"skip_reason":       m.SkipReason,
	}

	body, err := r.client.Insert(ctx, intakesTable, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication intake: %w", err)
	}
	return firstRow[models.MedicationIntake](body, "medication intake")
}

func (r *intakeRepository) GetByID(ctx context.Context, id string) (*models.MedicationIntake, error) {
	body, err := r.client.Query(ctx, intakesTable, url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get medication intake: %w", err)
	}
	return firstRow[models.MedicationIntake](body, "medication intake")
}

func (r *intakeRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error) {
	body, err := r.client.Query(ctx, intakesTable, rangeQuery(start, end, "timestamp.asc,id.asc"))
	if err != nil {
		return nil, fmt.Errorf("failed to query medication intakes: %w", err)
	}

	var intakes []models.MedicationIntake
	if err := json.Unmarshal(body, &intakes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal medication intakes: %w", err)
	}
	return intakes, nil
}

func (r *intakeRepository) Update(ctx context.Context, m *models.MedicationIntake) (*models.MedicationIntake, error) {
	data := map[string]interface{}{
		"effectiveness":     m.Effectiveness,
		"mood":              m.Mood,
		"energy_level":      m.EnergyLevel,
		"side_effects_note": m.SideEffectsNote,
		"skip_reason":       m.SkipReason,
		"updated_at":        time.Now().UTC(),
	}

	body, err := r.client.Update(ctx, intakesTable, m.ID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to update medication intake: %w", err)
	}
	return firstRow[models.MedicationIntake](body, "medication intake")
}

func (r *intakeRepository) Delete(ctx context.Context, id string) error {
	body, err := r.client.Delete(ctx, intakesTable, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication intake: %w", err)
	}
	_, err = firstRow[models.MedicationIntake](body, "medication intake")
	return err
}
