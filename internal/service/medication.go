package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/internal/repository"
)

type medicationService struct {
	medications repository.MedicationRepository
	intakes     repository.MedicationIntakeRepository
	invalidator Invalidator
}

// NewMedicationService creates a new medication service. Every successful
// intake write is reported to invalidator.
func NewMedicationService(medications repository.MedicationRepository, intakes repository.MedicationIntakeRepository, invalidator Invalidator) MedicationService {
	return &medicationService{
		medications: medications,
		intakes:     intakes,
		invalidator: invalidator,
	}
}

func (s *medicationService) CreateMedication(ctx context.Context, req *models.CreateMedicationRequest) (*models.Medication, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	id, err := resolveID(req.ID)
	if err != nil {
		return nil, err
	}

	created, err := s.medications.Create(ctx, &models.Medication{
		ID:     id,
		Name:   name,
		Dosage: strings.TrimSpace(req.Dosage),
		Active: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}
	return created, nil
}

func (s *medicationService) GetMedication(ctx context.Context, id string) (*models.Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *medicationService) ListMedications(ctx context.Context) ([]models.Medication, error) {
	return s.medications.List(ctx)
}

func (s *medicationService) CreateIntake(ctx context.Context, req *models.CreateMedicationIntakeRequest) (*models.MedicationIntake, error) {
	if req.Timestamp.IsZero() {
		return nil, invalid("timestamp", "is required")
	}
	ratings := []struct {
		field string
		v     int
	}{
		{"effectiveness", req.Effectiveness},
		{"mood", req.Mood},
		{"energy_level", req.EnergyLevel},
	}
	for _, r := range ratings {
		if err := validateRating(r.field, r.v); err != nil {
			return nil, err
		}
	}

	if _, err := s.medications.GetByID(ctx, req.MedicationID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, invalid("medication_id", fmt.Sprintf("unknown medication %q", req.MedicationID))
		}
		return nil, fmt.Errorf("failed to look up medication: %w", err)
	}

	id, err := resolveID(req.ID)
	if err != nil {
		return nil, err
	}

	intake := &models.MedicationIntake{
		ID:              id,
		Timestamp:       req.Timestamp.Truncate(time.Second).UTC(),
		MedicationID:    req.MedicationID,
		Taken:           req.Taken,
		Effectiveness:   req.Effectiveness,
		Mood:            req.Mood,
		EnergyLevel:     req.EnergyLevel,
		SideEffectsNote: req.SideEffectsNote,
		SkipReason:      req.SkipReason,
	}

	created, err := s.intakes.Create(ctx, intake)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication intake: %w", err)
	}

	s.invalidator.InvalidateAfterWrite(created.Timestamp)
	logger.Ctx(ctx).Info("medication intake created",
		logger.String("intake_id", created.ID),
		logger.Bool("taken", created.Taken),
	)
	return created, nil
}

func (s *medicationService) GetIntake(ctx context.Context, id string) (*models.MedicationIntake, error) {
	return s.intakes.GetByID(ctx, id)
}

func (s *medicationService) ListIntakes(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error) {
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}
	return s.intakes.GetByDateRange(ctx, start, end)
}

func (s *medicationService) UpdateIntake(ctx context.Context, id string, req *models.UpdateMedicationIntakeRequest) (*models.MedicationIntake, error) {
	existing, err := s.intakes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ratings := []struct {
		field string
		in    models.NullableInt
		out   *int
	}{
		{"effectiveness", req.Effectiveness, &existing.Effectiveness},
		{"mood", req.Mood, &existing.Mood},
		{"energy_level", req.EnergyLevel, &existing.EnergyLevel},
	}
	for _, r := range ratings {
		if !r.in.Set {
			continue
		}
		v := r.in.OrZero()
		if err := validateRating(r.field, v); err != nil {
			return nil, err
		}
		*r.out = v
	}
	if req.SideEffectsNote.Set {
		existing.SideEffectsNote = req.SideEffectsNote.ToPtr()
	}
	if req.SkipReason.Set {
		existing.SkipReason = req.SkipReason.ToPtr()
	}

	updated, err := s.intakes.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update medication intake: %w", err)
	}

	s.invalidator.InvalidateAfterWrite(updated.Timestamp)
	return updated, nil
}

func (s *medicationService) DeleteIntake(ctx context.Context, id string) error {
	existing, err := s.intakes.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.intakes.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete medication intake: %w", err)
	}

	s.invalidator.InvalidateAfterWrite(existing.Timestamp)
	logger.Ctx(ctx).Info("medication intake deleted", logger.String("intake_id", id))
	return nil
}

func validateRating(field string, v int) error {
	if v < 0 || v > 5 {
		return invalid(field, "must be between 1 and 5, or 0 when unrated")
	}
	return nil
}
