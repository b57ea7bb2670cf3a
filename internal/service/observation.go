package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/internal/repository"
)

type observationService struct {
	repo        repository.ObservationRepository
	invalidator Invalidator
}

// NewObservationService creates a new observation service. Every successful
// write is reported to invalidator.
func NewObservationService(repo repository.ObservationRepository, invalidator Invalidator) ObservationService {
	return &observationService{
		repo:        repo,
		invalidator: invalidator,
	}
}

func (s *observationService) CreateObservation(ctx context.Context, req *models.CreateObservationRequest) (*models.Observation, error) {
	if err := validateObservation(req); err != nil {
		return nil, err
	}

	id, err := resolveID(req.ID)
	if err != nil {
		return nil, err
	}

	obs := &models.Observation{
		ID:          id,
		Timestamp:   req.Timestamp.Truncate(time.Second).UTC(),
		Category:    req.Category,
		PatternType: req.PatternType,
		Intensity:   req.Intensity,
		Duration:    req.Duration,
		Notes:       req.Notes,
		Details:     req.Details,
	}

	created, err := s.repo.Create(ctx, obs)
	if err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}

	s.invalidator.InvalidateAfterWrite(created.Timestamp)
	logger.Ctx(ctx).Info("observation created",
		logger.String("observation_id", created.ID),
		logger.String("pattern_type", string(created.PatternType)),
	)
	return created, nil
}

func (s *observationService) GetObservation(ctx context.Context, id string) (*models.Observation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *observationService) ListObservations(ctx context.Context, start, end time.Time) ([]models.Observation, error) {
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}
	return s.repo.GetByDateRange(ctx, start, end)
}

func (s *observationService) UpdateObservation(ctx context.Context, id string, req *models.UpdateObservationRequest) (*models.Observation, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only notes and details are editable; absent fields are left alone
	if req.Notes.Set {
		existing.Notes = req.Notes.ToPtr()
	}
	if req.Details.Set {
		existing.Details = req.Details.ToPtr()
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update observation: %w", err)
	}

	s.invalidator.InvalidateAfterWrite(updated.Timestamp)
	return updated, nil
}

func (s *observationService) DeleteObservation(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete observation: %w", err)
	}

	s.invalidator.InvalidateAfterWrite(existing.Timestamp)
	logger.Ctx(ctx).Info("observation deleted", logger.String("observation_id", id))
	return nil
}

// validateObservation enforces the catalogue rules a binding tag cannot
func validateObservation(req *models.CreateObservationRequest) error {
	if !req.Category.Valid() {
		return invalid("category", fmt.Sprintf("unknown category %q", req.Category))
	}
	info, ok := req.PatternType.Info()
	if !ok {
		return invalid("pattern_type", fmt.Sprintf("unknown pattern type %q", req.PatternType))
	}
	if info.Category != req.Category {
		return invalid("pattern_type", fmt.Sprintf("%q belongs to category %q, not %q", req.PatternType, info.Category, req.Category))
	}
	if req.Intensity < 0 || req.Intensity > 5 {
		return invalid("intensity", "must be between 1 and 5, or 0 when not recorded")
	}
	if req.Intensity > 0 && !info.HasIntensity {
		return invalid("intensity", fmt.Sprintf("%q does not record intensity", req.PatternType))
	}
	if req.Duration < 0 {
		return invalid("duration_minutes", "must not be negative")
	}
	if req.Duration > 0 && !info.HasDuration {
		return invalid("duration_minutes", fmt.Sprintf("%q does not record duration", req.PatternType))
	}
	if req.Timestamp.IsZero() {
		return invalid("timestamp", "is required")
	}
	return nil
}

// resolveID validates a client-supplied UUIDv7 or mints a new one
func resolveID(id string) (string, error) {
	if id == "" {
		return NewID()
	}
	if err := ValidateUUIDv7(id); err != nil {
		field := "id"
		if errors.Is(err, ErrFutureTimestamp) {
			return "", invalid(field, "timestamp embedded in the id is too far in the future")
		}
		return "", invalid(field, err.Error())
	}
	return id, nil
}
