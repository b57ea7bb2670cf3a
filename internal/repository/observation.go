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

const observationsTable = "observations"

type observationRepository struct {
	client *supabase.Client
}

// NewObservationRepository creates a Supabase-backed observation repository
func NewObservationRepository(client *supabase.Client) ObservationRepository {
	return &observationRepository{client: client}
}

func (r *observationRepository) Create(ctx context.Context, o *models.Observation) (*models.Observation, error) {
	data := map[string]interface{}{
		"id":               o.ID,
		"timestamp":        o.Timestamp.UTC(),
		"category":         o.Category,
		"pattern_type":     o.PatternType,
		"intensity":        o.Intensity,
		"duration_minutes": o.Duration,
		"notes":            o.Notes,
		"details":          o.Details,
	}

	body, err := r.client.Insert(ctx, observationsTable, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}
	return firstRow[models.Observation](body, "observation")
}

func (r *observationRepository) GetByID(ctx context.Context, id string) (*models.Observation, error) {
	body, err := r.client.Query(ctx, observationsTable, url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}
	return firstRow[models.Observation](body, "observation")
}

func (r *observationRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Observation, error) {
	body, err := r.client.Query(ctx, observationsTable, rangeQuery(start, end, "timestamp.asc,id.asc"))
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}

	var observations []models.Observation
	if err := json.Unmarshal(body, &observations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal observations: %w", err)
	}
	return observations, nil
}

func (r *observationRepository) Update(ctx context.Context, o *models.Observation) (*models.Observation, error) {
	data := map[string]interface{}{
		"notes":      o.Notes,
		"details":    o.Details,
		"updated_at": time.Now().UTC(),
	}

	body, err := r.client.Update(ctx, observationsTable, o.ID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to update observation: %w", err)
	}
	return firstRow[models.Observation](body, "observation")
}

func (r *observationRepository) Delete(ctx context.Context, id string) error {
	body, err := r.client.Delete(ctx, observationsTable, id)
	if err != nil {
		return fmt.Errorf("failed to delete observation: %w", err)
	}
	_, err = firstRow[models.Observation](body, "observation")
	return err
}

// rangeQuery selects rows with start <= timestamp <= end
func rangeQuery(start, end time.Time, order string) url.Values {
	return url.Values{
		"select":    {"*"},
		"timestamp": {"gte." + start.UTC().Format(time.RFC3339Nano), "lte." + end.UTC().Format(time.RFC3339Nano)},
		"order":     {order},
	}
}

// firstRow decodes a PostgREST representation and returns its first row,
// or ErrNotFound when it is empty
func firstRow[T any](body []byte, what string) (*T, error) {
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", what, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}
