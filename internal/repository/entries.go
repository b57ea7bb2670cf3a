package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/pkg/supabase"
)

type entryRepository struct {
	client *supabase.Client
}

// NewEntryRepository creates the Supabase-backed journal view
func NewEntryRepository(client *supabase.Client) EntryRepository {
	return &entryRepository{client: client}
}

// List fetches the newest offset+limit rows of each table and merges them.
// Any entry on the requested page is within the first offset+limit rows of
// its own table.
func (r *entryRepository) List(ctx context.Context, offset, limit int) ([]models.Entry, error) {
	if limit <= 0 {
		return []models.Entry{}, nil
	}
	query := url.Values{
		"select": {"*"},
		"order":  {"timestamp.desc,id.desc"},
		"limit":  {strconv.Itoa(offset + limit)},
	}

	var observations []models.Observation
	var intakes []models.MedicationIntake

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := r.client.Query(gctx, observationsTable, query)
		if err != nil {
			return fmt.Errorf("failed to list observation entries: %w", err)
		}
		return json.Unmarshal(body, &observations)
	})
	g.Go(func() error {
		body, err := r.client.Query(gctx, intakesTable, query)
		if err != nil {
			return fmt.Errorf("failed to list intake entries: %w", err)
		}
		return json.Unmarshal(body, &intakes)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]models.Entry, 0, len(observations)+len(intakes))
	i, j := 0, 0
	for i < len(observations) || j < len(intakes) {
		switch {
		case j == len(intakes):
			merged = append(merged, models.ObservationEntry(observations[i]))
			i++
		case i == len(observations):
			merged = append(merged, models.IntakeEntry(intakes[j]))
			j++
		default:
			o, m := models.ObservationEntry(observations[i]), models.IntakeEntry(intakes[j])
			if newer(o, m) {
				merged = append(merged, o)
				i++
			} else {
				merged = append(merged, m)
				j++
			}
		}
	}

	if offset >= len(merged) {
		return []models.Entry{}, nil
	}
	end := offset + limit
	if end > len(merged) {
		end = len(merged)
	}
	return merged[offset:end], nil
}

// newer orders entries newest first, ties by id descending
func newer(a, b models.Entry) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID > b.ID
}

// NewSupabaseStore returns the repositories backed by Supabase
func NewSupabaseStore(client *supabase.Client) *Store {
	return &Store{
		Observations: NewObservationRepository(client),
		Medications:  NewMedicationRepository(client),
		Intakes:      NewMedicationIntakeRepository(client),
		Entries:      NewEntryRepository(client),
	}
}
