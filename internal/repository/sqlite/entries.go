package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/JonnyWalker81/patternlog/internal/models"
	"github.com/JonnyWalker81/patternlog/internal/repository"
)

type entryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates the journal view over observations and intakes
func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

type entryRef struct {
	kind models.EntryKind
	id   string
}

// List pages through both tables merged newest first. The page is resolved
// to ids first, then each kind is loaded in one query.
func (r *entryRepository) List(ctx context.Context, offset, limit int) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, id FROM (
			SELECT 'observation' AS kind, id, ts FROM observations
			UNION ALL
			SELECT 'medication_intake' AS kind, id, ts FROM medication_intakes
		)
		ORDER BY ts DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var refs []entryRef
	for rows.Next() {
		var kind, id string
		if err := rows.Scan(&kind, &id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		refs = append(refs, entryRef{kind: models.EntryKind(kind), id: id})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var obsIDs, intakeIDs []string
	for _, ref := range refs {
		if ref.kind == models.EntryKindObservation {
			obsIDs = append(obsIDs, ref.id)
		} else {
			intakeIDs = append(intakeIDs, ref.id)
		}
	}

	observations, err := r.observationsByID(ctx, obsIDs)
	if err != nil {
		return nil, err
	}
	intakes, err := r.intakesByID(ctx, intakeIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(refs))
	for _, ref := range refs {
		switch ref.kind {
		case models.EntryKindObservation:
			if o, ok := observations[ref.id]; ok {
				entries = append(entries, models.ObservationEntry(o))
			}
		default:
			if m, ok := intakes[ref.id]; ok {
				entries = append(entries, models.IntakeEntry(m))
			}
		}
	}
	return entries, nil
}

func (r *entryRepository) observationsByID(ctx context.Context, ids []string) (map[string]models.Observation, error) {
	out := make(map[string]models.Observation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args := inClause(`SELECT `+observationColumns+` FROM observations WHERE id IN `, ids)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry observations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		out[o.ID] = *o
	}
	return out, rows.Err()
}

func (r *entryRepository) intakesByID(ctx context.Context, ids []string) (map[string]models.MedicationIntake, error) {
	out := make(map[string]models.MedicationIntake, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args := inClause(`SELECT `+intakeColumns+` FROM medication_intakes WHERE id IN `, ids)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry intakes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		m, err := scanIntake(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication intake: %w", err)
		}
		out[m.ID] = *m
	}
	return out, rows.Err()
}

func inClause(prefix string, ids []string) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return prefix + "(" + strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + ")", args
}
