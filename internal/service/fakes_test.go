package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

// fakeSource is an in-memory EventSource for testing
type fakeSource struct {
	mu           sync.Mutex
	observations []models.Observation
	intakes      []models.MedicationIntake
	err          error

	// gate, when set, blocks queries until it is closed or ctx ends
	gate chan struct{}
	// arrived receives a value, if there is room, each time a query blocks
	arrived chan struct{}

	observationQueries int
	entryQueries       int
}

func (f *fakeSource) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	arrived := f.arrived
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	if arrived != nil {
		select {
		case arrived <- struct{}{}:
		default:
		}
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeSource) QueryObservations(ctx context.Context, start, end time.Time) ([]models.Observation, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observationQueries++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Observation
	for _, o := range f.observations {
		if !o.Timestamp.Before(start) && !o.Timestamp.After(end) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeSource) QueryMedicationIntakes(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.MedicationIntake
	for _, m := range f.intakes {
		if !m.Timestamp.Before(start) && !m.Timestamp.After(end) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeSource) ListEntries(ctx context.Context, offset, limit int) ([]models.Entry, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entryQueries++
	if f.err != nil {
		return nil, f.err
	}

	all := make([]models.Entry, 0, len(f.observations)+len(f.intakes))
	for _, o := range f.observations {
		all = append(all, models.ObservationEntry(o))
	}
	for _, m := range f.intakes {
		all = append(all, models.IntakeEntry(m))
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID > all[j].ID
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeSource) add(o ...models.Observation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observations = append(f.observations, o...)
}

// recordingInvalidator collects the timestamps reported by the write path
type recordingInvalidator struct {
	mu  sync.Mutex
	got []time.Time
}

func (r *recordingInvalidator) InvalidateAfterWrite(ts time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ts)
}

func (r *recordingInvalidator) calls() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Time(nil), r.got...)
}

// fakeObservationRepository is a map-backed ObservationRepository
type fakeObservationRepository struct {
	observations map[string]*models.Observation
	err          error
}

func newFakeObservationRepository() *fakeObservationRepository {
	return &fakeObservationRepository{observations: make(map[string]*models.Observation)}
}

func (m *fakeObservationRepository) Create(ctx context.Context, o *models.Observation) (*models.Observation, error) {
	if m.err != nil {
		return nil, m.err
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	m.observations[o.ID] = &cp
	return o, nil
}

func (m *fakeObservationRepository) GetByID(ctx context.Context, id string) (*models.Observation, error) {
	o, ok := m.observations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *fakeObservationRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Observation, error) {
	var out []models.Observation
	for _, o := range m.observations {
		if !o.Timestamp.Before(start) && !o.Timestamp.After(end) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *fakeObservationRepository) Update(ctx context.Context, o *models.Observation) (*models.Observation, error) {
	if _, ok := m.observations[o.ID]; !ok {
		return nil, ErrNotFound
	}
	o.UpdatedAt = time.Now()
	cp := *o
	m.observations[o.ID] = &cp
	return o, nil
}

func (m *fakeObservationRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.observations[id]; !ok {
		return ErrNotFound
	}
	delete(m.observations, id)
	return nil
}

// fakeMedicationRepository is a map-backed MedicationRepository
type fakeMedicationRepository struct {
	medications map[string]*models.Medication
}

func newFakeMedicationRepository() *fakeMedicationRepository {
	return &fakeMedicationRepository{medications: make(map[string]*models.Medication)}
}

func (m *fakeMedicationRepository) Create(ctx context.Context, med *models.Medication) (*models.Medication, error) {
	med.CreatedAt = time.Now()
	med.UpdatedAt = med.CreatedAt
	cp := *med
	m.medications[med.ID] = &cp
	return med, nil
}

func (m *fakeMedicationRepository) GetByID(ctx context.Context, id string) (*models.Medication, error) {
	med, ok := m.medications[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *med
	return &cp, nil
}

func (m *fakeMedicationRepository) List(ctx context.Context) ([]models.Medication, error) {
	out := make([]models.Medication, 0, len(m.medications))
	for _, med := range m.medications {
		out = append(out, *med)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeIntakeRepository is a map-backed MedicationIntakeRepository
type fakeIntakeRepository struct {
	intakes map[string]*models.MedicationIntake
}

func newFakeIntakeRepository() *fakeIntakeRepository {
	return &fakeIntakeRepository{intakes: make(map[string]*models.MedicationIntake)}
}

func (m *fakeIntakeRepository) Create(ctx context.Context, in *models.MedicationIntake) (*models.MedicationIntake, error) {
	in.CreatedAt = time.Now()
	in.UpdatedAt = in.CreatedAt
	cp := *in
	m.intakes[in.ID] = &cp
	return in, nil
}

func (m *fakeIntakeRepository) GetByID(ctx context.Context, id string) (*models.MedicationIntake, error) {
	in, ok := m.intakes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *in
	return &cp, nil
}

func (m *fakeIntakeRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.MedicationIntake, error) {
	var out []models.MedicationIntake
	for _, in := range m.intakes {
		if !in.Timestamp.Before(start) && !in.Timestamp.After(end) {
			out = append(out, *in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *fakeIntakeRepository) Update(ctx context.Context, in *models.MedicationIntake) (*models.MedicationIntake, error) {
	if _, ok := m.intakes[in.ID]; !ok {
		return nil, ErrNotFound
	}
	in.UpdatedAt = time.Now()
	cp := *in
	m.intakes[in.ID] = &cp
	return in, nil
}

func (m *fakeIntakeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.intakes[id]; !ok {
		return ErrNotFound
	}
	delete(m.intakes, id)
	return nil
}

// Builders

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

func at(day, hour int) time.Time {
	return testDay.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
}

var idSeq int

func nextID(prefix string) string {
	idSeq++
	return fmt.Sprintf("%s-%05d", prefix, idSeq)
}

func observation(ts time.Time, p models.PatternType, intensity int) models.Observation {
	return models.Observation{
		ID:          nextID("obs"),
		Timestamp:   ts,
		Category:    p.Category(),
		PatternType: p,
		Intensity:   intensity,
	}
}

func intake(ts time.Time, taken bool, effectiveness int) models.MedicationIntake {
	return models.MedicationIntake{
		ID:            nextID("intake"),
		Timestamp:     ts,
		MedicationID:  "med-1",
		Taken:         taken,
		Effectiveness: effectiveness,
	}
}

// utcWindow spans days whole UTC days starting at testDay+offset
func utcWindow(offset, days int) models.Window {
	start := testDay.AddDate(0, 0, offset)
	return models.Window{
		Start:       start,
		End:         start.AddDate(0, 0, days).Add(-time.Second),
		Granularity: models.GranularityCustom,
		TimeZone:    "UTC",
	}
}

func newTestScorer() *DayScorer {
	return NewDayScorer(DefaultScoringWeights(), nil)
}
