package models

import "time"

// Observation is a single logged behavioral pattern event
type Observation struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Category    Category    `json:"category"`
	PatternType PatternType `json:"pattern_type"`
	Intensity   int         `json:"intensity"`        // 1-5, 0 = not recorded
	Duration    int         `json:"duration_minutes"` // minutes, 0 = not recorded
	Notes       *string     `json:"notes,omitempty"`
	Details     *string     `json:"details,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Medication is a medication the user tracks intakes for
type Medication struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MedicationIntake is a single logged medication-taking (or skipping) event
type MedicationIntake struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	MedicationID    string    `json:"medication_id"`
	Taken           bool      `json:"taken"`
	Effectiveness   int       `json:"effectiveness"` // 1-5, 0 = unrated
	Mood            int       `json:"mood"`          // 1-5, 0 = unrated
	EnergyLevel     int       `json:"energy_level"`  // 1-5, 0 = unrated
	SideEffectsNote *string   `json:"side_effects_note,omitempty"`
	SkipReason      *string   `json:"skip_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EntryKind identifies which record an Entry wraps
type EntryKind string

const (
	EntryKindObservation      EntryKind = "observation"
	EntryKindMedicationIntake EntryKind = "medication_intake"
)

// Entry is one row of the journal list: either an observation or an intake
type Entry struct {
	Kind             EntryKind         `json:"kind"`
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	Observation      *Observation      `json:"observation,omitempty"`
	MedicationIntake *MedicationIntake `json:"medication_intake,omitempty"`
}

// ObservationEntry wraps an observation as a journal entry
func ObservationEntry(o Observation) Entry {
	return Entry{Kind: EntryKindObservation, ID: o.ID, Timestamp: o.Timestamp, Observation: &o}
}

// IntakeEntry wraps a medication intake as a journal entry
func IntakeEntry(m MedicationIntake) Entry {
	return Entry{Kind: EntryKindMedicationIntake, ID: m.ID, Timestamp: m.Timestamp, MedicationIntake: &m}
}

// CreateObservationRequest represents the request to log an observation
type CreateObservationRequest struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp" binding:"required"`
	Category    Category    `json:"category" binding:"required"`
	PatternType PatternType `json:"pattern_type" binding:"required"`
	Intensity   int         `json:"intensity" binding:"min=0,max=5"`
	Duration    int         `json:"duration_minutes" binding:"min=0"`
	Notes       *string     `json:"notes"`
	Details     *string     `json:"details"`
}

// UpdateObservationRequest represents an edit. Only notes and details are
// editable once an observation has been logged.
type UpdateObservationRequest struct {
	Notes   NullableString `json:"notes"`
	Details NullableString `json:"details"`
}

// CreateMedicationRequest represents the request to add a medication
type CreateMedicationRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name" binding:"required,max=200"`
	Dosage string `json:"dosage" binding:"max=100"`
}

// CreateMedicationIntakeRequest represents the request to log an intake
type CreateMedicationIntakeRequest struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp" binding:"required"`
	MedicationID    string    `json:"medication_id" binding:"required"`
	Taken           bool      `json:"taken"`
	Effectiveness   int       `json:"effectiveness" binding:"min=0,max=5"`
	Mood            int       `json:"mood" binding:"min=0,max=5"`
	EnergyLevel     int       `json:"energy_level" binding:"min=0,max=5"`
	SideEffectsNote *string   `json:"side_effects_note"`
	SkipReason      *string   `json:"skip_reason"`
}

// UpdateMedicationIntakeRequest represents an edit to an intake's ratings
// and notes. Absent fields are left untouched, null ratings reset to unrated.
type UpdateMedicationIntakeRequest struct {
	Effectiveness   NullableInt    `json:"effectiveness"`
	Mood            NullableInt    `json:"mood"`
	EnergyLevel     NullableInt    `json:"energy_level"`
	SideEffectsNote NullableString `json:"side_effects_note"`
	SkipReason      NullableString `json:"skip_reason"`
}

// EntryPage is a page of journal entries
type EntryPage struct {
	Entries []Entry `json:"entries"`
	Offset  int     `json:"offset"`
	Limit   int     `json:"limit"`
	HasMore bool    `json:"has_more"`
}
