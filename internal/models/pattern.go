package models

// Category groups pattern types into one of nine fixed behavioral areas
type Category string

const (
	CategorySensory           Category = "sensory"
	CategoryExecutiveFunction Category = "executive_function"
	CategoryEnergyRegulation  Category = "energy_regulation"
	CategoryEmotional         Category = "emotional"
	CategorySocial            Category = "social"
	CategoryRoutine           Category = "routine"
	CategoryPhysical          Category = "physical"
	CategorySpecialInterest   Category = "special_interest"
	CategorySelfCare          Category = "self_care"
)

// Categories lists every category in display order. Aggregations iterate
// this slice instead of a map so output order is stable.
var Categories = []Category{
	CategorySensory,
	CategoryExecutiveFunction,
	CategoryEnergyRegulation,
	CategoryEmotional,
	CategorySocial,
	CategoryRoutine,
	CategoryPhysical,
	CategorySpecialInterest,
	CategorySelfCare,
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PatternType is a specific kind of observation scoped to one category
type PatternType string

const (
	// sensory
	PatternSensoryOverload  PatternType = "sensory_overload"
	PatternSensorySeeking   PatternType = "sensory_seeking"
	PatternSensoryAvoidance PatternType = "sensory_avoidance"
	PatternStimming         PatternType = "stimming"

	// executive_function
	PatternTaskInitiation  PatternType = "task_initiation"
	PatternTaskSwitching   PatternType = "task_switching"
	PatternHyperfocus      PatternType = "hyperfocus"
	PatternTimeBlindness   PatternType = "time_blindness"
	PatternDecisionFatigue PatternType = "decision_fatigue"

	// energy_regulation
	PatternEnergyLevel    PatternType = "energy_level"
	PatternBurnoutWarning PatternType = "burnout_warning"
	PatternMeltdown       PatternType = "meltdown"
	PatternShutdown       PatternType = "shutdown"
	PatternRecovery       PatternType = "recovery_period"

	// emotional
	PatternAnxiety     PatternType = "anxiety"
	PatternOverwhelm   PatternType = "overwhelm"
	PatternCalm        PatternType = "calm"
	PatternJoy         PatternType = "joy"
	PatternFrustration PatternType = "frustration"

	// social
	PatternSocialInteraction PatternType = "social_interaction"
	PatternMasking           PatternType = "masking"
	PatternSocialRecovery    PatternType = "social_recovery"
	PatternCommunication     PatternType = "communication_difficulty"

	// routine
	PatternRoutineDisruption    PatternType = "routine_disruption"
	PatternTransitionDifficulty PatternType = "transition_difficulty"
	PatternUnexpectedChange     PatternType = "unexpected_change"
	PatternRoutineFollowed      PatternType = "routine_followed"

	// physical
	PatternSleepQuality       PatternType = "sleep_quality"
	PatternAppetiteChange     PatternType = "appetite_change"
	PatternPhysicalDiscomfort PatternType = "physical_discomfort"
	PatternExercise           PatternType = "exercise"

	// special_interest
	PatternInterestEngagement PatternType = "special_interest_engagement"
	PatternFlowState          PatternType = "flow_state"
	PatternInfoDumping        PatternType = "info_dumping"

	// self_care
	PatternSelfCareCompleted PatternType = "self_care_completed"
	PatternSelfCareSkipped   PatternType = "self_care_skipped"
	PatternHygieneRoutine    PatternType = "hygiene_routine"
)

// PatternInfo describes a pattern type's fixed properties
type PatternInfo struct {
	Type         PatternType `json:"type"`
	Category     Category    `json:"category"`
	Label        string      `json:"label"`
	HasIntensity bool        `json:"has_intensity"`
	HasDuration  bool        `json:"has_duration"`
}

// Patterns is the full catalogue in display order
var Patterns = []PatternInfo{
	{PatternSensoryOverload, CategorySensory, "Sensory overload", true, true},
	{PatternSensorySeeking, CategorySensory, "Sensory seeking", true, false},
	{PatternSensoryAvoidance, CategorySensory, "Sensory avoidance", true, false},
	{PatternStimming, CategorySensory, "Stimming", false, true},

	{PatternTaskInitiation, CategoryExecutiveFunction, "Task initiation difficulty", true, false},
	{PatternTaskSwitching, CategoryExecutiveFunction, "Task switching difficulty", true, false},
	{PatternHyperfocus, CategoryExecutiveFunction, "Hyperfocus", false, true},
	{PatternTimeBlindness, CategoryExecutiveFunction, "Time blindness", false, false},
	{PatternDecisionFatigue, CategoryExecutiveFunction, "Decision fatigue", true, false},

	{PatternEnergyLevel, CategoryEnergyRegulation, "Energy level", true, false},
	{PatternBurnoutWarning, CategoryEnergyRegulation, "Burnout warning signs", true, false},
	{PatternMeltdown, CategoryEnergyRegulation, "Meltdown", true, true},
	{PatternShutdown, CategoryEnergyRegulation, "Shutdown", true, true},
	{PatternRecovery, CategoryEnergyRegulation, "Recovery period", false, true},

	{PatternAnxiety, CategoryEmotional, "Anxiety", true, false},
	{PatternOverwhelm, CategoryEmotional, "Overwhelm", true, false},
	{PatternCalm, CategoryEmotional, "Calm", false, false},
	{PatternJoy, CategoryEmotional, "Joy", true, false},
	{PatternFrustration, CategoryEmotional, "Frustration", true, false},

	{PatternSocialInteraction, CategorySocial, "Social interaction", false, true},
	{PatternMasking, CategorySocial, "Masking", true, true},
	{PatternSocialRecovery, CategorySocial, "Social recovery", false, true},
	{PatternCommunication, CategorySocial, "Communication difficulty", true, false},

	{PatternRoutineDisruption, CategoryRoutine, "Routine disruption", true, false},
	{PatternTransitionDifficulty, CategoryRoutine, "Transition difficulty", true, false},
	{PatternUnexpectedChange, CategoryRoutine, "Unexpected change", true, false},
	{PatternRoutineFollowed, CategoryRoutine, "Routine followed", false, false},

	{PatternSleepQuality, CategoryPhysical, "Sleep quality", true, true},
	{PatternAppetiteChange, CategoryPhysical, "Appetite change", false, false},
	{PatternPhysicalDiscomfort, CategoryPhysical, "Physical discomfort", true, false},
	{PatternExercise, CategoryPhysical, "Exercise", false, true},

	{PatternInterestEngagement, CategorySpecialInterest, "Special interest engagement", false, true},
	{PatternFlowState, CategorySpecialInterest, "Flow state", false, true},
	{PatternInfoDumping, CategorySpecialInterest, "Info dumping", false, false},

	{PatternSelfCareCompleted, CategorySelfCare, "Self-care completed", false, false},
	{PatternSelfCareSkipped, CategorySelfCare, "Self-care skipped", false, false},
	{PatternHygieneRoutine, CategorySelfCare, "Hygiene routine", false, true},
}

var patternIndex = func() map[PatternType]int {
	idx := make(map[PatternType]int, len(Patterns))
	for i, p := range Patterns {
		idx[p.Type] = i
	}
	return idx
}()

// Info returns the catalogue entry for p
func (p PatternType) Info() (PatternInfo, bool) {
	i, ok := patternIndex[p]
	if !ok {
		return PatternInfo{}, false
	}
	return Patterns[i], true
}

// Valid reports whether p is in the catalogue
func (p PatternType) Valid() bool {
	_, ok := patternIndex[p]
	return ok
}

// Category returns the category p belongs to, or "" for unknown types
func (p PatternType) Category() Category {
	info, _ := p.Info()
	return info.Category
}

// Order returns p's position in the catalogue, used as a stable tie-breaker.
// Unknown types sort last.
func (p PatternType) Order() int {
	if i, ok := patternIndex[p]; ok {
		return i
	}
	return len(Patterns)
}

// PatternsFor returns the pattern types belonging to c in catalogue order
func PatternsFor(c Category) []PatternInfo {
	var out []PatternInfo
	for _, p := range Patterns {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}
