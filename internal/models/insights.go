package models

import (
	"sync"
	"time"
)

// Granularity represents the reporting period of a report
type Granularity string

const (
	GranularityShort  Granularity = "short"  // trailing 7 days
	GranularityLong   Granularity = "long"   // trailing 30 days
	GranularityCustom Granularity = "custom" // caller-supplied bounds
)

// Days returns the trailing length of a fixed granularity, 0 for custom
func (g Granularity) Days() int {
	switch g {
	case GranularityShort:
		return 7
	case GranularityLong:
		return 30
	default:
		return 0
	}
}

// Window is a bounded time range statistics are computed over. Day
// boundaries are taken in TimeZone (the caller's calendar); an empty
// TimeZone means the process-local zone.
type Window struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Granularity Granularity `json:"granularity"`
	TimeZone    string      `json:"time_zone,omitempty"`
}

var locations sync.Map // zone name -> *time.Location

// Loc resolves the window's time zone, falling back to time.Local when the
// zone is empty or unknown.
func (w Window) Loc() *time.Location {
	if w.TimeZone == "" {
		return time.Local
	}
	if loc, ok := locations.Load(w.TimeZone); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(w.TimeZone)
	if err != nil {
		return time.Local
	}
	locations.Store(w.TimeZone, loc)
	return loc
}

// DateOf returns the local calendar date key of t
func (w Window) DateOf(t time.Time) string {
	return t.In(w.Loc()).Format(DateLayout)
}

// Contains reports whether t falls inside [Start, End]
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns every local calendar date touched by the window, oldest first
func (w Window) Days() []string {
	loc := w.Loc()
	start := w.Start.In(loc)
	end := w.End.In(loc)
	if end.Before(start) {
		return nil
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	var days []string
	for !day.After(last) {
		days = append(days, day.Format(DateLayout))
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// DateLayout is the format of per-day keys
const DateLayout = "2006-01-02"

// CategoryCount is the number of observations logged in a category
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// DayCount is the per-day observation count and score
type DayCount struct {
	Date  string  `json:"date"` // local calendar date, YYYY-MM-DD
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

// MedicationSummary summarizes medication intakes over a window
type MedicationSummary struct {
	TotalIntakes         int     `json:"total_intakes"`
	Taken                int     `json:"taken"`
	Skipped              int     `json:"skipped"`
	AdherenceRate        float64 `json:"adherence_rate"` // taken / total, 0 when empty
	AverageEffectiveness float64 `json:"average_effectiveness"`
	AverageMood          float64 `json:"average_mood"`
	AverageEnergy        float64 `json:"average_energy"`
	RatedDays            int     `json:"rated_days"`
}

// PeriodStatistics is the aggregation of raw records over a window
type PeriodStatistics struct {
	TotalCount           int               `json:"total_count"`
	CategoryCounts       []CategoryCount   `json:"category_counts"`
	MostFrequentCategory Category          `json:"most_frequent_category,omitempty"`
	MostFrequentPattern  PatternType       `json:"most_frequent_pattern,omitempty"`
	DailyCounts          []DayCount        `json:"daily_counts"`
	MostActiveDay        *DayCount         `json:"most_active_day,omitempty"`
	BestDay              *DayCount         `json:"best_day,omitempty"`
	WorstDay             *DayCount         `json:"worst_day,omitempty"`
	AverageIntensity     float64           `json:"average_intensity"`
	TotalDurationMinutes int               `json:"total_duration_minutes"`
	Medication           MedicationSummary `json:"medication"`
}

// CountFor returns the count recorded for category c
func (s PeriodStatistics) CountFor(c Category) int {
	for _, cc := range s.CategoryCounts {
		if cc.Category == c {
			return cc.Count
		}
	}
	return 0
}

// TrendMetric names a numeric series the trend analyzer can follow
type TrendMetric string

const (
	MetricEnergyLevel   TrendMetric = "energy_level"
	MetricIntensity     TrendMetric = "intensity"
	MetricDailyCount    TrendMetric = "daily_count"
	MetricDayScore      TrendMetric = "day_score"
	MetricMood          TrendMetric = "mood"
	MetricEnergy        TrendMetric = "energy"
	MetricEffectiveness TrendMetric = "effectiveness"
)

// TrendDirection classifies the slope of a metric
type TrendDirection string

const (
	TrendRising           TrendDirection = "rising"
	TrendFalling          TrendDirection = "falling"
	TrendFlat             TrendDirection = "flat"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// TrendDescriptor describes the trajectory of one metric over a window
type TrendDescriptor struct {
	Metric               TrendMetric    `json:"metric"`
	Direction            TrendDirection `json:"direction"`
	SlopePerDay          float64        `json:"slope_per_day"`
	SampleCount          int            `json:"sample_count"`
	DominantPattern      PatternType    `json:"dominant_pattern,omitempty"`
	DominantPatternCount int            `json:"dominant_pattern_count"`
}

// Direction represents the direction of a finding
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// CorrelationFinding is a descriptive, non-causal relationship observed
// between a medication metric and a behavior metric.
type CorrelationFinding struct {
	Key                string    `json:"key"`
	Description        string    `json:"description"`
	MedicationMetric   string    `json:"medication_metric"`
	BehaviorMetric     string    `json:"behavior_metric"`
	SupportingDays     int       `json:"supporting_days"`
	TotalDays          int       `json:"total_days"`
	GroupDays          int       `json:"group_days"`
	ComparisonDays     int       `json:"comparison_days"`
	GroupRate          float64   `json:"group_rate"`
	ComparisonRate     float64   `json:"comparison_rate"`
	RelativeDifference float64   `json:"relative_difference"`
	Direction          Direction `json:"direction"`
}

// Report is the assembled, read-only output consumed by presentation layers
type Report struct {
	Window           Window               `json:"window"`
	GeneratedAt      time.Time            `json:"generated_at"`
	InsufficientData bool                 `json:"insufficient_data"`
	Statistics       PeriodStatistics     `json:"statistics"`
	Trend            TrendDescriptor      `json:"trend"`
	MedicationTrends []TrendDescriptor    `json:"medication_trends"`
	Findings         []CorrelationFinding `json:"findings"`
}

// NotificationKind identifies a change notification
type NotificationKind string

const (
	NotificationCacheInvalidated NotificationKind = "cache_invalidated"
	NotificationReportReady      NotificationKind = "report_ready"
)

// Notification tells subscribers that engine state changed
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Granularity Granularity      `json:"granularity,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
	Invalidated int              `json:"invalidated,omitempty"`
}
