package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

const (
	// DefaultMinDays is the fewest qualifying days each partition needs
	DefaultMinDays = 3

	// DefaultMinRelativeDifference is the smallest |a-b|/max(a,b) reported
	DefaultMinRelativeDifference = 0.20

	// DefaultHighEffectiveness is the mean daily rating that makes a day
	// "high-effectiveness"
	DefaultHighEffectiveness = 4.0

	// relativeDifferenceTolerance absorbs float rounding so a difference of
	// exactly MinRelativeDifference still qualifies
	relativeDifferenceTolerance = 1e-9
)

// Behavior metrics a partition is compared on
const (
	behaviorChallengingRate = "challenging_rate"
	behaviorPositiveRate    = "positive_rate"
)

// CorrelationConfig holds the finding thresholds
type CorrelationConfig struct {
	MinDays               int
	MinRelativeDifference float64
	HighEffectiveness     float64
}

// DefaultCorrelationConfig returns the default thresholds
func DefaultCorrelationConfig() CorrelationConfig {
	return CorrelationConfig{
		MinDays:               DefaultMinDays,
		MinRelativeDifference: DefaultMinRelativeDifference,
		HighEffectiveness:     DefaultHighEffectiveness,
	}
}

// CorrelationAnalyzer surfaces descriptive relationships between medication
// outcomes and same-day behavior. Findings are observational only.
type CorrelationAnalyzer struct {
	scorer *DayScorer
	cfg    CorrelationConfig
}

// NewCorrelationAnalyzer creates a correlation analyzer
func NewCorrelationAnalyzer(scorer *DayScorer, cfg CorrelationConfig) *CorrelationAnalyzer {
	if cfg.MinDays < 1 {
		cfg.MinDays = 1
	}
	return &CorrelationAnalyzer{scorer: scorer, cfg: cfg}
}

// dayProfile is everything the analyzer needs to know about one local day
type dayProfile struct {
	date      string
	behavior  dayTally
	ratingSum int
	ratingN   int
	intakes   int
	taken     int
}

func (d *dayProfile) rate(metric string) float64 {
	if d.behavior.count == 0 {
		return 0
	}
	switch metric {
	case behaviorChallengingRate:
		return float64(d.behavior.challenging) / float64(d.behavior.count)
	default:
		return float64(d.behavior.positive) / float64(d.behavior.count)
	}
}

// partition is a named group of days compared against another
type partition struct {
	label string
	days  []*dayProfile
}

func (p partition) rate(metric string) float64 {
	var hits, total int
	for _, d := range p.days {
		total += d.behavior.count
		switch metric {
		case behaviorChallengingRate:
			hits += d.behavior.challenging
		default:
			hits += d.behavior.positive
		}
	}
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// comparison is one medication split applied to every behavior metric
type comparison struct {
	medicationMetric string
	group            partition
	rest             partition
	groupPhrase      string // "days medication effectiveness was rated 4 or higher"
	restPhrase       string // "other rated days"
}

// FindCorrelations returns the findings for the records inside w, sorted by
// supporting days descending then key ascending.
func (a *CorrelationAnalyzer) FindCorrelations(observations []models.Observation, intakes []models.MedicationIntake, w models.Window) []models.CorrelationFinding {
	profiles := a.profileDays(observations, intakes, w)

	var findings []models.CorrelationFinding
	for _, cmp := range a.comparisons(profiles) {
		if len(cmp.group.days) < a.cfg.MinDays || len(cmp.rest.days) < a.cfg.MinDays {
			continue
		}
		for _, metric := range []string{behaviorChallengingRate, behaviorPositiveRate} {
			if f, ok := a.compare(cmp, metric); ok {
				findings = append(findings, f)
			}
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].SupportingDays != findings[j].SupportingDays {
			return findings[i].SupportingDays > findings[j].SupportingDays
		}
		return findings[i].Key < findings[j].Key
	})
	return findings
}

// profileDays builds per-day profiles for every day that has an intake,
// ordered by date.
func (a *CorrelationAnalyzer) profileDays(observations []models.Observation, intakes []models.MedicationIntake, w models.Window) []*dayProfile {
	byDate := make(map[string]*dayProfile)
	get := func(date string) *dayProfile {
		p, ok := byDate[date]
		if !ok {
			p = &dayProfile{date: date}
			byDate[date] = p
		}
		return p
	}

	for _, m := range intakes {
		if !w.Contains(m.Timestamp) {
			continue
		}
		p := get(w.DateOf(m.Timestamp))
		p.intakes++
		if m.Taken {
			p.taken++
		}
		if m.Effectiveness > 0 {
			p.ratingSum += m.Effectiveness
			p.ratingN++
		}
	}

	for _, o := range observations {
		if !w.Contains(o.Timestamp) {
			continue
		}
		if p, ok := byDate[w.DateOf(o.Timestamp)]; ok {
			p.behavior.add(a.scorer, o.PatternType)
		}
	}

	profiles := make([]*dayProfile, 0, len(byDate))
	for _, p := range byDate {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].date < profiles[j].date
	})
	return profiles
}

// comparisons splits the profiled days by effectiveness rating and by
// adherence. Days without a rating sit out the effectiveness split.
func (a *CorrelationAnalyzer) comparisons(profiles []*dayProfile) []comparison {
	effectiveness := comparison{
		medicationMetric: fmt.Sprintf("effectiveness >= %g", a.cfg.HighEffectiveness),
		group:            partition{label: "effectiveness_high"},
		rest:             partition{label: "effectiveness_other"},
		groupPhrase:      fmt.Sprintf("days medication effectiveness was rated %g or higher", a.cfg.HighEffectiveness),
		restPhrase:       "other rated days",
	}
	adherence := comparison{
		medicationMetric: "medication taken",
		group:            partition{label: "adherence_taken"},
		rest:             partition{label: "adherence_skipped"},
		groupPhrase:      "days medication was taken",
		restPhrase:       "days it was skipped",
	}

	for _, p := range profiles {
		if p.ratingN > 0 {
			if float64(p.ratingSum)/float64(p.ratingN) >= a.cfg.HighEffectiveness {
				effectiveness.group.days = append(effectiveness.group.days, p)
			} else {
				effectiveness.rest.days = append(effectiveness.rest.days, p)
			}
		}
		if p.taken > 0 {
			adherence.group.days = append(adherence.group.days, p)
		} else {
			adherence.rest.days = append(adherence.rest.days, p)
		}
	}
	return []comparison{effectiveness, adherence}
}

// compare emits a finding when the two partition rates differ enough
func (a *CorrelationAnalyzer) compare(cmp comparison, metric string) (models.CorrelationFinding, bool) {
	groupRate := cmp.group.rate(metric)
	restRate := cmp.rest.rate(metric)

	hi := math.Max(groupRate, restRate)
	if hi == 0 {
		return models.CorrelationFinding{}, false
	}
	rel := math.Abs(groupRate-restRate) / hi
	if rel < a.cfg.MinRelativeDifference-relativeDifferenceTolerance {
		return models.CorrelationFinding{}, false
	}

	groupLower := groupRate < restRate

	// A lower challenging share or a higher positive share on the group
	// days reads as a favorable association.
	direction := models.DirectionNegative
	if (metric == behaviorChallengingRate) == groupLower {
		direction = models.DirectionPositive
	}

	pooled := partition{days: append(append([]*dayProfile{}, cmp.group.days...), cmp.rest.days...)}.rate(metric)
	supporting := 0
	for _, d := range cmp.group.days {
		if (groupLower && d.rate(metric) <= pooled) || (!groupLower && d.rate(metric) >= pooled) {
			supporting++
		}
	}
	for _, d := range cmp.rest.days {
		if (groupLower && d.rate(metric) >= pooled) || (!groupLower && d.rate(metric) <= pooled) {
			supporting++
		}
	}

	return models.CorrelationFinding{
		Key:                cmp.group.label + ":" + metric,
		Description:        describe(cmp, metric, groupLower, groupRate, restRate),
		MedicationMetric:   cmp.medicationMetric,
		BehaviorMetric:     metric,
		SupportingDays:     supporting,
		TotalDays:          len(cmp.group.days) + len(cmp.rest.days),
		GroupDays:          len(cmp.group.days),
		ComparisonDays:     len(cmp.rest.days),
		GroupRate:          groupRate,
		ComparisonRate:     restRate,
		RelativeDifference: rel,
		Direction:          direction,
	}, true
}

// describe words a finding observationally, never causally
func describe(cmp comparison, metric string, groupLower bool, groupRate, restRate float64) string {
	subject := "challenging patterns"
	if metric == behaviorPositiveRate {
		subject = "positive patterns"
	}
	share := "larger"
	if groupLower {
		share = "smaller"
	}
	return fmt.Sprintf("On %s, %s tended to make up a %s share of logged observations (%.0f%% vs %.0f%% on %s).",
		cmp.groupPhrase, subject, share, groupRate*100, restRate*100, cmp.restPhrase)
}
