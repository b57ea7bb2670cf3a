package service

import (
	"math"
	"sort"
	"time"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

// DefaultFlatTolerance is the |slope| per day at or below which a series is flat
const DefaultFlatTolerance = 0.05

// TrendAnalyzer classifies the direction of numeric series over a window
type TrendAnalyzer struct {
	scorer        *DayScorer
	flatTolerance float64
}

// NewTrendAnalyzer creates a trend analyzer
func NewTrendAnalyzer(scorer *DayScorer, flatTolerance float64) *TrendAnalyzer {
	if flatTolerance < 0 {
		flatTolerance = 0
	}
	return &TrendAnalyzer{scorer: scorer, flatTolerance: flatTolerance}
}

// sample is one (time, value) pair of a series
type sample struct {
	at    time.Time
	value float64
}

// AnalyzeTrend classifies metric over the observations inside w and reports
// the dominant pattern type of the window.
func (t *TrendAnalyzer) AnalyzeTrend(observations []models.Observation, metric models.TrendMetric, w models.Window) models.TrendDescriptor {
	inWindow := make([]models.Observation, 0, len(observations))
	patternCounts := make(map[models.PatternType]int)
	for _, o := range observations {
		if w.Contains(o.Timestamp) {
			inWindow = append(inWindow, o)
			patternCounts[o.PatternType]++
		}
	}

	var samples []sample
	switch metric {
	case models.MetricEnergyLevel:
		for _, o := range inWindow {
			if o.PatternType == models.PatternEnergyLevel && o.Intensity > 0 {
				samples = append(samples, sample{o.Timestamp, float64(o.Intensity)})
			}
		}
	case models.MetricIntensity:
		for _, o := range inWindow {
			if o.Intensity > 0 {
				samples = append(samples, sample{o.Timestamp, float64(o.Intensity)})
			}
		}
	case models.MetricDailyCount, models.MetricDayScore:
		samples = t.daySeries(inWindow, metric, w)
	}

	d := t.classify(metric, samples, w)
	d.DominantPattern, d.DominantPatternCount = dominantPattern(patternCounts)
	return d
}

// AnalyzeIntakeTrend classifies one of the self-rated intake metrics (mood,
// energy, effectiveness). Unrated intakes are skipped.
func (t *TrendAnalyzer) AnalyzeIntakeTrend(intakes []models.MedicationIntake, metric models.TrendMetric, w models.Window) models.TrendDescriptor {
	var samples []sample
	for _, m := range intakes {
		if !w.Contains(m.Timestamp) {
			continue
		}
		var v int
		switch metric {
		case models.MetricMood:
			v = m.Mood
		case models.MetricEnergy:
			v = m.EnergyLevel
		case models.MetricEffectiveness:
			v = m.Effectiveness
		}
		if v > 0 {
			samples = append(samples, sample{m.Timestamp, float64(v)})
		}
	}
	return t.classify(metric, samples, w)
}

// daySeries samples per-day totals or scores at local noon. Daily counts
// include empty days once anything was logged; day scores only cover days
// with entries.
func (t *TrendAnalyzer) daySeries(observations []models.Observation, metric models.TrendMetric, w models.Window) []sample {
	if len(observations) == 0 {
		return nil
	}

	tallies := make(map[string]*dayTally)
	for _, o := range observations {
		key := w.DateOf(o.Timestamp)
		tally, ok := tallies[key]
		if !ok {
			tally = &dayTally{}
			tallies[key] = tally
		}
		tally.add(t.scorer, o.PatternType)
	}

	loc := w.Loc()
	var samples []sample
	for _, day := range w.Days() {
		date, err := time.ParseInLocation(models.DateLayout, day, loc)
		if err != nil {
			continue
		}
		noon := date.Add(12 * time.Hour)
		tally := tallies[day]

		switch metric {
		case models.MetricDailyCount:
			n := 0
			if tally != nil {
				n = tally.count
			}
			samples = append(samples, sample{noon, float64(n)})
		case models.MetricDayScore:
			if tally != nil {
				samples = append(samples, sample{noon, t.scorer.Score(tally.count, tally.positive, tally.challenging)})
			}
		}
	}
	return samples
}

// classify fits a least-squares line through samples, x measured in days
// from the window start.
func (t *TrendAnalyzer) classify(metric models.TrendMetric, samples []sample, w models.Window) models.TrendDescriptor {
	d := models.TrendDescriptor{
		Metric:      metric,
		Direction:   models.TrendInsufficientData,
		SampleCount: len(samples),
	}
	if len(samples) < 2 {
		return d
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].at.Before(samples[j].at)
	})

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.at.Sub(w.Start).Hours() / 24
		ys[i] = s.value
	}

	slope, ok := leastSquaresSlope(xs, ys)
	if !ok {
		// Every sample at the same instant: no time spread to fit
		return d
	}

	d.SlopePerDay = slope
	switch {
	case math.Abs(slope) <= t.flatTolerance:
		d.Direction = models.TrendFlat
	case slope > 0:
		d.Direction = models.TrendRising
	default:
		d.Direction = models.TrendFalling
	}
	return d
}

// leastSquaresSlope returns the slope of the simple linear regression of ys
// on xs, or false when xs has no variance.
func leastSquaresSlope(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumXX := 0.0

	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	denom := n*sumXX - sumX*sumX
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	return (n*sumXY - sumX*sumY) / denom, true
}
