package service

import (
	"github.com/JonnyWalker81/patternlog/internal/models"
)

// AggregationEngine turns raw observations and intakes into period statistics
type AggregationEngine struct {
	scorer *DayScorer
}

// NewAggregationEngine creates an aggregation engine scoring days with scorer
func NewAggregationEngine(scorer *DayScorer) *AggregationEngine {
	return &AggregationEngine{scorer: scorer}
}

// Aggregate computes the statistics of the records falling inside w. Records
// outside the window and observations with an unknown category are ignored.
// Empty input yields zero counts for all categories and every window day.
func (a *AggregationEngine) Aggregate(observations []models.Observation, intakes []models.MedicationIntake, w models.Window) models.PeriodStatistics {
	days := w.Days()
	dayIndex := make(map[string]int, len(days))
	tallies := make([]dayTally, len(days))
	for i, d := range days {
		dayIndex[d] = i
	}

	categoryCounts := make(map[models.Category]int, len(models.Categories))
	patternCounts := make(map[models.PatternType]int)

	stats := models.PeriodStatistics{}
	intensitySum, intensityN := 0, 0

	// Single pass: partition by category and by local calendar day
	for _, o := range observations {
		if !w.Contains(o.Timestamp) || !o.Category.Valid() {
			continue
		}
		stats.TotalCount++
		categoryCounts[o.Category]++
		patternCounts[o.PatternType]++

		if i, ok := dayIndex[w.DateOf(o.Timestamp)]; ok {
			tallies[i].add(a.scorer, o.PatternType)
		}
		if o.Intensity > 0 {
			intensitySum += o.Intensity
			intensityN++
		}
		if o.Duration > 0 {
			stats.TotalDurationMinutes += o.Duration
		}
	}

	if intensityN > 0 {
		stats.AverageIntensity = float64(intensitySum) / float64(intensityN)
	}

	stats.CategoryCounts = make([]models.CategoryCount, 0, len(models.Categories))
	best := 0
	for _, c := range models.Categories {
		n := categoryCounts[c]
		stats.CategoryCounts = append(stats.CategoryCounts, models.CategoryCount{Category: c, Count: n})
		// Categories is in display order, so strict > keeps the first on ties
		if n > best {
			best = n
			stats.MostFrequentCategory = c
		}
	}

	stats.MostFrequentPattern, _ = dominantPattern(patternCounts)

	stats.DailyCounts = make([]models.DayCount, 0, len(days))
	for i, d := range days {
		stats.DailyCounts = append(stats.DailyCounts, models.DayCount{
			Date:  d,
			Count: tallies[i].count,
			Score: a.scorer.Score(tallies[i].count, tallies[i].positive, tallies[i].challenging),
		})
	}
	stats.MostActiveDay, stats.BestDay, stats.WorstDay = dayExtremes(stats.DailyCounts)

	stats.Medication = summarizeIntakes(intakes, w)
	return stats
}

// dayExtremes picks the most active, best and worst days among days with at
// least one entry. DailyCounts is oldest first, so strict comparisons keep
// the earliest day on ties.
func dayExtremes(daily []models.DayCount) (mostActive, best, worst *models.DayCount) {
	for i := range daily {
		d := daily[i]
		if d.Count == 0 {
			continue
		}
		if mostActive == nil || d.Count > mostActive.Count {
			mostActive = &d
		}
		if best == nil || d.Score > best.Score {
			best = &d
		}
		if worst == nil || d.Score < worst.Score {
			worst = &d
		}
	}
	return mostActive, best, worst
}

// dominantPattern returns the most frequent pattern type, ties broken by
// catalogue order then by name.
func dominantPattern(counts map[models.PatternType]int) (models.PatternType, int) {
	var top models.PatternType
	topN := 0
	for p, n := range counts {
		switch {
		case n > topN:
			top, topN = p, n
		case n == topN && n > 0:
			if p.Order() < top.Order() || (p.Order() == top.Order() && p < top) {
				top = p
			}
		}
	}
	return top, topN
}

// summarizeIntakes computes adherence and rating averages for intakes in w
func summarizeIntakes(intakes []models.MedicationIntake, w models.Window) models.MedicationSummary {
	var s models.MedicationSummary
	var effSum, effN, moodSum, moodN, energySum, energyN int
	ratedDays := make(map[string]struct{})

	for _, m := range intakes {
		if !w.Contains(m.Timestamp) {
			continue
		}
		s.TotalIntakes++
		if m.Taken {
			s.Taken++
		} else {
			s.Skipped++
		}
		if m.Effectiveness > 0 {
			effSum += m.Effectiveness
			effN++
			ratedDays[w.DateOf(m.Timestamp)] = struct{}{}
		}
		if m.Mood > 0 {
			moodSum += m.Mood
			moodN++
		}
		if m.EnergyLevel > 0 {
			energySum += m.EnergyLevel
			energyN++
		}
	}

	if s.TotalIntakes > 0 {
		s.AdherenceRate = float64(s.Taken) / float64(s.TotalIntakes)
	}
	s.AverageEffectiveness = mean(effSum, effN)
	s.AverageMood = mean(moodSum, moodN)
	s.AverageEnergy = mean(energySum, energyN)
	s.RatedDays = len(ratedDays)
	return s
}

func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
