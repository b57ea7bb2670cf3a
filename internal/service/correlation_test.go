package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/patternlog/internal/models"
)

// correlationDay logs one intake and ten observations on day, challenging of
// which are anxiety and the rest neutral stimming.
func correlationDay(day, effectiveness, challenging int, taken bool) ([]models.Observation, models.MedicationIntake) {
	obs := make([]models.Observation, 0, 10)
	for i := 0; i < 10; i++ {
		p := models.PatternStimming
		if i < challenging {
			p = models.PatternAnxiety
		}
		obs = append(obs, observation(at(day, 9+i), p, 0))
	}
	return obs, intake(at(day, 8), taken, effectiveness)
}

type correlationFixture struct {
	observations []models.Observation
	intakes      []models.MedicationIntake
}

func (f *correlationFixture) day(day, effectiveness, challenging int, taken bool) {
	obs, in := correlationDay(day, effectiveness, challenging, taken)
	f.observations = append(f.observations, obs...)
	f.intakes = append(f.intakes, in)
}

func TestFindCorrelations_HighEffectivenessDays(t *testing.T) {
	var f correlationFixture
	for day := 0; day < 4; day++ {
		f.day(day, 5, 1, true) // 10% challenging
	}
	for day := 4; day < 8; day++ {
		f.day(day, 2, 4, true) // 40% challenging
	}

	analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
	findings := analyzer.FindCorrelations(f.observations, f.intakes, utcWindow(0, 14))

	require.Len(t, findings, 1)
	got := findings[0]
	assert.Equal(t, "effectiveness_high:challenging_rate", got.Key)
	assert.Equal(t, models.DirectionPositive, got.Direction)
	assert.Equal(t, 8, got.SupportingDays)
	assert.Equal(t, 8, got.TotalDays)
	assert.Equal(t, 4, got.GroupDays)
	assert.Equal(t, 4, got.ComparisonDays)
	assert.InDelta(t, 0.10, got.GroupRate, 1e-9)
	assert.InDelta(t, 0.40, got.ComparisonRate, 1e-9)
	assert.InDelta(t, 0.75, got.RelativeDifference, 1e-9)
	assert.Contains(t, got.Description, "10% vs 40%")
	assert.Contains(t, got.Description, "tended to")
	assert.NotContains(t, strings.ToLower(got.Description), "caus")
}

func TestFindCorrelations_MinDaysBoundary(t *testing.T) {
	tests := []struct {
		name      string
		highDays  int
		otherDays int
		want      int
	}{
		{"two high days", 2, 4, 0},
		{"two other days", 4, 2, 0},
		{"three each", 3, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f correlationFixture
			day := 0
			for i := 0; i < tt.highDays; i++ {
				f.day(day, 5, 1, true)
				day++
			}
			for i := 0; i < tt.otherDays; i++ {
				f.day(day, 2, 4, true)
				day++
			}

			analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
			findings := analyzer.FindCorrelations(f.observations, f.intakes, utcWindow(0, 14))
			assert.Len(t, findings, tt.want)
		})
	}
}

func TestFindCorrelations_SmallDifferenceIgnored(t *testing.T) {
	var f correlationFixture
	for day := 0; day < 4; day++ {
		f.day(day, 5, 3, true) // 30%
	}
	for day := 4; day < 8; day++ {
		f.day(day, 2, 3, true) // 30%
	}

	analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
	assert.Empty(t, analyzer.FindCorrelations(f.observations, f.intakes, utcWindow(0, 14)))
}

func TestFindCorrelations_RelativeDifferenceBoundary(t *testing.T) {
	tests := []struct {
		name             string
		restChallenging  []int
		wantFindings     int
		wantRelativeDiff float64
	}{
		// 40% vs 50%: the difference is exactly the threshold
		{"exactly twenty percent", []int{5, 5, 5, 5}, 1, 0.20},
		// 40% vs 47.5%
		{"just under twenty percent", []int{5, 5, 5, 4}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f correlationFixture
			for day := 0; day < 4; day++ {
				f.day(day, 5, 4, true)
			}
			for i, challenging := range tt.restChallenging {
				f.day(4+i, 2, challenging, true)
			}

			analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
			findings := analyzer.FindCorrelations(f.observations, f.intakes, utcWindow(0, 14))

			require.Len(t, findings, tt.wantFindings)
			if tt.wantFindings > 0 {
				assert.Equal(t, "effectiveness_high:challenging_rate", findings[0].Key)
				assert.Equal(t, models.DirectionPositive, findings[0].Direction)
				assert.InDelta(t, tt.wantRelativeDiff, findings[0].RelativeDifference, 1e-9)
			}
		})
	}
}

func TestFindCorrelations_UnratedDaysExcluded(t *testing.T) {
	var f correlationFixture
	for day := 0; day < 3; day++ {
		f.day(day, 5, 1, true)
	}
	f.day(3, 2, 5, true)
	f.day(4, 2, 5, true)
	// unrated days with heavy challenging shares would push the comparison
	// partition past MinDays if they were counted as "other"
	for day := 5; day < 8; day++ {
		f.day(day, 0, 7, true)
	}

	analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
	w := utcWindow(0, 14)

	cmps := analyzer.comparisons(analyzer.profileDays(f.observations, f.intakes, w))
	require.NotEmpty(t, cmps)
	assert.Equal(t, "effectiveness_high", cmps[0].group.label)
	assert.Len(t, cmps[0].group.days, 3)
	assert.Len(t, cmps[0].rest.days, 2)

	for _, finding := range analyzer.FindCorrelations(f.observations, f.intakes, w) {
		assert.False(t, strings.HasPrefix(finding.Key, "effectiveness_high:"), finding.Key)
	}
}

func TestFindCorrelations_Adherence(t *testing.T) {
	var f correlationFixture
	for day := 0; day < 3; day++ {
		f.day(day, 0, 1, true)
	}
	for day := 3; day < 6; day++ {
		f.day(day, 0, 5, false)
	}

	analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
	findings := analyzer.FindCorrelations(f.observations, f.intakes, utcWindow(0, 14))

	// unrated days sit out the effectiveness split entirely
	require.Len(t, findings, 1)
	assert.Equal(t, "adherence_taken:challenging_rate", findings[0].Key)
	assert.Equal(t, models.DirectionPositive, findings[0].Direction)
	assert.Equal(t, "medication taken", findings[0].MedicationMetric)
	assert.Equal(t, 6, findings[0].SupportingDays)
}

func TestFindCorrelations_NegativeDirection(t *testing.T) {
	var f correlationFixture
	for day := 0; day < 3; day++ {
		f.day(day, 5, 6, true)
	}
	for day := 3; day < 6; day++ {
		f.day(day, 1, 1, true)
	}

	analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
	findings := analyzer.FindCorrelations(f.observations, f.intakes, utcWindow(0, 14))

	require.Len(t, findings, 1)
	assert.Equal(t, models.DirectionNegative, findings[0].Direction)
	assert.Contains(t, findings[0].Description, "larger share")
}

func TestFindCorrelations_SortedBySupport(t *testing.T) {
	var f correlationFixture
	// effectiveness split: 3 high vs 3 low, every day consistent
	for day := 0; day < 3; day++ {
		f.day(day, 5, 1, true)
	}
	for day := 3; day < 6; day++ {
		f.day(day, 1, 5, true)
	}
	// adherence split: 3 skipped days with high challenging shares, one of
	// them below the pooled rate
	f.day(6, 0, 6, false)
	f.day(7, 0, 6, false)
	f.day(8, 0, 2, false)

	analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
	findings := analyzer.FindCorrelations(f.observations, f.intakes, utcWindow(0, 14))

	require.Len(t, findings, 2)
	for i := 1; i < len(findings); i++ {
		prev, cur := findings[i-1], findings[i]
		assert.True(t, prev.SupportingDays > cur.SupportingDays ||
			(prev.SupportingDays == cur.SupportingDays && prev.Key < cur.Key))
	}
}

func TestFindCorrelations_NoIntakes(t *testing.T) {
	obs := energySeries(1, 2, 3)

	analyzer := NewCorrelationAnalyzer(newTestScorer(), DefaultCorrelationConfig())
	assert.Empty(t, analyzer.FindCorrelations(obs, nil, utcWindow(0, 7)))
}
