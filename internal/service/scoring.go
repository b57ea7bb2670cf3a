package service

import (
	"github.com/JonnyWalker81/patternlog/internal/models"
)

// Valence is how a pattern type bears on a day's performance score
type Valence int

const (
	ValenceNeutral Valence = iota
	ValencePositive
	ValenceChallenging
)

// String returns the string representation of the valence
func (v Valence) String() string {
	switch v {
	case ValencePositive:
		return "positive"
	case ValenceChallenging:
		return "challenging"
	default:
		return "neutral"
	}
}

// DefaultValences is the fixed pattern-to-valence lookup table. Pattern
// types not listed are neutral.
var DefaultValences = map[models.PatternType]Valence{
	// Regulating, restorative, or going-well patterns
	models.PatternCalm:               ValencePositive,
	models.PatternJoy:                ValencePositive,
	models.PatternRecovery:           ValencePositive,
	models.PatternSocialRecovery:     ValencePositive,
	models.PatternRoutineFollowed:    ValencePositive,
	models.PatternFlowState:          ValencePositive,
	models.PatternInterestEngagement: ValencePositive,
	models.PatternSelfCareCompleted:  ValencePositive,
	models.PatternExercise:           ValencePositive,

	// Overload, dysregulation, and disruption patterns
	models.PatternSensoryOverload:      ValenceChallenging,
	models.PatternMeltdown:             ValenceChallenging,
	models.PatternShutdown:             ValenceChallenging,
	models.PatternBurnoutWarning:       ValenceChallenging,
	models.PatternAnxiety:              ValenceChallenging,
	models.PatternOverwhelm:            ValenceChallenging,
	models.PatternFrustration:          ValenceChallenging,
	models.PatternRoutineDisruption:    ValenceChallenging,
	models.PatternTransitionDifficulty: ValenceChallenging,
	models.PatternCommunication:        ValenceChallenging,
	models.PatternPhysicalDiscomfort:   ValenceChallenging,
	models.PatternSelfCareSkipped:      ValenceChallenging,
}

// ScoringWeights are the coefficients of the day performance score
type ScoringWeights struct {
	Entry       float64 // per logged observation, informational
	Positive    float64 // per positive observation
	Challenging float64 // per challenging observation
}

// DefaultScoringWeights returns the weights used when none are configured
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Entry: 0.1, Positive: 1, Challenging: 1}
}

// DayScorer scores calendar days from the observations logged on them:
//
//	score = Entry*count + Positive*positive - Challenging*challenging
type DayScorer struct {
	valences map[models.PatternType]Valence
	weights  ScoringWeights
}

// NewDayScorer creates a scorer. A nil table means DefaultValences.
func NewDayScorer(weights ScoringWeights, valences map[models.PatternType]Valence) *DayScorer {
	if valences == nil {
		valences = DefaultValences
	}
	return &DayScorer{valences: valences, weights: weights}
}

// Valence looks up the valence of p
func (s *DayScorer) Valence(p models.PatternType) Valence {
	return s.valences[p]
}

// Weights returns the configured weights
func (s *DayScorer) Weights() ScoringWeights {
	return s.weights
}

// Score computes the performance score of a day
func (s *DayScorer) Score(count, positive, challenging int) float64 {
	return s.weights.Entry*float64(count) +
		s.weights.Positive*float64(positive) -
		s.weights.Challenging*float64(challenging)
}

// dayTally accumulates the per-day inputs of the score
type dayTally struct {
	count       int
	positive    int
	challenging int
}

func (t *dayTally) add(s *DayScorer, p models.PatternType) {
	t.count++
	switch s.Valence(p) {
	case ValencePositive:
		t.positive++
	case ValenceChallenging:
		t.challenging++
	}
}
