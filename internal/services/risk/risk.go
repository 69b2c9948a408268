// Package risk implements the claim risk scoring heuristic.
//
// The score is a 1-99 estimate of denial likelihood built from a random
// baseline, an amount tier bonus, and a payer reputation adjustment. It is a
// heuristic formula, not a trained model; the audit confidence value is
// likewise synthetic.
package risk

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Provider reputation lists, matched case-insensitively as substrings.
var (
	highRiskProviders = []string{"unknown", "other"}
	lowRiskProviders  = []string{"blue cross", "united health", "aetna", "cigna"}
)

// Assessment is the outcome of scoring a single claim.
type Assessment struct {
	Score       float64
	Explanation string
	Confidence  float64
	Flagged     bool
}

// Scorer computes risk assessments. The randomness source is injectable so
// tests can seed it.
type Scorer struct {
	rng *rand.Rand
}

// NewScorer creates a scorer seeded from the current time.
func NewScorer() *Scorer {
	return NewScorerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewScorerWithSource creates a scorer drawing randomness from src.
func NewScorerWithSource(src rand.Source) *Scorer {
	return &Scorer{rng: rand.New(src)}
}

// Assess scores a claim from its amount and insurance provider.
func (s *Scorer) Assess(amount float64, provider string) Assessment {
	// Random baseline in [10, 50)
	baseScore := s.rng.Float64()*40 + 10

	// Amount tier bonus
	switch {
	case amount > 10000:
		baseScore += 20
	case amount > 5000:
		baseScore += 10
	case amount > 1000:
		baseScore += 5
	}

	// Payer reputation adjustment
	normalized := strings.ToLower(provider)
	if containsAny(normalized, highRiskProviders) {
		baseScore += 15
	} else if containsAny(normalized, lowRiskProviders) {
		baseScore -= 10
	}

	score := math.Min(99, math.Max(1, round2(baseScore)))

	return Assessment{
		Score:       score,
		Explanation: explanationFor(score, amount, provider),
		Confidence:  round2(85 + s.rng.Float64()*14),
		Flagged:     score > 70,
	}
}

// explanationFor builds the tiered explanation text shown to reviewers.
func explanationFor(score, amount float64, provider string) string {
	amt := strconv.FormatFloat(amount, 'f', -1, 64)
	switch {
	case score > 70:
		return fmt.Sprintf("High risk: Claim amount $%s with %s. Flagged for manual review. Potential denial indicators detected.", amt, provider)
	case score > 40:
		return fmt.Sprintf("Moderate risk: Claim amount $%s with %s. Standard processing recommended with documentation verification.", amt, provider)
	default:
		return fmt.Sprintf("Low risk: Claim amount $%s with %s. Auto-approval candidate. Strong payer history.", amt, provider)
	}
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
