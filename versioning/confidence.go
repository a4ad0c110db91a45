package versioning

import (
	"math"

	"f0oster/regwatch/diff"
)

// ConfidenceWeights drive the additive confidence score. The defaults are
// heuristic and have not been validated against labelled data.
type ConfidenceWeights struct {
	Base                float64 `yaml:"base"`
	Significant         float64 `yaml:"significant"`
	Structural          float64 `yaml:"structural"`
	Added               float64 `yaml:"added"`
	Removed             float64 `yaml:"removed"`
	LargeDiff           float64 `yaml:"largeDiff"`
	LargeDiffPercentage int     `yaml:"largeDiffPercentage"`
	Cap                 float64 `yaml:"cap"`
}

func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		Base:                0.5,
		Significant:         0.2,
		Structural:          0.15,
		Added:               0.1,
		Removed:             0.1,
		LargeDiff:           0.1,
		LargeDiffPercentage: 20,
		Cap:                 0.95,
	}
}

// Confidence starts at the base and adds one weight per corroborating signal,
// capped. Weights are non-negative so adding a signal never lowers the score.
func Confidence(cmp diff.ComparisonResult, w ConfidenceWeights) float64 {
	score := w.Base
	if cmp.SignificantChanges {
		score += w.Significant
	}
	if len(cmp.StructuralChanges) > 0 {
		score += w.Structural
	}
	if len(cmp.AddedContent) > 0 {
		score += w.Added
	}
	if len(cmp.RemovedContent) > 0 {
		score += w.Removed
	}
	if cmp.ContentDiffPercentage > w.LargeDiffPercentage {
		score += w.LargeDiff
	}
	score = math.Round(score*100) / 100
	return math.Min(score, w.Cap)
}
