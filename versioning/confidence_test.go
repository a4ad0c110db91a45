package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"f0oster/regwatch/diff"
	"f0oster/regwatch/versioning"
)

// signals is a bitmask over the five confidence signals.
func comparisonFor(signals int) diff.ComparisonResult {
	var cmp diff.ComparisonResult
	if signals&1 != 0 {
		cmp.SignificantChanges = true
	}
	if signals&2 != 0 {
		cmp.StructuralChanges = []string{"Language changed: en → de"}
	}
	if signals&4 != 0 {
		cmp.AddedContent = []string{"added"}
	}
	if signals&8 != 0 {
		cmp.RemovedContent = []string{"removed"}
	}
	if signals&16 != 0 {
		cmp.ContentDiffPercentage = 40
	}
	return cmp
}

func TestConfidence_Values(t *testing.T) {
	w := versioning.DefaultConfidenceWeights()

	assert.InDelta(t, 0.5, versioning.Confidence(comparisonFor(0), w), 1e-9)
	assert.InDelta(t, 0.7, versioning.Confidence(comparisonFor(1), w), 1e-9)
	assert.InDelta(t, 0.65, versioning.Confidence(comparisonFor(2), w), 1e-9)
	assert.InDelta(t, 0.7, versioning.Confidence(comparisonFor(4|8), w), 1e-9)
	assert.InDelta(t, 0.95, versioning.Confidence(comparisonFor(31), w), 1e-9)
}

func TestConfidence_RangeAndMonotonic(t *testing.T) {
	w := versioning.DefaultConfidenceWeights()

	for signals := 0; signals < 32; signals++ {
		score := versioning.Confidence(comparisonFor(signals), w)
		assert.GreaterOrEqual(t, score, 0.5)
		assert.LessOrEqual(t, score, 0.95)

		for bit := 1; bit < 32; bit <<= 1 {
			if signals&bit != 0 {
				continue
			}
			more := versioning.Confidence(comparisonFor(signals|bit), w)
			assert.GreaterOrEqual(t, more, score, "signals %05b + %05b", signals, bit)
		}
	}
}
