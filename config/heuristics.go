package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"f0oster/regwatch/classify"
	"f0oster/regwatch/diff"
	"f0oster/regwatch/versioning"
)

var ErrInvalidHeuristics = errors.New("invalid heuristics")

// Heuristics collects every tunable constant of the change-detection pipeline.
// None of the defaults have been validated empirically.
type Heuristics struct {
	Comparator   diff.Options                 `yaml:"comparator"`
	Classifier   classify.Thresholds          `yaml:"classifier"`
	Confidence   versioning.ConfidenceWeights `yaml:"confidence"`
	Stakeholders map[string][]string          `yaml:"stakeholders"`
}

func DefaultHeuristics() Heuristics {
	return Heuristics{
		Comparator: diff.DefaultOptions(),
		Classifier: classify.DefaultThresholds(),
		Confidence: versioning.DefaultConfidenceWeights(),
	}
}

// LoadHeuristics reads a YAML file over the defaults; keys absent from the
// file keep their default values. An empty path returns the defaults.
func LoadHeuristics(path string) (Heuristics, error) {
	h := DefaultHeuristics()
	if path == "" {
		return h, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Heuristics{}, fmt.Errorf("read heuristics file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &h); err != nil {
		return Heuristics{}, fmt.Errorf("parse heuristics file: %w", err)
	}
	if err := h.Validate(); err != nil {
		return Heuristics{}, err
	}
	return h, nil
}

func (h Heuristics) Validate() error {
	c := h.Confidence
	switch {
	case h.Comparator.MaxContentLines < 0, h.Comparator.MaxSections < 0:
		return fmt.Errorf("%w: comparator caps must not be negative", ErrInvalidHeuristics)
	case h.Comparator.SignificantPercentage < 0 || h.Comparator.SignificantPercentage > 100:
		return fmt.Errorf("%w: significantPercentage must be within 0-100", ErrInvalidHeuristics)
	case h.Classifier.MediumPercentage > h.Classifier.HighPercentage:
		return fmt.Errorf("%w: mediumPercentage exceeds highPercentage", ErrInvalidHeuristics)
	case h.Classifier.ContentLines < 0, h.Classifier.StructuralMedium < 0:
		return fmt.Errorf("%w: classifier counts must not be negative", ErrInvalidHeuristics)
	case c.Significant < 0, c.Structural < 0, c.Added < 0, c.Removed < 0, c.LargeDiff < 0:
		return fmt.Errorf("%w: confidence weights must not be negative", ErrInvalidHeuristics)
	case c.Base < 0, c.Cap > 1, c.Cap < c.Base:
		return fmt.Errorf("%w: confidence requires 0 <= base <= cap <= 1", ErrInvalidHeuristics)
	}
	for prefix, names := range h.Stakeholders {
		if prefix == "" || len(names) == 0 {
			return fmt.Errorf("%w: stakeholder mapping %q is empty", ErrInvalidHeuristics, prefix)
		}
	}
	return nil
}

// VersioningOptions builds service options from the heuristics; extra
// stakeholder prefixes are layered over the built-in table.
func (h Heuristics) VersioningOptions() versioning.Options {
	opts := versioning.DefaultOptions()
	opts.Comparator = h.Comparator
	opts.Thresholds = h.Classifier
	opts.Confidence = h.Confidence
	for prefix, names := range h.Stakeholders {
		opts.Stakeholders.Register(prefix, names...)
	}
	return opts
}
