package classify

import (
	"sort"

	"f0oster/regwatch/diff"
	"f0oster/regwatch/document"
)

type ChangeType string

const (
	ContentUpdate    ChangeType = "content_update"
	StructuralChange ChangeType = "structural_change"
	StatusChange     ChangeType = "status_change"
	MetadataChange   ChangeType = "metadata_change"
)

type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// IsHigh reports whether the impact warrants an alert.
func (i Impact) IsHigh() bool {
	return i == ImpactHigh || i == ImpactCritical
}

// Thresholds are the rule cutoffs used by the classifier. They are heuristic
// and exposed for configuration.
type Thresholds struct {
	// ContentLines is the added/removed line count above which a change is a content update
	ContentLines int `yaml:"contentLines"`

	// HighPercentage and MediumPercentage are content diff cutoffs for impact
	HighPercentage   int `yaml:"highPercentage"`
	MediumPercentage int `yaml:"mediumPercentage"`

	// StructuralMedium is the structural change count above which impact is medium
	StructuralMedium int `yaml:"structuralMedium"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ContentLines:     5,
		HighPercentage:   50,
		MediumPercentage: 25,
		StructuralMedium: 3,
	}
}

// Classifier maps a compared version pair to a change type and impact level.
// It holds no state beyond its thresholds and is safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
}

func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify returns both labels for a version pair.
func (c *Classifier) Classify(prev, curr document.Version, cmp diff.ComparisonResult) (ChangeType, Impact) {
	return c.ChangeType(prev, curr, cmp), c.Impact(prev, curr, cmp)
}

// ChangeType applies the type rules in order; the first match wins.
func (c *Classifier) ChangeType(prev, curr document.Version, cmp diff.ComparisonResult) ChangeType {
	switch {
	case prev.Status != curr.Status:
		return StatusChange
	case cmp.SignificantChanges,
		len(cmp.AddedContent) > c.thresholds.ContentLines,
		len(cmp.RemovedContent) > c.thresholds.ContentLines:
		return ContentUpdate
	case len(cmp.StructuralChanges) > 0, prev.Category != curr.Category:
		return StructuralChange
	default:
		return MetadataChange
	}
}

// Impact applies the impact rules in order; the first match wins. Archival and
// device-class changes rank high regardless of how much text moved.
func (c *Classifier) Impact(prev, curr document.Version, cmp diff.ComparisonResult) Impact {
	switch {
	case prev.Status != curr.Status && curr.Status == document.StatusArchived:
		return ImpactCritical
	case cmp.ContentDiffPercentage > c.thresholds.HighPercentage:
		return ImpactHigh
	case cmp.ContentDiffPercentage > c.thresholds.MediumPercentage:
		return ImpactMedium
	case !SameDeviceClasses(prev.DeviceClasses, curr.DeviceClasses):
		return ImpactHigh
	case prev.Category != curr.Category:
		return ImpactMedium
	case len(cmp.StructuralChanges) > c.thresholds.StructuralMedium:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// SameDeviceClasses compares two device class lists ignoring order.
func SameDeviceClasses(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
