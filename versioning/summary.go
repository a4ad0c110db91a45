package versioning

import (
	"fmt"
	"regexp"
	"strings"

	"f0oster/regwatch/classify"
	"f0oster/regwatch/diff"
	"f0oster/regwatch/document"
)

var sectionRefPattern = regexp.MustCompile(`\b(?:Section\s+\d+(?:\.\d+)*|Appendix\s+[A-Z])\b`)

// buildSummary renders the ordered human-readable notes for a version transition.
func buildSummary(prev, curr document.Version, cmp diff.ComparisonResult) []string {
	var notes []string

	if cmp.SignificantChanges {
		notes = append(notes, fmt.Sprintf("Content revised: %d%% of lines changed", cmp.ContentDiffPercentage))
	}
	if n := len(cmp.AddedContent); n > 0 {
		notes = append(notes, fmt.Sprintf("%d new sections added", n))
	}
	if n := len(cmp.RemovedContent); n > 0 {
		notes = append(notes, fmt.Sprintf("%d sections removed", n))
	}
	if prev.Metadata.PageCount != curr.Metadata.PageCount {
		notes = append(notes, fmt.Sprintf("Page count changed from %d to %d", prev.Metadata.PageCount, curr.Metadata.PageCount))
	}
	if prev.Category != curr.Category {
		notes = append(notes, fmt.Sprintf("Category changed from %q to %q", prev.Category, curr.Category))
	}
	if !classify.SameDeviceClasses(prev.DeviceClasses, curr.DeviceClasses) {
		notes = append(notes, fmt.Sprintf("Device classes changed: %s → %s",
			joinOrNone(prev.DeviceClasses), joinOrNone(curr.DeviceClasses)))
	}
	if prev.Status != curr.Status {
		notes = append(notes, fmt.Sprintf("Status changed from %s to %s", prev.Status, curr.Status))
	}
	notes = append(notes, cmp.StructuralChanges...)

	if len(notes) == 0 {
		return []string{MinorChangesSummary}
	}
	return notes
}

func joinOrNone(classes []string) string {
	if len(classes) == 0 {
		return "none"
	}
	return strings.Join(classes, ", ")
}

// affectedSections collects distinct "Section n(.n)*" and "Appendix X" references
// from the given texts in first-seen order.
func affectedSections(texts ...[]string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, group := range texts {
		for _, t := range group {
			for _, m := range sectionRefPattern.FindAllString(t, -1) {
				m = strings.Join(strings.Fields(m), " ")
				if !seen[m] {
					seen[m] = true
					out = append(out, m)
				}
			}
		}
	}
	return out
}
