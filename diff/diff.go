package diff

import (
	"fmt"
	"strconv"

	"f0oster/regwatch/document"
)

// Compare computes the line, section and metadata differences between two
// versions of the same document. It is total: absent fields compare as empty.
func Compare(prev, curr document.Version, opts Options) ComparisonResult {
	prevLines := splitLines(prev.Content)
	currLines := splitLines(curr.Content)

	added := missingFrom(currLines, prevLines)
	removed := missingFrom(prevLines, currLines)
	pct := diffPercentage(len(added), len(removed), len(prevLines), len(currLines))

	return ComparisonResult{
		AddedContent:          capLines(added, opts.MaxContentLines),
		RemovedContent:        capLines(removed, opts.MaxContentLines),
		ModifiedSections:      modifiedSections(prevLines, currLines, opts.MaxSections),
		StructuralChanges:     StructuralChanges(prev.Metadata, curr.Metadata),
		ContentDiffPercentage: pct,
		SignificantChanges:    pct > opts.SignificantPercentage,
	}
}

// StructuralChanges describes each differing metadata field as "X changed: old → new".
func StructuralChanges(prev, curr document.Metadata) []string {
	changes := FindChanges(metadataFields(prev), metadataFields(curr))
	out := make([]string, 0, len(changes))
	for _, ch := range changes {
		out = append(out, fmt.Sprintf("%s changed: %s → %s", ch.Name, ch.Old, ch.New))
	}
	return out
}

func metadataFields(m document.Metadata) []Field {
	return []Field{
		{Name: "Page count", Value: strconv.Itoa(m.PageCount)},
		{Name: "File type", Value: m.FileType},
		{Name: "Language", Value: m.Language},
	}
}

// FindChanges compares two ordered field lists by name and returns the fields
// whose values differ. Fields present on only one side compare against "".
func FindChanges(prev, curr []Field) []FieldChange {
	prevVals := make(map[string]string, len(prev))
	for _, f := range prev {
		prevVals[f.Name] = f.Value
	}

	var changes []FieldChange
	seen := make(map[string]bool, len(curr))
	for _, f := range curr {
		seen[f.Name] = true
		if old := prevVals[f.Name]; old != f.Value {
			changes = append(changes, FieldChange{Name: f.Name, Old: old, New: f.Value})
		}
	}

	// fields dropped from curr
	for _, f := range prev {
		if !seen[f.Name] && f.Value != "" {
			changes = append(changes, FieldChange{Name: f.Name, Old: f.Value, New: ""})
		}
	}
	return changes
}
