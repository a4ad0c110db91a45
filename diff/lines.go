package diff

import (
	"math"
	"strings"
)

// splitLines returns the non-empty trimmed lines of content.
func splitLines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

// missingFrom returns every line of src that does not appear verbatim in other,
// in src order.
func missingFrom(src, other []string) []string {
	present := make(map[string]struct{}, len(other))
	for _, l := range other {
		present[l] = struct{}{}
	}
	var out []string
	for _, l := range src {
		if _, ok := present[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// diffPercentage is computed over the uncapped added/removed counts and clamped to 100.
func diffPercentage(added, removed, prevLen, currLen int) int {
	denom := prevLen
	if currLen > denom {
		denom = currLen
	}
	if denom == 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(added+removed) / float64(denom)))
	if pct > 100 {
		pct = 100
	}
	return pct
}

func capLines(lines []string, max int) []string {
	if lines == nil {
		return []string{}
	}
	if max >= 0 && len(lines) > max {
		return lines[:max]
	}
	return lines
}
