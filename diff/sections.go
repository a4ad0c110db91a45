package diff

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(#{1,3})\s+(.+)$`)

type heading struct {
	line  string
	title string
}

func extractHeadings(lines []string) []heading {
	var out []heading
	for _, l := range lines {
		m := headingPattern.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		out = append(out, heading{line: l, title: strings.TrimSpace(m[2])})
	}
	return out
}

// modifiedSections labels headings of curr that are new, or whose heading line
// changed while the title stayed the same.
func modifiedSections(prevLines, currLines []string, max int) []string {
	prevByTitle := make(map[string][]string)
	for _, h := range extractHeadings(prevLines) {
		prevByTitle[h.title] = append(prevByTitle[h.title], h.line)
	}

	out := []string{}
	for _, h := range extractHeadings(currLines) {
		if max >= 0 && len(out) >= max {
			break
		}
		prevLinesForTitle, ok := prevByTitle[h.title]
		if !ok {
			out = append(out, "New section: "+h.title)
			continue
		}
		unchanged := false
		for _, pl := range prevLinesForTitle {
			if pl == h.line {
				unchanged = true
				break
			}
		}
		if !unchanged {
			out = append(out, "Changed section: "+h.title)
		}
	}
	return out
}
