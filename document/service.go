package document

import (
	"sort"
	"strings"
	"time"
)

// Normalize returns a copy of v with absent fields defaulted so downstream
// comparison never has to special-case malformed input.
func Normalize(v Version) Version {
	out := v
	if out.Status == "" {
		out.Status = StatusActive
	}
	if out.DeviceClasses == nil {
		out.DeviceClasses = []string{}
	} else {
		out.DeviceClasses = append([]string(nil), v.DeviceClasses...)
	}
	out.Metadata.FileType = strings.TrimSpace(out.Metadata.FileType)
	out.Metadata.Language = strings.TrimSpace(out.Metadata.Language)
	if out.Metadata.PageCount < 0 {
		out.Metadata.PageCount = 0
	}
	return out
}

// SortAscending orders versions oldest first by OriginalDate, falling back to
// the version counter for equal dates.
func SortAscending(versions []Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		if versions[i].OriginalDate.Equal(versions[j].OriginalDate) {
			return versions[i].Version < versions[j].Version
		}
		return versions[i].OriginalDate.Before(versions[j].OriginalDate)
	})
}

// SortDescending orders versions newest first by OriginalDate.
func SortDescending(versions []Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		if versions[i].OriginalDate.Equal(versions[j].OriginalDate) {
			return versions[i].Version > versions[j].Version
		}
		return versions[i].OriginalDate.After(versions[j].OriginalDate)
	})
}

// Matches reports whether v satisfies the filter.
func (f Filter) Matches(v Version) bool {
	if f.SourceID != "" && v.SourceID != f.SourceID {
		return false
	}
	if f.Start != nil && v.OriginalDate.Before(*f.Start) {
		return false
	}
	if f.End != nil && v.OriginalDate.After(*f.End) {
		return false
	}
	return true
}

// SameDay reports whether two publication dates fall on the same calendar day (UTC).
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
