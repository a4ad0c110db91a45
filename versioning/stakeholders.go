package versioning

import (
	"sort"
	"strings"

	"f0oster/regwatch/diff"
)

// StakeholderRegistry maps source id prefixes to the regional parties a change
// from that source affects.
type StakeholderRegistry struct {
	prefixes map[string][]string // lower-case prefix → stakeholders
}

func NewStakeholderRegistry() *StakeholderRegistry {
	r := &StakeholderRegistry{prefixes: make(map[string][]string)}
	r.init()
	return r
}

func (r *StakeholderRegistry) init() {
	r.Register("fda", "US Manufacturers", "FDA")
	r.Register("ema", "EU Manufacturers", "Notified Bodies", "EMA")
	r.Register("bfarm", "German Manufacturers", "BfArM")
	r.Register("mhra", "UK Manufacturers", "MHRA")
	r.Register("swissmedic", "Swiss Manufacturers", "Swissmedic")
	r.Register("health_canada", "Canadian Manufacturers", "Health Canada")
	r.Register("tga", "Australian Manufacturers", "TGA")
	r.Register("pmda", "Japanese Manufacturers", "PMDA")
	r.Register("anvisa", "Brazilian Manufacturers", "ANVISA")
	r.Register("nmpa", "Chinese Manufacturers", "NMPA")
}

// Register sets (or replaces) the stakeholders for a source id prefix.
func (r *StakeholderRegistry) Register(prefix string, stakeholders ...string) {
	r.prefixes[strings.ToLower(prefix)] = append([]string(nil), stakeholders...)
}

// Lookup returns the stakeholders of the longest registered prefix of sourceID.
func (r *StakeholderRegistry) Lookup(sourceID string) ([]string, bool) {
	id := strings.ToLower(sourceID)
	best := ""
	for p := range r.prefixes {
		if strings.HasPrefix(id, p) && len(p) > len(best) {
			best = p
		}
	}
	if best == "" {
		return nil, false
	}
	return r.prefixes[best], true
}

// Prefixes lists the registered prefixes in sorted order.
func (r *StakeholderRegistry) Prefixes() []string {
	out := make([]string, 0, len(r.prefixes))
	for p := range r.prefixes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// AffectedStakeholders unions the regional stakeholders of the source with
// those implied by the comparison signals, de-duplicated in first-seen order.
func (r *StakeholderRegistry) AffectedStakeholders(sourceID string, cmp diff.ComparisonResult) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(names ...string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}

	if regional, ok := r.Lookup(sourceID); ok {
		add(regional...)
	}
	if cmp.SignificantChanges {
		add("Regulators", "Quality Assurance Teams")
	}
	if len(cmp.StructuralChanges) > 0 {
		add("Compliance Officers", "Regulatory Affairs")
	}
	return out
}
