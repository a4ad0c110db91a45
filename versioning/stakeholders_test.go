package versioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"f0oster/regwatch/diff"
	"f0oster/regwatch/versioning"
)

func TestStakeholderRegistry_Lookup(t *testing.T) {
	r := versioning.NewStakeholderRegistry()

	got, ok := r.Lookup("FDA_Guidance")
	assert.True(t, ok)
	assert.Equal(t, []string{"US Manufacturers", "FDA"}, got)

	got, ok = r.Lookup("health_canada_notices")
	assert.True(t, ok)
	assert.Equal(t, []string{"Canadian Manufacturers", "Health Canada"}, got)

	_, ok = r.Lookup("internal_wiki")
	assert.False(t, ok)
}

func TestStakeholderRegistry_LongestPrefixWins(t *testing.T) {
	r := versioning.NewStakeholderRegistry()
	r.Register("fda_cdrh", "Device Manufacturers", "CDRH")

	got, ok := r.Lookup("fda_cdrh_guidance")
	assert.True(t, ok)
	assert.Equal(t, []string{"Device Manufacturers", "CDRH"}, got)

	got, _ = r.Lookup("fda_cder")
	assert.Equal(t, []string{"US Manufacturers", "FDA"}, got)
}

func TestStakeholderRegistry_Prefixes(t *testing.T) {
	prefixes := versioning.NewStakeholderRegistry().Prefixes()

	assert.Len(t, prefixes, 10)
	assert.Equal(t, "anvisa", prefixes[0])
	assert.Contains(t, prefixes, "swissmedic")
}

func TestAffectedStakeholders(t *testing.T) {
	r := versioning.NewStakeholderRegistry()

	tests := []struct {
		name   string
		source string
		cmp    diff.ComparisonResult
		want   []string
	}{
		{
			name:   "regional only",
			source: "ema_guidance",
			want:   []string{"EU Manufacturers", "Notified Bodies", "EMA"},
		},
		{
			name:   "unknown source with every signal",
			source: "internal_wiki",
			cmp:    diff.ComparisonResult{SignificantChanges: true, StructuralChanges: []string{"x"}},
			want:   []string{"Regulators", "Quality Assurance Teams", "Compliance Officers", "Regulatory Affairs"},
		},
		{
			name:   "unknown source without signals",
			source: "internal_wiki",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.AffectedStakeholders(tt.source, tt.cmp))
		})
	}
}

func TestAffectedStakeholders_Deduplicates(t *testing.T) {
	r := versioning.NewStakeholderRegistry()
	r.Register("mhra", "Regulators", "MHRA")

	got := r.AffectedStakeholders("mhra_alerts", diff.ComparisonResult{SignificantChanges: true})

	assert.Equal(t, []string{"Regulators", "MHRA", "Quality Assurance Teams"}, got)
}
