package document_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"f0oster/regwatch/document"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	v := document.Normalize(document.Version{
		DocumentID: "doc-1",
		Metadata:   document.Metadata{PageCount: -3, FileType: " pdf ", Language: "en\n"},
	})

	assert.Equal(t, document.StatusActive, v.Status)
	assert.NotNil(t, v.DeviceClasses)
	assert.Empty(t, v.DeviceClasses)
	assert.Equal(t, 0, v.Metadata.PageCount)
	assert.Equal(t, "pdf", v.Metadata.FileType)
	assert.Equal(t, "en", v.Metadata.Language)
}

func TestNormalize_CopiesDeviceClasses(t *testing.T) {
	classes := []string{"Class II"}
	v := document.Normalize(document.Version{DeviceClasses: classes})
	v.DeviceClasses[0] = "changed"
	assert.Equal(t, "Class II", classes[0])
}

func TestFilterMatches(t *testing.T) {
	start, end := day(5), day(10)
	f := document.Filter{SourceID: "fda_guidance", Start: &start, End: &end}

	assert.True(t, f.Matches(document.Version{SourceID: "fda_guidance", OriginalDate: day(5)}))
	assert.True(t, f.Matches(document.Version{SourceID: "fda_guidance", OriginalDate: day(10)}))
	assert.False(t, f.Matches(document.Version{SourceID: "fda_guidance", OriginalDate: day(11)}))
	assert.False(t, f.Matches(document.Version{SourceID: "fda_guidance", OriginalDate: day(4)}))
	assert.False(t, f.Matches(document.Version{SourceID: "ema_guidance", OriginalDate: day(6)}))
	assert.True(t, document.Filter{}.Matches(document.Version{SourceID: "anything"}))
}

func TestSorting(t *testing.T) {
	versions := []document.Version{
		{Version: 2, OriginalDate: day(3)},
		{Version: 1, OriginalDate: day(1)},
		{Version: 3, OriginalDate: day(7)},
	}

	document.SortAscending(versions)
	assert.Equal(t, []int{1, 2, 3}, []int{versions[0].Version, versions[1].Version, versions[2].Version})

	document.SortDescending(versions)
	assert.Equal(t, []int{3, 2, 1}, []int{versions[0].Version, versions[1].Version, versions[2].Version})
}

func TestSameDay(t *testing.T) {
	assert.True(t, document.SameDay(day(1), day(1).Add(23*time.Hour)))
	assert.False(t, document.SameDay(day(1), day(2)))
}
