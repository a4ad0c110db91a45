package diff

// ComparisonResult is the output of comparing two consecutive versions of a document.
type ComparisonResult struct {
	AddedContent          []string `json:"addedContent"`
	RemovedContent        []string `json:"removedContent"`
	ModifiedSections      []string `json:"modifiedSections"`
	StructuralChanges     []string `json:"structuralChanges"`
	ContentDiffPercentage int      `json:"contentDiffPercentage"`
	SignificantChanges    bool     `json:"significantChanges"`
}

// Field is a named metadata value as rendered for comparison.
type Field struct {
	Name  string
	Value string
}

// FieldChange represents a change to a single metadata field between two versions.
type FieldChange struct {
	Name string
	Old  string
	New  string
}

// Options bounds the comparator output.
type Options struct {
	// MaxContentLines caps AddedContent and RemovedContent
	MaxContentLines int `yaml:"maxContentLines"`

	// MaxSections caps ModifiedSections
	MaxSections int `yaml:"maxSections"`

	// SignificantPercentage is the diff percentage above which a change is significant
	SignificantPercentage int `yaml:"significantPercentage"`
}

func DefaultOptions() Options {
	return Options{
		MaxContentLines:       10,
		MaxSections:           5,
		SignificantPercentage: 10,
	}
}
