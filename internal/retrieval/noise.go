package retrieval

import (
	"regexp"
	"strings"
)

// NoiseDetector decides whether a passage is structural noise rather than
// substantive text. Kept as an interface so the heuristic can be swapped
// for a learned classifier without touching the filter.
type NoiseDetector interface {
	IsNoise(text string) bool
}

// ListingNoiseDetector flags table-of-contents-like passages: anything
// carrying a contents marker, or text dominated by short numbered entries
// the way index pages are. This is a structural approximation, not a
// semantic one: clauses with several numbered cross-references can be
// false positives, and sparse contents pages slip through.
type ListingNoiseDetector struct {
	maxNumberedEntries int
	numberedEntry      *regexp.Regexp
}

const defaultMaxNumberedEntries = 3

// NewListingNoiseDetector creates the default noise detector
func NewListingNoiseDetector() *ListingNoiseDetector {
	return &ListingNoiseDetector{
		maxNumberedEntries: defaultMaxNumberedEntries,
		numberedEntry:      regexp.MustCompile(`\d+\.\s`),
	}
}

// IsNoise reports whether the passage looks like contents or index text
func (d *ListingNoiseDetector) IsNoise(text string) bool {
	if strings.Contains(strings.ToUpper(text), "CONTENTS") {
		return true
	}

	return len(d.numberedEntry.FindAllString(text, -1)) > d.maxNumberedEntries
}
