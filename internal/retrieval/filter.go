package retrieval

import (
	"github.com/aftab707/LegalAdvisor/pkg/models"
)

const (
	// DefaultMaxKeep bounds how many passages survive filtering
	DefaultMaxKeep = 5

	// fallbackKeep bounds the unfiltered fallback when everything is
	// rejected
	fallbackKeep = 3
)

// PassageFilter removes structurally noisy passages from a ranked
// retrieval result. Filtering never fails: when every candidate is
// rejected it falls back to the head of the raw ranking, preferring a
// possibly noisy answer over no context at all.
type PassageFilter struct {
	detector NoiseDetector
	maxKeep  int
}

// NewPassageFilter creates a filter with the given detector. A
// non-positive maxKeep falls back to DefaultMaxKeep.
func NewPassageFilter(detector NoiseDetector, maxKeep int) *PassageFilter {
	if maxKeep <= 0 {
		maxKeep = DefaultMaxKeep
	}
	return &PassageFilter{
		detector: detector,
		maxKeep:  maxKeep,
	}
}

// Filter returns the surviving passages in their original rank order,
// truncated to maxKeep.
func (f *PassageFilter) Filter(passages []models.Passage) []models.Passage {
	if len(passages) == 0 {
		return nil
	}

	kept := make([]models.Passage, 0, f.maxKeep)
	for _, p := range passages {
		if f.detector.IsNoise(p.Text) {
			continue
		}
		kept = append(kept, p)
		if len(kept) == f.maxKeep {
			break
		}
	}

	if len(kept) == 0 {
		n := fallbackKeep
		if len(passages) < n {
			n = len(passages)
		}
		return passages[:n]
	}

	return kept
}
