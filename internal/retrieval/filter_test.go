package retrieval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

func passages(texts ...string) []models.Passage {
	out := make([]models.Passage, len(texts))
	for i, t := range texts {
		out[i] = models.Passage{Text: t, Metadata: map[string]interface{}{"rank": i}}
	}
	return out
}

func TestListingNoiseDetector_ContentsMarker(t *testing.T) {
	d := NewListingNoiseDetector()

	assert.True(t, d.IsNoise("CONTENTS of this part"))
	assert.True(t, d.IsNoise("Table of Contents for the chapter"))
	assert.True(t, d.IsNoise("see contents below"))
	assert.False(t, d.IsNoise("The content of this article binds the state"))
}

func TestListingNoiseDetector_NumberedEntries(t *testing.T) {
	d := NewListingNoiseDetector()

	// Exactly three numbered entries is still acceptable.
	assert.False(t, d.IsNoise("1. First 2. Second 3. Third"))

	// More than three marks an index-like page.
	assert.True(t, d.IsNoise("1. First 2. Second 3. Third 4. Fourth"))
	assert.True(t, d.IsNoise("12. Equality 301. Emergency 45. Assembly 7. Speech 89. Property"))

	assert.False(t, d.IsNoise("Every citizen shall have the right to form associations"))

	// Numbers without the period-and-space shape do not count.
	assert.False(t, d.IsNoise("Articles 12, 301, 45, 7 and 89 apply here"))
}

func TestPassageFilter_RejectsNoise(t *testing.T) {
	f := NewPassageFilter(NewListingNoiseDetector(), DefaultMaxKeep)

	in := passages(
		"Every citizen shall have the right to freedom of speech",
		"CONTENTS",
		"1. Part one 2. Part two 3. Part three 4. Part four",
		"No person shall be deprived of life or liberty",
	)

	got := f.Filter(in)
	require.Len(t, got, 2)
	assert.Equal(t, in[0].Text, got[0].Text)
	assert.Equal(t, in[3].Text, got[1].Text)
}

func TestPassageFilter_PreservesRankOrder(t *testing.T) {
	f := NewPassageFilter(NewListingNoiseDetector(), DefaultMaxKeep)

	var texts []string
	for i := 0; i < 4; i++ {
		texts = append(texts, fmt.Sprintf("clause text %d", i))
	}

	got := f.Filter(passages(texts...))
	require.Len(t, got, 4)
	for i, p := range got {
		assert.Equal(t, texts[i], p.Text)
	}
}

func TestPassageFilter_TruncatesToMaxKeep(t *testing.T) {
	f := NewPassageFilter(NewListingNoiseDetector(), 2)

	got := f.Filter(passages("a", "b", "c", "d"))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.Equal(t, "b", got[1].Text)
}

func TestPassageFilter_FallbackWhenAllRejected(t *testing.T) {
	f := NewPassageFilter(NewListingNoiseDetector(), DefaultMaxKeep)

	in := passages("CONTENTS one", "CONTENTS two", "CONTENTS three", "CONTENTS four")
	got := f.Filter(in)

	// Fallback returns the head of the raw ranking, not the survivors.
	require.Len(t, got, 3)
	for i := range got {
		assert.Equal(t, in[i].Text, got[i].Text)
	}
}

func TestPassageFilter_FallbackShortInput(t *testing.T) {
	f := NewPassageFilter(NewListingNoiseDetector(), DefaultMaxKeep)

	in := passages("CONTENTS one", "CONTENTS two")
	got := f.Filter(in)
	require.Len(t, got, 2)
}

func TestPassageFilter_EmptyInput(t *testing.T) {
	f := NewPassageFilter(NewListingNoiseDetector(), DefaultMaxKeep)
	assert.Empty(t, f.Filter(nil))
	assert.Empty(t, f.Filter([]models.Passage{}))
}

func TestAssembleContext(t *testing.T) {
	in := passages("first passage", "second passage", "first passage")

	got := AssembleContext(in)
	assert.Equal(t, "first passage\n\nsecond passage\n\nfirst passage", got)
}

func TestAssembleContext_Empty(t *testing.T) {
	assert.Equal(t, "", AssembleContext(nil))
}
