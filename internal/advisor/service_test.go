package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// mockEmbedder implements Embedder for testing
type mockEmbedder struct {
	embedFunc func(ctx context.Context, text string) ([]float32, error)
	calls     int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

// mockStore implements SearchStore for testing
type mockStore struct {
	searchFunc func(ctx context.Context, vector []float32, k int) ([]models.Passage, error)
	probeFunc  func(ctx context.Context) models.ProbeResult
	calls      int
	lastK      int
}

func (m *mockStore) SimilaritySearch(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
	m.calls++
	m.lastK = k
	if m.searchFunc != nil {
		return m.searchFunc(ctx, vector, k)
	}
	return nil, nil
}

func (m *mockStore) Probe(ctx context.Context) models.ProbeResult {
	if m.probeFunc != nil {
		return m.probeFunc(ctx)
	}
	return models.ProbeResult{Reachable: true, NonEmpty: true, Message: "Connection successful"}
}

// mockGenerator implements Generator for testing
type mockGenerator struct {
	generateFunc func(ctx context.Context, contextText, question string) (string, error)
	calls        int
	lastContext  string
}

func (m *mockGenerator) Generate(ctx context.Context, contextText, question string) (string, error) {
	m.calls++
	m.lastContext = contextText
	if m.generateFunc != nil {
		return m.generateFunc(ctx, contextText, question)
	}
	return "generated answer", nil
}

func newTestService(e *mockEmbedder, s *mockStore, g *mockGenerator) *Service {
	return NewService(DefaultServiceConfig(), e, s, g)
}

func rankedPassages(n int) []models.Passage {
	out := make([]models.Passage, n)
	for i := range out {
		out[i] = models.Passage{
			Text:     fmt.Sprintf("Clause %d: the state shall guarantee right %d", i, i),
			Metadata: map[string]interface{}{"page": i + 10},
		}
	}
	return out
}

func TestAnswer_EmptyQuestionMakesNoDownstreamCalls(t *testing.T) {
	e := &mockEmbedder{}
	s := &mockStore{}
	g := &mockGenerator{}
	svc := newTestService(e, s, g)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Answer(context.Background(), q)
		require.ErrorIs(t, err, ErrInvalidRequest)
	}

	assert.Zero(t, e.calls)
	assert.Zero(t, s.calls)
	assert.Zero(t, g.calls)
}

func TestAnswer_PipelineSuccess(t *testing.T) {
	e := &mockEmbedder{}
	s := &mockStore{
		searchFunc: func(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
			return rankedPassages(8), nil
		},
	}
	g := &mockGenerator{}
	svc := newTestService(e, s, g)

	result, err := svc.Answer(context.Background(), "What rights are guaranteed?")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "generated answer", result.Answer)
	assert.Equal(t, 25, s.lastK)

	// Sources mirror the filtered passages: capped at maxKeep, rank
	// order preserved.
	require.Len(t, result.Sources, 5)
	assert.Equal(t, 5, result.NumSources)
	for i, src := range result.Sources {
		assert.Contains(t, src.Content, fmt.Sprintf("Clause %d", i))
		assert.Equal(t, i+10, src.Metadata["page"])
		assert.Equal(t, i+10, src.Page)
	}

	// The generator context carries the same passages in the same order.
	for i := 0; i < 5; i++ {
		assert.Contains(t, g.lastContext, fmt.Sprintf("Clause %d", i))
	}
	assert.NotContains(t, g.lastContext, "Clause 5")
}

func TestAnswer_SourceTruncationIsCosmetic(t *testing.T) {
	long := strings.Repeat("constitutional provision ", 20) // > 200 chars
	e := &mockEmbedder{}
	s := &mockStore{
		searchFunc: func(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
			return []models.Passage{{Text: long, Metadata: map[string]interface{}{"page": 3}}}, nil
		},
	}
	g := &mockGenerator{}
	svc := newTestService(e, s, g)

	result, err := svc.Answer(context.Background(), "long passage?")
	require.NoError(t, err)

	require.Len(t, result.Sources, 1)
	assert.Len(t, []rune(strings.TrimSuffix(result.Sources[0].Content, "...")), 200)
	assert.True(t, strings.HasSuffix(result.Sources[0].Content, "..."))

	// The full text still reached the generator untruncated.
	assert.Contains(t, g.lastContext, long)
}

func TestAnswer_EmbeddingFailureReturnsStructuredResult(t *testing.T) {
	e := &mockEmbedder{embedFunc: func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("backend down")
	}}
	s := &mockStore{}
	g := &mockGenerator{}
	svc := newTestService(e, s, g)

	result, err := svc.Answer(context.Background(), "a question")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Answer, "An error occurred")
	assert.Contains(t, result.Error, "embedding failed")
	assert.Empty(t, result.Sources)
	assert.Zero(t, s.calls)
	assert.Zero(t, g.calls)
}

func TestAnswer_StoreFailureReturnsStructuredResult(t *testing.T) {
	e := &mockEmbedder{}
	s := &mockStore{searchFunc: func(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
		return nil, errors.New("connection refused")
	}}
	g := &mockGenerator{}
	svc := newTestService(e, s, g)

	result, err := svc.Answer(context.Background(), "a question")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "corpus store unavailable")
	assert.Zero(t, g.calls)
}

func TestAnswer_GenerationFailureReturnsStructuredResult(t *testing.T) {
	e := &mockEmbedder{}
	s := &mockStore{searchFunc: func(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
		return rankedPassages(2), nil
	}}
	g := &mockGenerator{generateFunc: func(ctx context.Context, contextText, question string) (string, error) {
		return "", errors.New("model timeout")
	}}
	svc := newTestService(e, s, g)

	result, err := svc.Answer(context.Background(), "a question")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "answer generation failed")
}

func TestAnswer_EmptyCorpusStillGenerates(t *testing.T) {
	e := &mockEmbedder{}
	s := &mockStore{}
	g := &mockGenerator{generateFunc: func(ctx context.Context, contextText, question string) (string, error) {
		// With no context the template instructs a refusal; the mock
		// plays the compliant model.
		if contextText == "" {
			return "I don't have enough information in the provided context to answer this question accurately.", nil
		}
		return "grounded answer", nil
	}}
	svc := newTestService(e, s, g)

	result, err := svc.Answer(context.Background(), "obscure question")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Contains(t, result.Answer, "don't have enough information")
	assert.Empty(t, result.Sources)
}

func TestAnswer_IndependentRepeatedCalls(t *testing.T) {
	e := &mockEmbedder{}
	s := &mockStore{searchFunc: func(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
		return rankedPassages(3), nil
	}}
	g := &mockGenerator{}
	svc := newTestService(e, s, g)

	first, err := svc.Answer(context.Background(), "same question")
	require.NoError(t, err)
	second, err := svc.Answer(context.Background(), "same question")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimilarPassages(t *testing.T) {
	long := strings.Repeat("fundamental rights ", 20)
	e := &mockEmbedder{}
	s := &mockStore{searchFunc: func(ctx context.Context, vector []float32, k int) ([]models.Passage, error) {
		return []models.Passage{
			{Text: "short clause"},
			{Text: long},
		}, nil
	}}
	g := &mockGenerator{}
	svc := newTestService(e, s, g)

	suggestions, err := svc.SimilarPassages(context.Background(), "rights", 2)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, "short clause", suggestions[0])
	assert.True(t, strings.HasSuffix(suggestions[1], "..."))
	assert.Len(t, []rune(strings.TrimSuffix(suggestions[1], "...")), 150)

	// The generator plays no part in suggestions.
	assert.Zero(t, g.calls)
}

func TestSimilarPassages_DefaultK(t *testing.T) {
	e := &mockEmbedder{}
	s := &mockStore{}
	g := &mockGenerator{}
	svc := newTestService(e, s, g)

	_, err := svc.SimilarPassages(context.Background(), "rights", 0)
	require.NoError(t, err)
	assert.Equal(t, 4, s.lastK)
}

func TestSimilarPassages_EmptyQuestion(t *testing.T) {
	svc := newTestService(&mockEmbedder{}, &mockStore{}, &mockGenerator{})

	_, err := svc.SimilarPassages(context.Background(), "  ", 3)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestHealth_UnreachableStore(t *testing.T) {
	s := &mockStore{probeFunc: func(ctx context.Context) models.ProbeResult {
		return models.ProbeResult{Reachable: false, NonEmpty: false, Message: "connection refused"}
	}}
	svc := newTestService(&mockEmbedder{}, s, &mockGenerator{})

	got := svc.Health(context.Background())
	assert.False(t, got.Reachable)
	assert.False(t, got.NonEmpty)
	assert.Equal(t, "connection refused", got.Message)
}
