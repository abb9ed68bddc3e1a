package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_ContainsContextAndQuestion(t *testing.T) {
	got := buildPrompt("Article 19: freedom of speech.", "What does Article 19 guarantee?")

	assert.Contains(t, got, "Article 19: freedom of speech.")
	assert.Contains(t, got, "What does Article 19 guarantee?")

	// Context must come before the question so the model reads it first.
	assert.Less(t,
		strings.Index(got, "Article 19: freedom of speech."),
		strings.Index(got, "What does Article 19 guarantee?"))
}

func TestBuildPrompt_PolicyBranches(t *testing.T) {
	got := buildPrompt("", "hello")

	// All three instruction branches must be present in every prompt:
	// greeting redirect, language restriction, and the grounded-only
	// rule with its fixed refusal sentence.
	assert.Contains(t, got, "only a greeting")
	assert.Contains(t, got, LanguageRefusalText)
	assert.Contains(t, got, RefusalText)
	assert.Contains(t, got, "Do NOT use prior knowledge")
}

func TestBuildPrompt_EmptyContext(t *testing.T) {
	got := buildPrompt("", "What is the rule?")
	assert.Contains(t, got, "Context:\n\n")
}
