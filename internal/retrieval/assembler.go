package retrieval

import (
	"strings"

	"github.com/aftab707/LegalAdvisor/pkg/models"
)

// AssembleContext joins passage texts into the context string handed to
// the generator. Order is preserved and nothing is deduplicated or
// truncated: near-duplicate passages (a clause and its containing
// article both matching) appear verbatim, and the upstream filter's
// maxKeep is the only size bound.
func AssembleContext(passages []models.Passage) string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}
