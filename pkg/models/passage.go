package models

// Passage is a retrieved unit of corpus text plus its metadata. Passages
// are transient: they exist only in the result of a similarity search and
// are never persisted on their own.
type Passage struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Score    float64                `json:"score"`
}

// Page returns the page reference from the passage metadata, or "N/A"
// when the source node carries no page number.
func (p Passage) Page() interface{} {
	if p.Metadata == nil {
		return "N/A"
	}
	if page, ok := p.Metadata["page"]; ok && page != nil {
		return page
	}
	return "N/A"
}

// Source is a citation entry returned alongside an answer. Content is a
// preview of the passage text, truncated for display only.
type Source struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
	Page     interface{}            `json:"page"`
}

// QueryResult is the outcome of one full retrieve-and-generate cycle.
type QueryResult struct {
	Answer     string   `json:"answer"`
	Sources    []Source `json:"sources"`
	Success    bool     `json:"success"`
	NumSources int      `json:"num_sources"`
	Error      string   `json:"error,omitempty"`
}

// ProbeResult reports the live state of the vector index.
type ProbeResult struct {
	Reachable bool   `json:"reachable"`
	NonEmpty  bool   `json:"non_empty"`
	Message   string `json:"message"`
}
