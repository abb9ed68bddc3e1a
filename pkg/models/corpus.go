package models

// Corpus node labels. The containment hierarchy is
// Part -> Chapter -> Article -> Clause -> SubClause.
const (
	LabelPart      = "Part"
	LabelChapter   = "Chapter"
	LabelArticle   = "Article"
	LabelClause    = "Clause"
	LabelSubClause = "SubClause"
)

// Containment relationship types, one per hierarchy level.
const (
	RelHasChapter   = "HAS_CHAPTER"
	RelHasArticle   = "HAS_ARTICLE"
	RelHasClause    = "HAS_CLAUSE"
	RelHasSubClause = "HAS_SUBCLAUSE"
)

// CorpusPart mirrors one top-level part of the source document JSON.
type CorpusPart struct {
	PartName string                   `json:"part_name"`
	PartPage *int                     `json:"part_page_number"`
	Chapters map[string]CorpusChapter `json:"chapters"`
}

// CorpusChapter is one chapter within a part. The map key under which a
// chapter appears in the JSON is its natural name.
type CorpusChapter struct {
	ChapterTitle string          `json:"chapter_title"`
	ChapterPage  *int            `json:"chapter_page_number"`
	Articles     []CorpusArticle `json:"articles"`
}

// CorpusArticle is one article, unique by title within the corpus.
type CorpusArticle struct {
	Title   string        `json:"title"`
	Page    *int          `json:"page"`
	Content CorpusContent `json:"content"`
}

// CorpusContent holds the clause list of an article.
type CorpusContent struct {
	Clauses []CorpusClause `json:"clauses"`
}

// CorpusClause is one clause. Clause numbers repeat across articles, so a
// clause is only unique by (number, owning article title).
type CorpusClause struct {
	ClauseNumber string            `json:"clause_number"`
	ClauseText   string            `json:"clause_text"`
	SubClauses   []CorpusSubClause `json:"sub_clauses"`
}

// CorpusSubClause is one sub-clause beneath a clause.
type CorpusSubClause struct {
	SubClauseNumber string `json:"sub_clause_number"`
	SubClauseText   string `json:"sub_clause_text"`
}
