package search

import "github.com/pders01/vidrank/internal/catalog"

// Result is one search hit over the current catalog.
type Result struct {
	Video catalog.Video
	Score float64
}

// Searcher is the minimal search API the TUI uses. IndexCatalog is
// called after every refresh with the full ranked catalog; Search
// queries whatever was indexed last.
type Searcher interface {
	IndexCatalog(videos []catalog.Video) error
	Search(query string, limit int) ([]*Result, error)
}
