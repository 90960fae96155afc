package search

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/pders01/vidrank/internal/catalog"
)

// Engine is the default searcher: weighted substring scoring over
// video titles, no index on disk. Good enough for catalogs of a few
// thousand uploads and zero setup cost.
type Engine struct {
	mu     sync.RWMutex
	videos []catalog.Video
}

func NewEngine() *Engine {
	return &Engine{}
}

// IndexCatalog replaces the searchable catalog.
func (e *Engine) IndexCatalog(videos []catalog.Video) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.videos = videos
	return nil
}

// Search scores every video title against the query terms and returns
// the best hits, highest score first. Queries shorter than two
// characters return nothing rather than everything.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var results []*Result
	for _, v := range e.videos {
		if score := scoreTitle(v.Title, terms); score > 0 {
			results = append(results, &Result{Video: v, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func scoreTitle(title string, terms []string) float64 {
	if title == "" {
		return 0
	}

	lower := strings.ToLower(title)
	words := tokenize(title)

	var score float64
	matched := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
			case strings.HasPrefix(word, term):
				score += 1.0
			case strings.Contains(word, term):
				score += 0.5
			}
		}
	}

	// All-terms matches outrank partial matches.
	if len(terms) > 1 && matched == len(terms) {
		score *= 2
	}

	return score
}

// tokenize splits text into lowercase terms, dropping single runes.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return terms
}
