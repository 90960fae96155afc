package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vidrank/internal/catalog"
)

func sampleCatalog() []catalog.Video {
	published := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []catalog.Video{
		catalog.NewVideo("v1", "Building a Keyboard From Scratch", "", 9000, 400, 620, published),
		catalog.NewVideo("v2", "Keyboard Switch Comparison", "", 5000, 200, 480, published),
		catalog.NewVideo("v3", "My Desk Setup Tour", "", 3000, 150, 300, published),
		catalog.NewVideo("v4", "Quick keyboard tip", "", 800, 30, 45, published),
	}
}

func TestSearchMinLength(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.IndexCatalog(sampleCatalog()))

	tests := []struct {
		name  string
		query string
	}{
		{name: "Empty query", query: ""},
		{name: "Single character query", query: "a"},
		{name: "Whitespace only", query: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := engine.Search(tt.query, 10)
			assert.NoError(t, err)
			assert.NotNil(t, results)
			assert.Equal(t, 0, len(results), "short queries should return empty results")
		})
	}
}

func TestSearchRanksTitleMatches(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.IndexCatalog(sampleCatalog()))

	results, err := engine.Search("keyboard", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Contains(t, []string{"v1", "v2", "v4"}, r.Video.ID)
		assert.Greater(t, r.Score, 0.0)
	}

	results, err = engine.Search("desk setup", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "v3", results[0].Video.ID, "all-terms match ranks first")
}

func TestSearchRespectsLimit(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.IndexCatalog(sampleCatalog()))

	results, err := engine.Search("keyboard", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchNoMatch(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.IndexCatalog(sampleCatalog()))

	results, err := engine.Search("nonexistent", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexCatalogReplacesPrevious(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.IndexCatalog(sampleCatalog()))

	published := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, engine.IndexCatalog([]catalog.Video{
		catalog.NewVideo("v9", "Soldering Basics", "", 100, 5, 700, published),
	}))

	results, err := engine.Search("keyboard", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "old catalog must not survive a reindex")

	results, err = engine.Search("soldering", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v9", results[0].Video.ID)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple words",
			input:    "hello world",
			expected: []string{"hello", "world"},
		},
		{
			name:     "with punctuation",
			input:    "hello, world! test.",
			expected: []string{"hello", "world", "test"},
		},
		{
			name:     "with numbers",
			input:    "test123 456hello",
			expected: []string{"test123", "456hello"},
		},
		{
			name:     "mixed case",
			input:    "Hello WORLD Test",
			expected: []string{"hello", "world", "test"},
		},
		{
			name:     "single characters filtered",
			input:    "a b test c d word",
			expected: []string{"test", "word"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tokenize(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestScoreTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		terms    []string
		minScore float64
	}{
		{
			name:     "exact match",
			title:    "hello world",
			terms:    []string{"hello"},
			minScore: 2.0,
		},
		{
			name:     "prefix match",
			title:    "hello world",
			terms:    []string{"hel"},
			minScore: 1.0,
		},
		{
			name:     "no match",
			title:    "hello world",
			terms:    []string{"xyz"},
			minScore: 0,
		},
		{
			name:     "empty title",
			title:    "",
			terms:    []string{"hello"},
			minScore: 0,
		},
		{
			name:     "multiple terms boosted",
			title:    "hello world test",
			terms:    []string{"hello", "test"},
			minScore: 4.0,
		},
		{
			name:     "case insensitive",
			title:    "HELLO WORLD",
			terms:    []string{"hello"},
			minScore: 2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := scoreTitle(tt.title, tt.terms)
			assert.GreaterOrEqual(t, score, tt.minScore)
		})
	}
}
