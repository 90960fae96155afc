package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRank_OrdersByViewsDescending(t *testing.T) {
	videos := []Video{
		{ID: "low", Views: 10, PublishedAt: date("2024-03-01")},
		{ID: "high", Views: 5000, PublishedAt: date("2023-01-01")},
		{ID: "mid", Views: 700, PublishedAt: date("2024-06-01")},
	}

	ranked := Rank(videos)

	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].ID)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, "low", ranked[2].ID)
}

func TestRank_AssignsContiguousRanks(t *testing.T) {
	videos := []Video{
		{ID: "a", Views: 100},
		{ID: "b", Views: 100},
		{ID: "c", Views: 50},
		{ID: "d", Views: 900},
		{ID: "e", Views: 0},
	}

	ranked := Rank(videos)

	seen := make(map[int]bool)
	for i, v := range ranked {
		assert.Equal(t, i+1, v.CurrentRank, "rank must match position")
		assert.False(t, seen[v.CurrentRank], "rank %d repeated", v.CurrentRank)
		seen[v.CurrentRank] = true
	}
	// Higher views always rank strictly above lower views.
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Views, ranked[i].Views)
	}
}

func TestRank_TieBreaksByPublishedAtNewestFirst(t *testing.T) {
	videos := []Video{
		{ID: "A", Views: 100, PublishedAt: date("2024-01-01")},
		{ID: "B", Views: 100, PublishedAt: date("2024-06-01")},
	}

	ranked := Rank(videos)

	assert.Equal(t, "B", ranked[0].ID, "newer upload wins the tie")
	assert.Equal(t, "A", ranked[1].ID)
}

func TestRank_TieBreakAppliesAtZeroViews(t *testing.T) {
	videos := []Video{
		{ID: "older", Views: 0, PublishedAt: date("2022-01-01")},
		{ID: "newer", Views: 0, PublishedAt: date("2025-01-01")},
	}

	ranked := Rank(videos)

	assert.Equal(t, "newer", ranked[0].ID)
}

func TestRank_EqualKeysPreserveInputOrder(t *testing.T) {
	ts := date("2024-05-05")
	videos := []Video{
		{ID: "first", Views: 42, PublishedAt: ts},
		{ID: "second", Views: 42, PublishedAt: ts},
		{ID: "third", Views: 42, PublishedAt: ts},
	}

	ranked := Rank(videos)

	assert.Equal(t, []string{"first", "second", "third"},
		[]string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRank_EmptyCatalog(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]Video{}))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	videos := []Video{
		{ID: "a", Views: 1},
		{ID: "b", Views: 2},
	}

	Rank(videos)

	assert.Equal(t, "a", videos[0].ID)
	assert.Zero(t, videos[0].CurrentRank)
}
