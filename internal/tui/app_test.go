package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vidrank/internal/catalog"
	"github.com/pders01/vidrank/internal/config"
	"github.com/pders01/vidrank/internal/launcher"
	"github.com/pders01/vidrank/internal/search"
	"github.com/pders01/vidrank/internal/storage"
	"github.com/pders01/vidrank/internal/tracker"
)

type stubSource struct {
	channel catalog.Channel
	videos  []catalog.Video
}

func (s *stubSource) Fetch(ctx context.Context) (catalog.Channel, []catalog.Video, error) {
	return s.channel, s.videos, nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	src := &stubSource{
		channel: catalog.Channel{ID: "UCtest", Name: "Test Channel", Subscribers: 1000, TotalViews: 50000, TotalVideos: 3},
		videos: []catalog.Video{
			catalog.NewVideo("v1", "Big hit", "", 9000, 300, 600, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
			catalog.NewVideo("v2", "Mid video", "", 4000, 100, 300, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
			catalog.NewVideo("v3", "Tiny short", "", 500, 50, 40, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)),
		},
	}

	tr := tracker.New(src, store, "UCtest", tracker.WithLocation(time.UTC))

	app := NewApp(tr, search.NewEngine(), launcher.New(nil), config.TestConfig())
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return model.(*App)
}

func refreshedApp(t *testing.T) *App {
	t.Helper()
	app := newTestApp(t)

	cmd := app.refresh()
	msg := cmd()
	model, _ := app.Update(msg)
	return model.(*App)
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, ViewRanking, app.view)
	assert.Equal(t, FilterAll, app.filter)
	assert.Equal(t, SortRank, app.sortField)
	assert.NotNil(t, app.keyHandler)
}

func TestReportMsgPopulatesRanking(t *testing.T) {
	app := refreshedApp(t)

	require.NotNil(t, app.report)
	assert.Len(t, app.videoList.Items(), 3)
	assert.Equal(t, MsgFirstSnapshot, app.status)
	assert.Contains(t, app.videoList.Title, "Test Channel")

	// Catalog is indexed for search after each refresh
	results, err := app.searcher.Search("big", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestFilterCycleHidesShorts(t *testing.T) {
	app := refreshedApp(t)

	model, _ := app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	app = model.(*App)
	assert.Equal(t, FilterVideos, app.filter)
	assert.Len(t, app.videoList.Items(), 2, "shorts hidden")

	model, _ = app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	app = model.(*App)
	assert.Equal(t, FilterShorts, app.filter)
	assert.Len(t, app.videoList.Items(), 1)

	model, _ = app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	app = model.(*App)
	assert.Equal(t, FilterAll, app.filter)
	assert.Len(t, app.videoList.Items(), 3)
}

func TestSortCycleReordersDisplay(t *testing.T) {
	app := refreshedApp(t)

	// rank → likes → newest
	model, _ := app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	app = model.(*App)
	model, _ = app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	app = model.(*App)
	assert.Equal(t, SortNewest, app.sortField)

	items := app.videoList.Items()
	require.NotEmpty(t, items)
	first := items[0].(videoItem)
	assert.Equal(t, "v3", first.video.ID, "newest upload first")
	// Stored rank is untouched by display sorting
	assert.Equal(t, 3, first.video.CurrentRank)
}

func TestSearchViewTransition(t *testing.T) {
	app := refreshedApp(t)

	model, _ := app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	app = model.(*App)
	assert.Equal(t, ViewSearch, app.view)
	assert.True(t, app.searchInput.Focused())

	model, _ = app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	assert.Equal(t, ViewRanking, app.view)
}

func TestEnterOpensDetail(t *testing.T) {
	app := refreshedApp(t)

	model, cmd := app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	assert.Equal(t, ViewDetail, app.view)
	require.NotNil(t, app.currentVideo)
	assert.Equal(t, "v1", app.currentVideo.ID, "top-ranked upload selected by default")
	require.NotNil(t, cmd)

	// Rendering completes and fills the viewport
	msg := cmd()
	model, _ = app.Update(msg)
	app = model.(*App)
	assert.NotEmpty(t, app.viewport.View())

	model, _ = app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	assert.Equal(t, ViewRanking, app.view)
	assert.Nil(t, app.currentVideo)
}

func TestResetConfirmFlow(t *testing.T) {
	app := refreshedApp(t)

	model, _ := app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	app = model.(*App)
	assert.Equal(t, ViewResetConfirm, app.view)

	// Esc cancels
	model, _ = app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	assert.Equal(t, ViewRanking, app.view)

	// Enter confirms
	model, _ = app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	app = model.(*App)
	model, cmd := app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	require.NotNil(t, cmd)

	msg := cmd()
	model, _ = app.Update(msg)
	app = model.(*App)
	assert.Equal(t, ViewRanking, app.view)
	assert.Equal(t, MsgResetDone, app.status)
}

func TestQuitKey(t *testing.T) {
	app := refreshedApp(t)

	_, cmd := app.keyHandler.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestVideoItemRendering(t *testing.T) {
	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	v := catalog.Video{
		ID: "v1", Title: "Big hit", Views: 9500, Likes: 300, Duration: 600,
		PublishedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CurrentRank: 1, RankChange: 2, ViewsDelta: 500,
	}

	item := newVideoItem(v, now, false)
	assert.Contains(t, item.Title(), "#1")
	assert.Contains(t, item.Title(), "Big hit")
	assert.Contains(t, item.Title(), "+2")
	assert.Contains(t, item.desc, "9.5K views")
	assert.Contains(t, item.desc, "(+500)")
	assert.Equal(t, "Big hit", item.FilterValue())

	// First observation hides movement
	first := newVideoItem(v, now, true)
	assert.NotContains(t, first.desc, "(+500)")
}

func TestFilterAndSortLabels(t *testing.T) {
	assert.Equal(t, "all", FilterAll.String())
	assert.Equal(t, "videos", FilterVideos.String())
	assert.Equal(t, "shorts", FilterShorts.String())
	assert.Equal(t, FilterAll, FilterShorts.Next())

	assert.Equal(t, "rank", SortRank.String())
	assert.Equal(t, SortRank, SortDuration.Next())
}

func TestTruncateEnd(t *testing.T) {
	assert.Equal(t, "", truncateEnd("hello", 0))
	assert.Equal(t, "hello", truncateEnd("hello", 5))
	assert.Equal(t, "hell…", truncateEnd("hello world", 5))
	assert.Equal(t, "…", truncateEnd("hello", 1))
}
