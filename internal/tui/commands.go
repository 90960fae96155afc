package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/vidrank/internal/catalog"
	"github.com/pders01/vidrank/internal/format"
	"github.com/pders01/vidrank/internal/launcher"
)

func (a *App) refresh() tea.Cmd {
	a.refreshing = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report, err := a.tracker.Refresh(ctx)
		return reportMsg{report: report, err: err}
	}
}

// renderDetail builds the markdown detail page for one upload and runs
// it through glamour.
func (a *App) renderDetail(video *catalog.Video) tea.Cmd {
	return func() tea.Msg {
		now := a.clock()
		first := a.report == nil || a.report.FirstObservation()

		var content strings.Builder
		content.WriteString(fmt.Sprintf("# %s\n\n", video.Title))
		if video.IsShort {
			content.WriteString("*Short*\n\n")
		}
		content.WriteString(fmt.Sprintf("*Published %s (%s)*\n\n",
			format.Date(video.PublishedAt), format.RelativeTime(now, video.PublishedAt)))
		content.WriteString(fmt.Sprintf("[Watch](%s)\n\n", launcher.WatchURL(video.ID)))
		content.WriteString("---\n\n")

		content.WriteString(fmt.Sprintf("- **Rank:** #%d\n", video.CurrentRank))
		if !first {
			content.WriteString(fmt.Sprintf("- **Movement:** %s\n", format.RankChange(video.RankChange)))
			content.WriteString(fmt.Sprintf("- **Views:** %s (%s since last snapshot)\n",
				format.Count(video.Views), format.SignedCount(video.ViewsDelta)))
		} else {
			content.WriteString(fmt.Sprintf("- **Views:** %s\n", format.Count(video.Views)))
		}
		content.WriteString(fmt.Sprintf("- **Likes:** %s\n", format.Count(video.Likes)))
		content.WriteString(fmt.Sprintf("- **Length:** %s\n", format.Duration(video.Duration)))
		if video.Views > 0 {
			content.WriteString(fmt.Sprintf("- **Engagement:** %.2f%%\n",
				catalog.EngagementPct(video.Likes, video.Views)))
		}

		r, err := a.getRenderer()
		if err != nil {
			return detailRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(content.String())
		if err != nil {
			return detailRenderedMsg{content: fmt.Sprintf("# Error\n\nFailed to render detail: %s\n\nPress Escape to go back.", err.Error())}
		}

		return detailRenderedMsg{content: rendered}
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		searchResults, err := a.searcher.Search(query, 20)
		if err != nil {
			return errorMsg{err: err}
		}

		now := a.clock()
		first := a.report == nil || a.report.FirstObservation()

		var results []videoItem
		for _, sr := range searchResults {
			results = append(results, newVideoItem(sr.Video, now, first))
		}

		return searchResultsMsg{results: results}
	}
}

func (a *App) openVideo(video *catalog.Video) tea.Cmd {
	return func() tea.Msg {
		if err := a.launcher.OpenVideo(video.ID); err != nil {
			return errorMsg{err: err}
		}
		return nil
	}
}

func (a *App) doReset() tea.Cmd {
	return func() tea.Msg {
		return resetDoneMsg{err: a.tracker.Reset()}
	}
}
