// Package render produces the static, non-interactive views of a
// refresh report: the channel summary, the ranking table and the top
// video card. The TUI has its own live rendering; this package serves
// the one-shot CLI paths.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/vidrank/internal/catalog"
	"github.com/pders01/vidrank/internal/format"
	"github.com/pders01/vidrank/internal/tracker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EAEAEA")).
			Bold(true)

	upStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	sameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 2)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Faint(true)
)

// movement renders a delta with its direction arrow in the matching
// color.
func movement(delta int64) string {
	dir := format.Classify(delta)
	text := dir.Arrow() + " " + format.SignedCount(delta)
	switch dir {
	case format.DirectionUp:
		return upStyle.Render(text)
	case format.DirectionDown:
		return downStyle.Render(text)
	default:
		return sameStyle.Render(text)
	}
}

// Summary renders the channel header box: identity, counters, and the
// deltas against the previous snapshot. The first observation shows a
// baseline note instead of deltas.
func Summary(report *tracker.Report, now time.Time) string {
	ch := report.Channel

	var b strings.Builder
	b.WriteString(headerStyle.Render(ch.Name))
	if ch.Handle != "" {
		b.WriteString(" " + labelStyle.Render(ch.Handle))
	}
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label+":"), value))
	}

	if report.FirstObservation() {
		row("Subscribers", valueStyle.Render(format.Count(ch.Subscribers)))
		row("Total views", valueStyle.Render(format.Count(ch.TotalViews)))
		row("Total likes", valueStyle.Render(format.Count(report.TotalLikes)))
		b.WriteString("\n" + mutedStyle.Render("First snapshot: deltas appear on the next refresh"))
	} else {
		diff := report.ChannelDiff
		row("Subscribers", valueStyle.Render(format.Count(ch.Subscribers))+"  "+movement(diff.Subscribers))
		row("Total views", valueStyle.Render(format.Count(ch.TotalViews))+"  "+movement(diff.Views))
		row("Total likes", valueStyle.Render(format.Count(report.TotalLikes))+"  "+movement(diff.Likes))
		b.WriteString("\n" + mutedStyle.Render("Since "+format.RelativeTime(now, report.PrevTimestamp)))
	}

	b.WriteString("\n")
	row("Videos", valueStyle.Render(format.Count(int64(ch.TotalVideos))))
	row("Avg views", valueStyle.Render(format.Count(report.AvgViews)))
	row("Engagement", valueStyle.Render(fmt.Sprintf("%.2f%%", report.EngagementPct)))

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Table renders the ranked catalog, one row per video. Movement
// columns stay blank on the first observation.
func Table(report *tracker.Report, now time.Time) string {
	if len(report.Videos) == 0 {
		return mutedStyle.Render("No uploads found.")
	}

	first := report.FirstObservation()

	var b strings.Builder
	header := fmt.Sprintf("%4s  %-44s %8s %8s %6s %9s  %s",
		"#", "TITLE", "VIEWS", "ΔVIEWS", "MOVE", "LENGTH", "AGE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, v := range report.Videos {
		deltaViews, move := "", ""
		if !first {
			deltaViews = format.SignedCount(v.ViewsDelta)
			move = rankMovement(v)
		}

		b.WriteString(fmt.Sprintf("%4d  %-44s %8s %8s %6s %9s  %s\n",
			v.CurrentRank,
			truncate(v.Title, 44, v.IsShort),
			format.Count(v.Views),
			deltaViews,
			move,
			format.Duration(v.Duration),
			format.RelativeTime(now, v.PublishedAt),
		))
	}

	return strings.TrimRight(b.String(), "\n")
}

func rankMovement(v catalog.Video) string {
	dir := format.Classify(int64(v.RankChange))
	text := dir.Arrow() + format.RankChange(v.RankChange)
	switch dir {
	case format.DirectionUp:
		return upStyle.Render(text)
	case format.DirectionDown:
		return downStyle.Render(text)
	default:
		return sameStyle.Render(text)
	}
}

// TopVideoCard renders the current number one upload, or an empty
// string for an empty catalog.
func TopVideoCard(report *tracker.Report, now time.Time) string {
	top, ok := report.TopVideo()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Top video") + "\n")
	b.WriteString(valueStyle.Render(top.Title) + "\n")
	b.WriteString(fmt.Sprintf("%s views · %s likes · %s · %s\n",
		format.Count(top.Views),
		format.Count(top.Likes),
		format.Duration(top.Duration),
		format.Date(top.PublishedAt)))
	if !report.FirstObservation() {
		b.WriteString(labelStyle.Render("views ") + movement(top.ViewsDelta))
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Report renders the full one-shot view: summary, top video, table,
// and the refresh footer.
func Report(report *tracker.Report, now time.Time) string {
	sections := []string{
		Summary(report, now),
		TopVideoCard(report, now),
		Table(report, now),
		footer(report),
	}

	var nonEmpty []string
	for _, s := range sections {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

func footer(report *tracker.Report) string {
	text := fmt.Sprintf("Refreshed %s · %d today", format.Date(report.FetchedAt), report.RefreshStats.Count)
	if report.SaveErr != nil {
		text += " · " + downStyle.Render("snapshot not saved: "+report.SaveErr.Error())
	}
	return mutedStyle.Render(text)
}

func truncate(text string, maxLen int, short bool) string {
	if short {
		// Leave room for the shorts tag.
		maxLen -= 8
	}
	runes := []rune(text)
	if len(runes) > maxLen {
		text = string(runes[:maxLen-1]) + "…"
	}
	if short {
		text += " [short]"
	}
	return text
}
