// Package format turns raw counters, durations and timestamps into
// display-ready strings and direction classifications. Everything here
// is pure; callers pass the reference time in so nothing depends on
// the wall clock.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Direction classifies a signed movement or growth value.
type Direction int

const (
	DirectionSame Direction = iota
	DirectionUp
	DirectionDown
)

// Classify maps a signed delta to its direction.
func Classify(delta int64) Direction {
	switch {
	case delta > 0:
		return DirectionUp
	case delta < 0:
		return DirectionDown
	default:
		return DirectionSame
	}
}

// Arrow returns the glyph used next to movement values.
func (d Direction) Arrow() string {
	switch d {
	case DirectionUp:
		return "▲"
	case DirectionDown:
		return "▼"
	default:
		return "–"
	}
}

// Count abbreviates a counter: 1.2K, 3.4M, with the trailing .0
// stripped (1000 → 1K, not 1.0K). Negative values keep their sign.
func Count(n int64) string {
	abs := n
	sign := ""
	if n < 0 {
		abs = -n
		sign = "-"
	}

	switch {
	case abs >= 1_000_000:
		return sign + trimZero(float64(abs)/1_000_000) + "M"
	case abs >= 1_000:
		return sign + trimZero(float64(abs)/1_000) + "K"
	default:
		return fmt.Sprintf("%s%d", sign, abs)
	}
}

func trimZero(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

// SignedCount is Count with an explicit + on positive values, used for
// deltas where "12" and "+12" read differently.
func SignedCount(n int64) string {
	if n > 0 {
		return "+" + Count(n)
	}
	return Count(n)
}

// RankChange renders a movement value: "+3", "-2" or "0".
func RankChange(change int) string {
	if change > 0 {
		return fmt.Sprintf("+%d", change)
	}
	return fmt.Sprintf("%d", change)
}

// Duration renders seconds as m:ss, or h:mm:ss for hour-plus videos.
func Duration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// GrowthLabel describes a channel-level delta, e.g. "+1.2K subs".
// Zero reads as "no change"; the caller handles the first-observation
// case where there is no delta at all.
func GrowthLabel(delta int64, noun string) string {
	if delta == 0 {
		return "no change"
	}
	return SignedCount(delta) + " " + noun
}

// RelativeTime renders a compact age: "now", "35m ago", "6h ago",
// "12d", "3m 4d", "2y ago". Calendar months and years, not fixed-size
// approximations, so a video from the 31st doesn't jump a month early.
func RelativeTime(now, past time.Time) string {
	if past.IsZero() {
		return "—"
	}
	if past.After(now) {
		return "future"
	}

	years := now.Year() - past.Year()
	months := int(now.Month()) - int(past.Month())
	days := now.Day() - past.Day()

	if days < 0 {
		months--
		// Days in the month preceding now.
		lastDay := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location()).Day()
		days += lastDay
	}
	if months < 0 {
		years--
		months += 12
	}

	if years == 0 && months == 0 && days == 0 {
		diff := now.Sub(past)
		hours := int(diff.Hours())
		mins := int(diff.Minutes()) % 60
		if hours > 0 {
			return fmt.Sprintf("%dh ago", hours)
		}
		if mins > 0 {
			return fmt.Sprintf("%dm ago", mins)
		}
		return "now"
	}

	if years >= 1 {
		return fmt.Sprintf("%dy ago", years)
	}
	if months >= 1 {
		if days > 0 {
			return fmt.Sprintf("%dm %dd", months, days)
		}
		return fmt.Sprintf("%dm", months)
	}
	return fmt.Sprintf("%dd", days)
}

// Date renders a timestamp the way the ranking table shows publish
// dates in tooltips: "Feb 2, 2026".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
