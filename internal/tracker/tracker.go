// Package tracker runs the refresh pipeline: fetch the full catalog,
// rank it, diff it against the previous snapshot, then persist the new
// baseline. One cycle is one sequential flow; the only stage allowed
// to fail it is the fetch.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pders01/vidrank/internal/catalog"
	"github.com/pders01/vidrank/internal/debuglog"
	"github.com/pders01/vidrank/internal/storage"
)

// ErrRefreshInFlight is returned when Refresh is called while another
// refresh for the same tracker is still running. Cycles are never
// interleaved; the caller decides whether to retry.
var ErrRefreshInFlight = errors.New("refresh already in flight")

// Source supplies one fully materialized catalog per call: the channel
// record plus every video with its stats. Implementations must treat a
// partial drain as a failure; the tracker never ranks a truncated
// catalog.
type Source interface {
	Fetch(ctx context.Context) (catalog.Channel, []catalog.Video, error)
}

// Clock supplies the current time. Injected so snapshot timestamps,
// day boundaries and relative ages are testable with fixed values.
type Clock func() time.Time

// Tracker owns the per-channel refresh state. All session state lives
// here, handed to whoever constructed it; nothing is process-global.
type Tracker struct {
	source    Source
	store     *storage.Store
	channelID string
	clock     Clock
	location  *time.Location
	inFlight  atomic.Bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock, used by tests.
func WithClock(clock Clock) Option {
	return func(t *Tracker) { t.clock = clock }
}

// WithLocation sets the timezone whose midnight resets the daily
// refresh counter.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.location = loc }
}

func New(source Source, store *storage.Store, channelID string, opts ...Option) *Tracker {
	t := &Tracker{
		source:    source,
		store:     store,
		channelID: channelID,
		clock:     time.Now,
		location:  time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Refresh runs one complete cycle and returns the report for
// rendering. On fetch failure nothing is ranked and nothing is
// persisted: the previous snapshot and whatever the caller last
// rendered stay untouched. A snapshot save failure is logged and
// reported on the Report but does not fail the cycle; it only costs
// the next run its baseline.
func (t *Tracker) Refresh(ctx context.Context) (*Report, error) {
	if !t.inFlight.CompareAndSwap(false, true) {
		return nil, ErrRefreshInFlight
	}
	defer t.inFlight.Store(false)

	prev, err := t.store.LoadSnapshot(t.channelID)
	if err != nil {
		// Treated like corruption: log and run as first observation.
		debuglog.Warnf("loading snapshot for %s: %v", t.channelID, err)
		prev = nil
	}

	channel, videos, err := t.source.Fetch(ctx)
	if err != nil {
		debuglog.WithFields(map[string]interface{}{"channel": t.channelID}).
			Errorf("refresh aborted: %v", err)
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}

	ranked := catalog.Rank(videos)
	ranked = catalog.ApplyMovement(ranked, prev.PriorVideos())

	totalLikes := catalog.TotalLikes(ranked)
	now := t.clock()

	report := &Report{
		Channel:       channel,
		Videos:        ranked,
		ChannelDiff:   catalog.DiffChannel(channel, totalLikes, prev.PriorChannel()),
		TotalLikes:    totalLikes,
		AvgViews:      channel.AvgViews(),
		EngagementPct: catalog.EngagementPct(totalLikes, channel.TotalViews),
		FetchedAt:     now,
	}
	if prev != nil {
		report.PrevTimestamp = prev.Timestamp
	}

	snap := storage.NewSnapshot(now, channel, ranked)
	if err := t.store.SaveSnapshot(t.channelID, snap); err != nil {
		debuglog.Errorf("persisting snapshot for %s: %v", t.channelID, err)
		report.SaveErr = err
		return report, nil
	}

	stats, err := t.store.BumpRefreshCount(t.channelID, t.day(now), now)
	if err != nil {
		debuglog.Warnf("recording refresh for %s: %v", t.channelID, err)
	} else {
		report.RefreshStats = stats
	}

	return report, nil
}

// Reset drops the channel's persisted baseline, so the next refresh
// runs as a first observation.
func (t *Tracker) Reset() error {
	return t.store.DeleteSnapshot(t.channelID)
}

// RefreshStats reads the daily refresh counters without running a
// cycle. A counter from a previous day reads as zero.
func (t *Tracker) RefreshStats() (storage.RefreshStats, error) {
	stats, err := t.store.RefreshStats(t.channelID)
	if err != nil {
		return storage.RefreshStats{}, err
	}
	if stats.Day != t.day(t.clock()) {
		return storage.RefreshStats{Day: t.day(t.clock())}, nil
	}
	return stats, nil
}

// day renders the current date in the configured timezone; the counter
// resets when this value rolls over.
func (t *Tracker) day(now time.Time) string {
	return now.In(t.location).Format("2006-01-02")
}
