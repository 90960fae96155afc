package tui

import "fmt"

// Canonical short status messages used across the app.
const (
	MsgRefreshing    = "Refreshing…"
	MsgRefreshBusy   = "A refresh is already running"
	MsgFirstSnapshot = "First snapshot captured"
	MsgResetDone     = "Snapshot cleared, next refresh starts fresh"
	MsgNoResults     = "No results"
	MsgSnapshotLost  = "Snapshot could not be saved"
	MsgOpeningVideo  = "Opening video…"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgRefreshSummary(videos, refreshesToday int) string {
	return fmt.Sprintf("Refreshed: %d uploads • %d today", videos, refreshesToday)
}
