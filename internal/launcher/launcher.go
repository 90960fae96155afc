// Package launcher opens videos from the ranking view in an external
// player or the system browser.
package launcher

import (
	"fmt"
	"os/exec"
)

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ChannelURL builds the public channel page URL.
func ChannelURL(channelID string) string {
	return "https://www.youtube.com/channel/" + channelID
}

type Launcher struct {
	player   string
	registry *Registry
}

// New builds a launcher. preferred lists players in priority order; the
// first one installed wins, then the platform's default opener.
func New(preferred []string) *Launcher {
	registry, err := NewRegistry()
	if err != nil {
		// Continue with basic functionality if opener definitions can't be loaded
		registry = &Registry{
			openers:   make(map[string]OpenerDefinition),
			platforms: make(map[string]PlatformConfig),
		}
	}

	player := registry.FindAvailable(preferred)
	if player == "" {
		player = registry.DefaultOpener()
	}

	return &Launcher{player: player, registry: registry}
}

// OpenVideo launches the configured player on a video's watch URL,
// detached so the TUI keeps running.
func (l *Launcher) OpenVideo(videoID string) error {
	return l.open(WatchURL(videoID))
}

// OpenChannel opens the channel page in the default opener.
func (l *Launcher) OpenChannel(channelID string) error {
	return l.open(ChannelURL(channelID))
}

func (l *Launcher) open(url string) error {
	if l.player == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd, err := l.registry.Command(l.player, url)
	if err != nil {
		cmd = exec.Command(l.player, url)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.player, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
