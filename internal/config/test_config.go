package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Channel: ChannelConfig{
			ID:     "UCtest",
			Source: "api",
		},
		Database: DatabaseConfig{
			Path:    ":memory:", // Use in-memory database for tests
			Timeout: 1 * time.Second,
		},
		Tracker: TrackerConfig{
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "vidrank-test/1.0",
			Timezone:    "UTC",
		},
		UI: defaultConfig().UI,
	}
}
