package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/vidrank/internal/config"
	"github.com/pders01/vidrank/internal/debuglog"
	"github.com/pders01/vidrank/internal/launcher"
	"github.com/pders01/vidrank/internal/render"
	"github.com/pders01/vidrank/internal/resolve"
	"github.com/pders01/vidrank/internal/rssfeed"
	"github.com/pders01/vidrank/internal/search"
	"github.com/pders01/vidrank/internal/storage"
	"github.com/pders01/vidrank/internal/tracker"
	"github.com/pders01/vidrank/internal/tui"
	"github.com/pders01/vidrank/internal/validation"
	"github.com/pders01/vidrank/internal/youtube"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfig  string
	flagDB      string
	flagChannel string
	flagAPIKey  string
	flagSource  string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vidrank",
	Short: "Track and rank a channel's uploads between snapshots",
	Long: `vidrank fetches a channel's full upload catalog, ranks it by views,
and diffs every refresh against the previous snapshot: rank movement,
view deltas and channel growth, in an interactive terminal UI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !flagQuiet {
			tui.ShowBanner(Version)
		}

		tr, store, err := buildTracker(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		searcher, err := buildSearcher(cfg)
		if err != nil {
			debuglog.Warnf("bleve index unavailable, using basic search: %v", err)
			searcher = search.NewEngine()
		}

		app := tui.NewApp(tr, searcher, launcher.New([]string{"mpv", "iina", "vlc"}), cfg)
		p := tea.NewProgram(app, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running UI: %w", err)
		}
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one refresh cycle and print the ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, cleanup, err := runRefresh()
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Println(render.Report(report, time.Now()))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run one refresh cycle and emit the report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, cleanup, err := runRefresh()
		if err != nil {
			return err
		}
		defer cleanup()

		return render.ExportJSON(os.Stdout, report)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop the stored snapshot so the next refresh starts fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		tr, store, err := buildTracker(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := tr.Reset(); err != nil {
			return fmt.Errorf("resetting snapshot: %w", err)
		}
		fmt.Println("Snapshot cleared.")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default config file",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "vidrank", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			log.Fatalf("Failed to generate config: %v", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vidrank %s\n", Version)
		fmt.Println("Channel catalog tracker")
		fmt.Println("github.com/pders01/vidrank")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Path to database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagChannel, "channel", "", "Channel ID or @handle (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "Data API key (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Catalog source: api or rss (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Skip startup banner")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(refreshCmd, exportCmd, resetCmd, configCmd, versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagDB != "" {
		cfg.Database.Path = flagDB
	}
	if flagChannel != "" {
		cfg.Channel.ID = flagChannel
	}
	if flagAPIKey != "" {
		cfg.Channel.APIKey = flagAPIKey
	}
	if flagSource != "" {
		cfg.Channel.Source = flagSource
	}

	level := debuglog.LevelWarn
	if flagVerbose {
		level = debuglog.LevelDebug
	}
	if err := debuglog.Setup(level); err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	return cfg, nil
}

// resolveChannel turns the configured reference (UC id or @handle)
// into a canonical channel ID.
func resolveChannel(cfg *config.Config) (string, error) {
	ref := strings.TrimSpace(cfg.Channel.ID)
	if ref == "" {
		return "", fmt.Errorf("no channel configured: set channel.id or pass --channel")
	}

	registry := resolve.NewRegistry(cfg.Tracker.HTTPTimeout)
	registry.Register(resolve.NewIDResolver())
	if cfg.Channel.APIKey != "" {
		registry.Register(resolve.NewHandleResolver(cfg.Channel.APIKey))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Tracker.HTTPTimeout)
	defer cancel()

	info, err := registry.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolving channel %q: %w", ref, err)
	}
	return info.ChannelID, nil
}

func buildTracker(cfg *config.Config) (*tracker.Tracker, *storage.Store, error) {
	channelID, err := resolveChannel(cfg)
	if err != nil {
		return nil, nil, err
	}

	var source tracker.Source
	switch cfg.Channel.Source {
	case "", "api":
		if keyErr := validation.ValidateAPIKey(cfg.Channel.APIKey); keyErr != nil {
			return nil, nil, fmt.Errorf("api source needs a key (or use --source rss): %w", keyErr)
		}
		source = youtube.NewClient(cfg.Channel.APIKey, channelID, cfg.Tracker.HTTPTimeout,
			youtube.WithUserAgent(cfg.Tracker.UserAgent))
	case "rss":
		source = rssfeed.NewSource(channelID, cfg.Tracker.HTTPTimeout)
	default:
		return nil, nil, fmt.Errorf("unknown source %q: want api or rss", cfg.Channel.Source)
	}

	paths := validation.NewPermissivePathHandler()
	dbPath, err := paths.DBPath(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("database path: %w", err)
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	tr := tracker.New(source, store, channelID, tracker.WithLocation(cfg.Location()))
	return tr, store, nil
}

func buildSearcher(cfg *config.Config) (search.Searcher, error) {
	paths := validation.NewPermissivePathHandler()
	indexPath, err := paths.IndexPath(cfg.Database.SearchIndex)
	if err != nil {
		return nil, err
	}
	return search.NewBleveEngine(indexPath)
}

func runRefresh() (*tracker.Report, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	tr, store, err := buildTracker(cfg)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := tr.Refresh(ctx)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	return report, func() { store.Close() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
