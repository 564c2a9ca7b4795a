package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jganschow/wikidump-auto/config"
	"github.com/jganschow/wikidump-auto/metawiki"
	"github.com/jganschow/wikidump-auto/prune"
	"github.com/jganschow/wikidump-auto/qbittorrent"
)

var (
	cfg    *config.Config
	logger zerolog.Logger

	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata shown by the version command.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wikidump-auto",
	Short: "Fetch the latest enwiki dump torrent and clean up old dumps",
	Long: `wikidump-auto fetches the latest English pages-articles-multistream dump
torrent from the unofficial Meta-Wiki torrent list, adds it to a running
qBittorrent WebUI, and prunes dumps older than the retention window from the
save directory.

Put it in cron, a systemd timer, or a self-hosted runner; only one instance
should run at a time.`,
	PersistentPreRunE: initializeApp,
	RunE:              runFetch,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("host", "localhost", "qBittorrent WebUI host name (env QB_HOST)")
	flags.Int("port", 8080, "qBittorrent WebUI port (env QB_PORT)")
	flags.String("user", "admin", "qBittorrent WebUI username (env QB_USER)")
	flags.String("password", "adminadmin", "qBittorrent WebUI password (env QB_PASS)")
	flags.String("save-dir", "/mnt/wiki/enwiki", "where to store Wikipedia dumps (env SAVE_DIR)")
	flags.String("category", "wikipedia", "qBittorrent category tag (env QB_CATEGORY)")
	flags.Int("retention", 30, "days to keep old dumps (env RETENTION_DAYS)")
	flags.Bool("quiet", false, "suppress info logs")
}

// initializeApp loads the configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Quiet {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// webUIURL builds the qBittorrent WebUI base URL from host and port.
func webUIURL(cfg config.QBittorrentConfig) string {
	host := cfg.Host
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return fmt.Sprintf("%s:%d", host, cfg.Port)
}

// runFetch runs the full pipeline: resolve the newest torrent link, download
// it, hand it to qBittorrent, then prune old dumps.
func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	meta, err := metawiki.NewClient(metawiki.DefaultIndexURL, logger)
	if err != nil {
		return err
	}

	torrentURL, err := meta.LatestTorrentURL(ctx)
	if err != nil {
		return err
	}

	torrentPath, err := meta.DownloadTorrent(ctx, torrentURL)
	if err != nil {
		return err
	}

	qb, err := qbittorrent.NewClient(webUIURL(cfg.QBittorrent), cfg.QBittorrent.Username, cfg.QBittorrent.Password, logger)
	if err != nil {
		return err
	}

	if err := qb.AddTorrent(ctx, torrentPath, cfg.Dump.SaveDir, cfg.Dump.Category); err != nil {
		return err
	}

	retention := time.Duration(cfg.Dump.RetentionDays) * 24 * time.Hour
	pruner := prune.New(cfg.Dump.SaveDir, prune.AgeFilter(retention), logger)
	if _, err := pruner.Prune(); err != nil {
		return err
	}

	return nil
}
