package qbittorrent

import (
	"context"
	"fmt"
	"os"

	"github.com/autobrr/go-qbittorrent"
	"github.com/rs/zerolog"
)

// Client wraps the qBittorrent API client
type Client struct {
	client *qbittorrent.Client
	logger zerolog.Logger
}

// NewClient creates a new qBittorrent client and logs in
func NewClient(url, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	options := defaultClientOptions()
	for _, opt := range opts {
		opt(options)
	}

	client := qbittorrent.NewClient(qbittorrent.Config{
		Host:          url,
		Username:      username,
		Password:      password,
		Timeout:       int(options.timeout.Seconds()),
		TLSSkipVerify: !options.verifyCert,
	})

	// Test connection by logging in
	if err := client.Login(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConnectionFailed, err)
	}

	c := &Client{
		client: client,
		logger: logger,
	}
	c.logVersions()

	return c, nil
}

// logVersions logs the connected qBittorrent app and WebAPI versions.
func (c *Client) logVersions() {
	appVersion, err := c.client.GetAppVersion()
	if err != nil {
		c.logger.Debug().Err(err).Msg("Failed to get qBittorrent app version")
		return
	}

	webAPIVersion, err := c.client.GetWebAPIVersion()
	if err != nil {
		c.logger.Debug().Err(err).Msg("Failed to get qBittorrent WebAPI version")
	}

	c.logger.Info().
		Str("version", appVersion).
		Str("web_api", webAPIVersion).
		Msg("Connected to qBittorrent")
}

// AddTorrent submits the torrent file as a new download directed at saveDir
// with the given category. Auto torrent management is disabled so the savepath
// sticks, and the torrent starts unpaused. The save directory is created first
// if it does not exist.
func (c *Client) AddTorrent(ctx context.Context, torrentPath, saveDir, category string) error {
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory %s: %w", saveDir, err)
	}

	options := map[string]string{
		"savepath": saveDir,
		"category": category,
		"autoTMM":  "false",
		"paused":   "false",
	}

	if err := c.client.AddTorrentFromFileCtx(ctx, torrentPath, options); err != nil {
		return fmt.Errorf("failed to add torrent: %w", err)
	}

	c.logger.Info().
		Str("torrent", torrentPath).
		Str("save_dir", saveDir).
		Str("category", category).
		Msg("Torrent queued")

	return nil
}
