package metawiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// DefaultIndexURL is the Meta-Wiki page listing dump torrents.
const DefaultIndexURL = "https://meta.wikimedia.org/wiki/Data_dump_torrents"

// torrentNameRE matches the enwiki pages-articles-multistream torrent filename.
var torrentNameRE = regexp.MustCompile(`(?i)enwiki-.*pages-articles-multistream.*\.torrent$`)

const (
	indexTimeout    = 30 * time.Second
	downloadTimeout = 60 * time.Second
)

// Client fetches the torrent index page and downloads torrent files
type Client struct {
	indexURL   *url.URL
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Meta-Wiki client for the given index page URL
func NewClient(indexURL string, logger zerolog.Logger) (*Client, error) {
	parsed, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("invalid index URL %q: %w", indexURL, err)
	}

	return &Client{
		indexURL:   parsed,
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

// LatestTorrentURL fetches the index page and returns the absolute URL of the
// newest enwiki torrent link. The page lists the newest dump first, so the
// first matching anchor wins.
func (c *Client) LatestTorrentURL(ctx context.Context) (string, error) {
	c.logger.Info().Str("url", c.indexURL.String()).Msg("Fetching torrent index")

	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.indexURL.String(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch torrent index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code from torrent index: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse torrent index: %w", err)
	}

	href, ok := findTorrentHref(doc)
	if !ok {
		return "", ErrTorrentNotFound
	}

	resolved, err := c.resolveHref(href)
	if err != nil {
		return "", err
	}

	c.logger.Debug().Str("href", href).Str("resolved", resolved).Msg("Matched torrent link")
	return resolved, nil
}

// findTorrentHref walks the document in order and returns the first anchor
// href matching the torrent filename pattern.
func findTorrentHref(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key == "href" && torrentNameRE.MatchString(attr.Val) {
				return attr.Val, true
			}
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if href, ok := findTorrentHref(child); ok {
			return href, true
		}
	}

	return "", false
}

// resolveHref resolves a possibly protocol-relative or root-relative href
// against the index page URL.
func (c *Client) resolveHref(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid torrent href %q: %w", href, err)
	}

	return c.indexURL.ResolveReference(ref).String(), nil
}

// DownloadTorrent streams the torrent file to the OS temp directory, named
// after the URL's final path segment, and returns the local path. An existing
// file of the same name is overwritten.
func (c *Client) DownloadTorrent(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid torrent URL %q: %w", rawURL, err)
	}

	dest := filepath.Join(os.TempDir(), path.Base(parsed.Path))
	c.logger.Info().Str("url", rawURL).Str("dest", dest).Msg("Downloading torrent")

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download torrent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code downloading torrent: %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create torrent file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write torrent file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close torrent file: %w", err)
	}

	return dest, nil
}
