package metawiki

import "errors"

// Common errors returned by the Meta-Wiki client.
var (
	// ErrTorrentNotFound is returned when the index page contains no link
	// matching the enwiki torrent filename pattern.
	ErrTorrentNotFound = errors.New("index page did not contain expected enwiki torrent link")
)
