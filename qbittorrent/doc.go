// Package qbittorrent provides a client for submitting dump torrents to the
// qBittorrent Web API.
//
// This package wraps the autobrr/go-qbittorrent library to provide the small
// surface this tool needs: authenticate once on construction, then add a
// torrent file with a fixed save path and category.
//
// # Usage
//
//	client, err := qbittorrent.NewClient(url, username, password, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = client.AddTorrent(ctx, "/tmp/enwiki.torrent", "/mnt/wiki/enwiki", "wikipedia")
package qbittorrent
