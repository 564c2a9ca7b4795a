// Package metawiki resolves and downloads Wikipedia dump torrents from the
// Meta-Wiki "Data dump torrents" index page.
//
// The page is unofficial and hand-maintained, so the client makes no
// assumptions about its structure beyond "anchors whose href ends in an
// enwiki pages-articles-multistream torrent filename". Hrefs may be absolute,
// protocol-relative or root-relative; all are resolved against the index URL.
//
// # Usage
//
//	client, err := metawiki.NewClient(metawiki.DefaultIndexURL, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	torrentURL, err := client.LatestTorrentURL(ctx)
//	torrentPath, err := client.DownloadTorrent(ctx, torrentURL)
package metawiki
