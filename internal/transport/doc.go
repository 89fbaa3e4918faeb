// Package transport fetches pages over HTTP, optionally through a proxy.
//
// A Fetcher is the only thing the crawler knows about the network. The
// HTTPFetcher implementation keeps one http.Client per proxy pair so the
// connection pool of a proxy is reused across the search fetch and every
// detail fetch of a crawl. Entries with a socks5:// scheme are dialed with
// golang.org/x/net/proxy; everything else goes through http.Transport's
// forward-proxy support.
package transport
