// Package tor runs an embedded Tor daemon that the crawler can use as its
// proxy.
//
// The daemon is started with tornago on OS-assigned ports. Its SOCKS5
// listener is exposed as a "socks5://host:port" pool entry, which the proxy
// selector passes through unchanged and the transport dials with
// golang.org/x/net/proxy.
package tor
