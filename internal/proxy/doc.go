// Package proxy discovers free public HTTP proxies and picks one for a crawl.
package proxy
