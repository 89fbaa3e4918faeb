// Package pipeline runs a crawl as an ordered sequence of steps.
//
// A crawl builds the search URL, makes sure there is a proxy pool, picks
// one proxy, fetches and parses the search page, and finally turns links
// into results. Each stage is a Step that reads and updates the shared
// model.CrawlReport. Setup steps are fatal on error. The last step fans out
// one task per repository on an errgroup and isolates failures per task.
//
// Crawler wires the standard steps together and is what callers normally
// use.
package pipeline
