// Package model defines the data structures shared by the repocrawl packages.
//
// This package contains the following main types:
//   - ResultType: The kind of entity a GitHub search returns
//   - SearchQuery: Keywords plus a validated result type
//   - ProxyPair: The proxy URLs used for one crawl
//   - CrawlResult: One output record, optionally carrying RepositoryExtra
//   - CrawlReport: The state built up while a crawl runs
//
// Models live in their own package so that search, enrich, pipeline and
// report can share them without import cycles. All output types serialize
// to the JSON shape printed by the CLI.
package model
