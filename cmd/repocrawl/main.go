// Package main provides the entry point for the repocrawl CLI.
//
// repocrawl crawls the GitHub search page for keywords, optionally through
// rotating HTTP proxies, and enriches repository results with the owner and
// the language composition of each repository.
//
// Usage:
//
//	repocrawl crawl python django-rest-framework jwt
//	repocrawl crawl --type Issues --proxy 1.2.3.4:8080 bug
//	repocrawl proxies --limit 5
//
// See --help for all available options.
package main

func main() {
	Execute()
}
