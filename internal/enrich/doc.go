// Package enrich describes websites mentioned in a transcript.
//
// An Enricher fetches each URL once through a Fetcher, prefers the page's
// meta description over its title, and trims the summary to a single bounded
// line. Failures are data: Enrich returns an Unreachable Result instead of an
// error, and Result.Line renders the placeholder entry for the report.
package enrich
