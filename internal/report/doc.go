// Package report writes the Markdown document that closes a pipeline run.
//
// Reports are named podcast_urls_<YYYYMMDD_HHMM>.md and hold a fixed header, a
// generation timestamp and one bullet per description line. The output
// directory is locked while a report is written so two concurrent runs never
// interleave a file; the write itself goes through a temp file and rename, so
// a failed run leaves no partial report behind.
package report
