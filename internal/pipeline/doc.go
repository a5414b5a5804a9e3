// Package pipeline drives a single episode from reference to report.
//
// The Orchestrator moves through Acquiring, Transcribing, Extracting,
// Enriching and Reporting. Acquisition, transcription and report failures
// stop the run in Failed and no report is written. Enrichment never fails a
// run: unreachable sites become report lines of their own.
//
// Every run gets a run ID and every stage a correlation ID; both are carried on
// the context so collaborator logs line up with the stage that produced them.
package pipeline
