// Package main hosts the podlinks CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the pipeline
// collaborators from it and renders run progress, summaries and preflight
// results for the terminal.
package main
