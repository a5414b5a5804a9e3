package main

import (
	"fmt"
	"io"
	"os"

	"podlinks/internal/enrich"
	"podlinks/internal/language"
	"podlinks/internal/pipeline"
)

func printRunSummary(out io.Writer, result pipeline.Result, colorize bool) error {
	for _, line := range renderSectionHeader("Run summary", colorize) {
		fmt.Fprintln(out, line)
	}
	if result.Audio.Title != "" {
		fmt.Fprintf(out, "Episode:    %s\n", result.Audio.Title)
	}
	if result.Transcript.Language != "" {
		fmt.Fprintf(out, "Language:   %s\n", language.DisplayName(result.Transcript.Language))
	}
	fmt.Fprintf(out, "Websites:   %d\n", len(result.URLs))
	fmt.Fprintf(out, "Run ID:     %s\n", result.RunID)

	if len(result.Enrichments) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"URL", "Status", "Summary"},
			enrichmentRows(result.Enrichments),
			withMaxWidth(3, summaryColumnWidth),
		))
	}

	fmt.Fprintln(out, renderStatusLine("Report", statusOK, result.ReportPath, colorize))
	fmt.Fprintln(out)

	data, err := os.ReadFile(result.ReportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func enrichmentRows(results []enrich.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		summary := r.Summary
		if r.Kind == enrich.Unreachable {
			summary = enrich.UnreachableSummary
		}
		rows = append(rows, []string{r.URL, r.Kind.String(), summary})
	}
	return rows
}
