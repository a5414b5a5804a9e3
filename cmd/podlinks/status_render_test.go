package main

import (
	"fmt"
	"strings"
	"testing"

	"podlinks/internal/agents"
	"podlinks/internal/enrich"
	"podlinks/internal/pipeline"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Website Analyzer", statusError, "Not reachable", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Website Analyzer:", "[ERROR] Not reachable")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Report", statusOK, "written", true)
	if !strings.HasPrefix(got, statusStyles[statusOK].color) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestStageObserverSkipsTerminalStates(t *testing.T) {
	var buf strings.Builder
	observe := stageObserver(&buf, agents.Default(), false)
	observe(pipeline.Acquiring)
	observe(pipeline.Done)
	observe(pipeline.Failed)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "Podcast Downloader:") || !strings.Contains(lines[0], "[INFO]") {
		t.Fatalf("unexpected line: %q", lines[0])
	}
}

func TestRosterLinesFollowPipelineOrder(t *testing.T) {
	lines := rosterLines(agents.Default())
	if len(lines) != len(agents.Keys)+1 {
		t.Fatalf("unexpected line count: %d", len(lines))
	}
	if !strings.Contains(lines[1], "Podcast Downloader") {
		t.Fatalf("expected downloader first, got %q", lines[1])
	}
}

func TestEnrichmentRows(t *testing.T) {
	rows := enrichmentRows([]enrich.Result{
		{URL: "a.io", Kind: enrich.Described, Summary: "A"},
		{URL: "b.io", Kind: enrich.Unreachable},
	})
	if rows[0][1] != "described" || rows[1][2] != enrich.UnreachableSummary {
		t.Fatalf("unexpected rows: %v", rows)
	}
	table := renderTable([]string{"URL", "Status", "Summary"}, rows)
	if !strings.Contains(table, "b.io") || !strings.Contains(table, "unreachable") {
		t.Fatalf("unexpected table:\n%s", table)
	}
}
