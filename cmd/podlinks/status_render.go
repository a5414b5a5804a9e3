package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"podlinks/internal/agents"
	"podlinks/internal/pipeline"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	statusLabelWidth = 30
	statusIndent     = "  "
)

// renderStatusLine formats "  <label>: [KIND] message" with the label padded
// to a fixed column.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style, ok := statusStyles[kind]
	if !ok {
		style = statusStyles[statusInfo]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.label)
	if message != "" {
		b.WriteString(" " + message)
	}
	return paint(b.String(), style.color, colorize)
}

func renderSectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	return []string{
		paint(line, ansiBlue, colorize),
		paint(strings.Repeat("-", len(line)), ansiBlue, colorize),
	}
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var stageRoles = map[pipeline.State]string{
	pipeline.Acquiring:    agents.KeyDownloader,
	pipeline.Transcribing: agents.KeyTranscriber,
	pipeline.Extracting:   agents.KeyURLDetector,
	pipeline.Enriching:    agents.KeyWebsiteAnalyzer,
	pipeline.Reporting:    agents.KeyReportGenerator,
}

var stageMessages = map[pipeline.State]string{
	pipeline.Acquiring:    "fetching episode audio",
	pipeline.Transcribing: "transcribing audio",
	pipeline.Extracting:   "looking for website mentions",
	pipeline.Enriching:    "describing websites",
	pipeline.Reporting:    "writing report",
}

// stageObserver prints one status line per non-terminal pipeline state.
func stageObserver(out io.Writer, roster agents.Roster, colorize bool) pipeline.Observer {
	return func(state pipeline.State) {
		if state.Terminal() {
			return
		}
		key, ok := stageRoles[state]
		if !ok {
			return
		}
		fmt.Fprintln(out, renderStatusLine(roster.Lookup(key).Role, statusInfo, stageMessages[state], colorize))
	}
}

// rosterLines lists each stage role with its goal in pipeline order.
func rosterLines(roster agents.Roster) []string {
	lines := make([]string, 0, len(agents.Keys)+1)
	lines = append(lines, "Crew:")
	for _, key := range agents.Keys {
		role := roster.Lookup(key)
		line := statusIndent + role.Role
		if role.Goal != "" {
			line += " - " + role.Goal
		}
		lines = append(lines, line)
	}
	return lines
}
