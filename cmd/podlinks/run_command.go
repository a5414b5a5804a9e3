package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"podlinks/internal/agents"
	"podlinks/internal/deps"
	"podlinks/internal/logging"
	"podlinks/internal/notifications"
	"podlinks/internal/pipeline"
	"podlinks/internal/preflight"
	"podlinks/internal/services"
)

const linkPrompt = "Enter podcast link: "

func newRunCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var forceFeed bool

	cmd := &cobra.Command{
		Use:   "run [link]",
		Short: "Download, transcribe and report the websites mentioned in an episode",
		Long: `Run the full pipeline for one podcast episode.

The link may be a podcast page, a video page, an RSS feed or a direct audio
URL. Without an argument the link is read interactively. Use --file to start
from audio that is already on disk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath != "" && len(args) > 0 {
				return errors.New("pass either a link or --file, not both")
			}
			out := cmd.OutOrStdout()

			ref := strings.TrimSpace(filePath)
			switch {
			case ref != "":
			case len(args) == 1:
				ref = strings.TrimSpace(args[0])
			default:
				link, err := promptLink(cmd.InOrStdin(), out)
				if err != nil {
					return err
				}
				ref = link
			}
			if ref == "" {
				return errors.New("no podcast link provided")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			roster, err := agents.Load(cfg.Paths.AgentsFile)
			if err != nil {
				return err
			}

			colorize := shouldColorize(out)
			for _, line := range rosterLines(roster) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out)
			for _, missing := range deps.MissingRequired(preflight.CheckSystemDeps(cfg)) {
				fmt.Fprintln(out, renderStatusLine(missing.Name, statusWarn, missing.Detail+"; run `podlinks doctor`", colorize))
			}

			orch, err := newOrchestrator(cfg, logger, roster,
				newAcquirer(cfg, logger, forceFeed, filePath != ""),
				newTranscriber(cfg, logger),
				stageObserver(out, roster, colorize),
			)
			if err != nil {
				return err
			}
			return executeRun(cmd, orch, notifications.NewService(cfg), logger, ref, colorize)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Use a local audio file instead of downloading")
	cmd.Flags().BoolVar(&forceFeed, "feed", false, "Treat the link as a podcast RSS feed")
	return cmd
}

func executeRun(cmd *cobra.Command, orch *pipeline.Orchestrator, notifier notifications.Service, logger *slog.Logger, ref string, colorize bool) error {
	out := cmd.OutOrStdout()
	result, err := orch.Run(cmd.Context(), ref)
	if err != nil {
		if ctxErr := cmd.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		fmt.Fprintln(out, renderStatusLine("Pipeline", statusError, services.Hint(err), colorize))
		if services.IsFatal(err) {
			notify(logger, "run failed", notifier.NotifyRunFailed(cmd.Context(), ref, err))
		}
		return err
	}
	notify(logger, "report ready", notifier.NotifyReportReady(cmd.Context(), result.Audio.Title, len(result.URLs), result.ReportPath))
	fmt.Fprintln(out)
	return printRunSummary(out, result, colorize)
}

// notify logs delivery failures; a missed notification never fails a run.
func notify(logger *slog.Logger, event string, err error) {
	if err == nil {
		return
	}
	logging.WarnWithContext(logger, "notification failed", "notification_failed",
		logging.String("notification", event),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic or run `podlinks test-notify`"),
	)
}

func promptLink(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, linkPrompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read podcast link: %w", err)
	}
	return strings.TrimSpace(line), nil
}
