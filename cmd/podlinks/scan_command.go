package main

import (
	"github.com/spf13/cobra"

	"podlinks/internal/agents"
	"podlinks/internal/notifications"
	"podlinks/internal/transcribe"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <transcript>",
		Short: "Report the websites mentioned in an existing transcript",
		Long: `Run extraction, enrichment and reporting over a transcript that is
already on disk. Plain text, SubRip (.srt) and WhisperX JSON files are
accepted; no external tools are needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			orch, err := newOrchestrator(cfg, logger, roster,
				newAcquirer(cfg, logger, false, false),
				transcribe.NewFileTranscriber(cfg.Transcription.DetectLanguage),
				stageObserver(out, roster, colorize),
			)
			if err != nil {
				return err
			}
			return executeRun(cmd, orch, notifications.NewService(cfg), logger, args[0], colorize)
		},
	}
}
