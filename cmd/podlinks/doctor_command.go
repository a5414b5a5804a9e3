package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"podlinks/internal/deps"
	"podlinks/internal/preflight"
	"podlinks/internal/stage"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, configuration and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var rows [][]string
			failures := 0

			for _, r := range preflight.RunAll(cmd.Context(), cfg) {
				rows = append(rows, []string{r.Name, passLabel(r.Passed, false), r.Detail})
				if !r.Passed {
					failures++
				}
			}

			statuses := preflight.CheckSystemDeps(cfg)
			for _, s := range statuses {
				detail := s.Detail
				if s.Available {
					detail = s.Path
				}
				rows = append(rows, []string{s.Name, passLabel(s.Available, s.Optional), detail})
			}
			failures += len(deps.MissingRequired(statuses))

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			health := stage.CheckAll(cmd.Context(),
				newAcquirer(cfg, logger, false, false),
				newTranscriber(cfg, logger),
			)
			for _, h := range health {
				detail := h.Detail
				if detail == "" {
					detail = "ready"
				}
				rows = append(rows, []string{"Stage " + h.Name, passLabel(h.Ready, true), detail})
			}

			for _, line := range renderSectionHeader("podlinks doctor", colorize) {
				fmt.Fprintln(out, line)
			}
			if ctx.configExists {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			} else {
				fmt.Fprintln(out, "Config: defaults (no config file found)")
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))

			if failures > 0 {
				fmt.Fprintln(out, renderStatusLine("Summary", statusError, fmt.Sprintf("%d required check(s) failed", failures), colorize))
				return fmt.Errorf("doctor: %d required check(s) failed", failures)
			}
			summary := "all required checks passed"
			if !stage.AllReady(health) {
				fmt.Fprintln(out, renderStatusLine("Summary", statusWarn, summary+"; some stages are degraded", colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Summary", statusOK, summary, colorize))
			return nil
		},
	}
}

func passLabel(passed, optional bool) string {
	switch {
	case passed:
		return "OK"
	case optional:
		return "WARN"
	default:
		return "FAIL"
	}
}
