package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"podlinks/internal/extract"
)

func newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "extract [file|-]",
		Short:       "Print the URLs found in a text, one per line",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read text: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, u := range extract.URLs(string(data)) {
				fmt.Fprintln(out, u)
			}
			return nil
		},
	}
}
