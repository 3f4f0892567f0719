package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cplscan/internal/cpl"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary <playlist.xml>",
		Short: "Show a compact overview of a composition playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlist, err := cpl.ParseFile(args[0], ctx.logger())
			if err != nil {
				return err
			}
			summary := playlist.Summarize()
			if asJSON {
				return writeJSON(cmd, summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")

	return cmd
}

func renderSummary(summary cpl.Summary) string {
	title := summary.ContentTitle
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf(
		"Title:      %s\nNamespace:  %s\nEdit rate:  %s\nDuration:   %s\nTracks:     %d image, %d audio, %d subtitle (%d total)\n",
		title,
		summary.Namespace,
		summary.EditRate,
		summary.Duration,
		summary.TrackCount.Image,
		summary.TrackCount.Audio,
		summary.TrackCount.Subtitle,
		summary.TrackCount.Total,
	)
}
