package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cplscan/internal/cpl"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var indentWidth int

	cmd := &cobra.Command{
		Use:   "inspect <playlist.xml>",
		Short: "Parse a composition playlist and render it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indent := ctx.configValue().Output.Indent
			if cmd.Flags().Changed("indent") {
				if indentWidth < 0 {
					return fmt.Errorf("indent must be non-negative")
				}
				indent = strings.Repeat(" ", indentWidth)
			}

			rendered, err := cpl.ProcessFile(args[0], outputPath, indent, ctx.logger())
			if err != nil {
				return err
			}
			if outputPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().IntVar(&indentWidth, "indent", 2, "Number of spaces per indentation level")

	return cmd
}
