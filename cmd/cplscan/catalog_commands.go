package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cplscan/internal/catalog"
	"cplscan/internal/cpl"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Track-fingerprint catalog across playlists",
	}
	cmd.AddCommand(newCatalogRecordCommand(ctx))
	cmd.AddCommand(newCatalogTracksCommand(ctx))
	cmd.AddCommand(newCatalogDupesCommand(ctx))
	return cmd
}

func (c *commandContext) openCatalog() (*catalog.Store, error) {
	cfg := c.configValue()
	if !cfg.Catalog.Enabled {
		return nil, errors.New("catalog is disabled; enable it in the [catalog] config section")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return catalog.Open(cfg.Catalog.Path, c.logger())
}

func newCatalogRecordCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "record <playlist.xml> [more.xml...]",
		Short: "Parse playlists and record their track fingerprints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			total := 0
			for _, path := range args {
				playlist, err := cpl.ParseFile(path, ctx.logger())
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				recorded, err := store.Record(cmd.Context(), playlist, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				total += recorded
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d track(s) from %d playlist(s)\n", total, len(args))
			return nil
		},
	}
}

func newCatalogTracksCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "List recorded tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Tracks(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}

			headers := []string{"Fingerprint", "Kind", "Playlist", "Title", "Duration", "Resources"}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					shortFingerprint(entry.Fingerprint),
					entry.Kind,
					entry.PlaylistID,
					entry.ContentTitle,
					entry.Duration,
					fmt.Sprintf("%d", entry.ResourceCount),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRows(headers, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")

	return cmd
}

func newCatalogDupesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "Show tracks shared by more than one playlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			dupes, err := store.Duplicates(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, dupes)
			}
			if len(dupes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No duplicate tracks recorded")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, dupe := range dupes {
				fmt.Fprintf(out, "%s\n", dupe.Fingerprint)
				for _, entry := range dupe.Entries {
					fmt.Fprintf(out, "  %-13s %s (%s)\n", entry.Kind, entry.PlaylistID, entry.ContentTitle)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")

	return cmd
}
