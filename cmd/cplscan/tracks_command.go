package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cplscan/internal/cpl"
	"cplscan/internal/labels"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tracks <playlist.xml>",
		Short: "List the virtual tracks of a composition playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlist, err := cpl.ParseFile(args[0], ctx.logger())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, playlist.Export().VirtualTracks)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTrackRows(playlist))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")

	return cmd
}

func renderTrackRows(playlist *cpl.CompositionPlaylist) string {
	headers := []string{"Kind", "Track ID", "Duration", "Resources", "Fingerprint", "Details"}
	rows := make([][]string, 0, len(playlist.VirtualTracks))
	for _, vt := range playlist.VirtualTracks {
		info := vt.Info()
		rows = append(rows, []string{
			string(vt.Kind()),
			info.TrackID,
			info.Duration.Timecode(),
			fmt.Sprintf("%d", info.ResourceCount),
			shortFingerprint(info.Fingerprint),
			trackDetails(vt),
		})
	}
	return renderRows(headers, rows)
}

// trackDetails gives one human-oriented line per track kind.
func trackDetails(vt cpl.VirtualTrack) string {
	switch t := vt.(type) {
	case *cpl.ImageTrack:
		return fmt.Sprintf("%dx%d @ %s", t.StoredWidth, t.StoredHeight, t.SampleRate)
	case *cpl.AudioTrack:
		parts := []string{fmt.Sprintf("%d ch", len(t.Channels))}
		if t.Soundfield != "" {
			parts = append(parts, t.Soundfield)
		}
		if t.SpokenLanguage != "" {
			parts = append(parts, labels.LanguageName(t.SpokenLanguage))
		}
		return strings.Join(parts, ", ")
	case *cpl.SubtitleTrack:
		if t.SubtitleLanguage != "" {
			return labels.LanguageName(t.SubtitleLanguage)
		}
		return ""
	default:
		return ""
	}
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
