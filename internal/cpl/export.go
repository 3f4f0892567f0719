package cpl

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cplscan/internal/labels"
)

// DefaultIndent is the JSON indentation used when the caller does not
// specify one.
const DefaultIndent = "  "

// PlaylistDocument is the normalized export structure handed to the JSON
// renderer. Struct field order is the serialized key order.
type PlaylistDocument struct {
	Namespace     string          `json:"namespace"`
	ContentTitle  string          `json:"content_title"`
	VirtualTracks []TrackDocument `json:"virtual_tracks"`
}

// TrackDocument is the normalized form of one virtual track.
type TrackDocument struct {
	Kind           Kind   `json:"kind"`
	Fingerprint    string `json:"fingerprint"`
	VirtualTrackID string `json:"virtual_track_id"`
	ResourceCount  int    `json:"resource_count"`
	Duration       string `json:"duration"`
	EssenceInfo    any    `json:"essence_info"`
}

// ImageEssence holds the image-specific export fields. Coded identifiers
// are translated to display labels exactly once, here.
type ImageEssence struct {
	SampleRate             string `json:"sample_rate"`
	StoredWidth            int    `json:"stored_width"`
	StoredHeight           int    `json:"stored_height"`
	PictureCompression     string `json:"picture_compression"`
	ContainerFormat        string `json:"container_format"`
	TransferCharacteristic string `json:"transfer_characteristic"`
	CodingEquations        string `json:"coding_equations"`
	ColorEncoding          string `json:"color_encoding"`
}

// AudioEssence holds the audio-specific export fields.
type AudioEssence struct {
	SampleRate        string   `json:"sample_rate"`
	SpokenLanguage    string   `json:"spoken_language,omitempty"`
	Soundfield        string   `json:"soundfield,omitempty"`
	ContainerFormat   string   `json:"container_format"`
	ChannelAssignment string   `json:"channel_assignment"`
	Channels          []string `json:"channels"`
}

// SubtitleEssence holds the subtitle-specific export fields.
type SubtitleEssence struct {
	SampleRate       string `json:"sample_rate"`
	SubtitleLanguage string `json:"subtitle_language,omitempty"`
	ContainerFormat  string `json:"container_format"`
}

// Export converts the assembled playlist into its normalized document form.
func (p *CompositionPlaylist) Export() PlaylistDocument {
	tracks := make([]TrackDocument, 0, len(p.VirtualTracks))
	for _, vt := range p.VirtualTracks {
		tracks = append(tracks, vt.Export())
	}
	return PlaylistDocument{
		Namespace:     p.Namespace,
		ContentTitle:  p.ContentTitle,
		VirtualTracks: tracks,
	}
}

func (t *ImageTrack) Export() TrackDocument {
	return exportTrack(t, ImageEssence{
		SampleRate:             t.SampleRate.String(),
		StoredWidth:            t.StoredWidth,
		StoredHeight:           t.StoredHeight,
		PictureCompression:     labels.Lookup(t.PictureCompression),
		ContainerFormat:        labels.Lookup(t.ContainerFormat),
		TransferCharacteristic: labels.Lookup(t.TransferCharacteristic),
		CodingEquations:        labels.Lookup(t.CodingEquations),
		ColorEncoding:          labels.Lookup(t.ColorPrimaries),
	})
}

func (t *AudioTrack) Export() TrackDocument {
	return exportTrack(t, AudioEssence{
		SampleRate:        t.SampleRate.String(),
		SpokenLanguage:    t.SpokenLanguage,
		Soundfield:        t.Soundfield,
		ContainerFormat:   labels.Lookup(t.ContainerFormat),
		ChannelAssignment: labels.Lookup(t.ChannelAssignment),
		Channels:          t.Channels,
	})
}

func (t *SubtitleTrack) Export() TrackDocument {
	return exportTrack(t, SubtitleEssence{
		SampleRate:       t.SampleRate.String(),
		SubtitleLanguage: t.SubtitleLanguage,
		ContainerFormat:  labels.Lookup(t.ContainerFormat),
	})
}

func exportTrack(vt VirtualTrack, essence any) TrackDocument {
	info := vt.Info()
	return TrackDocument{
		Kind:           vt.Kind(),
		Fingerprint:    info.Fingerprint,
		VirtualTrackID: info.TrackID,
		ResourceCount:  info.ResourceCount,
		Duration:       info.Duration.Timecode(),
		EssenceInfo:    essence,
	}
}

// ExportJSON renders the normalized document as indented JSON. An empty
// indent selects DefaultIndent.
func (p *CompositionPlaylist) ExportJSON(indent string) (string, error) {
	if indent == "" {
		indent = DefaultIndent
	}
	data, err := json.MarshalIndent(p.Export(), "", indent)
	if err != nil {
		return "", fmt.Errorf("encode playlist: %w", err)
	}
	return string(data), nil
}

// ProcessFile parses the playlist at path and renders it to JSON. When
// outPath is non-empty the rendered text is also written there.
func ProcessFile(path, outPath, indent string, logger *slog.Logger) (string, error) {
	playlist, err := ParseFile(path, logger)
	if err != nil {
		return "", err
	}
	rendered, err := playlist.ExportJSON(indent)
	if err != nil {
		return "", err
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", outPath, err)
		}
	}
	return rendered, nil
}
