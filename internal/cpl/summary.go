package cpl

// TrackCount breaks the playlist's accepted tracks down by kind.
type TrackCount struct {
	Image    int `json:"image"`
	Audio    int `json:"audio"`
	Subtitle int `json:"subtitle"`
	Total    int `json:"total"`
}

// Summary is a compact overview of a parsed playlist. Duration is the
// longest track duration in timecode form.
type Summary struct {
	ContentTitle string     `json:"content_title"`
	Namespace    string     `json:"namespace"`
	EditRate     string     `json:"edit_rate"`
	Duration     string     `json:"duration"`
	TrackCount   TrackCount `json:"track_count"`
}

// Summarize builds a Summary from the assembled model.
func (p *CompositionPlaylist) Summarize() Summary {
	var longest Rational
	counts := TrackCount{Total: len(p.VirtualTracks)}
	for _, vt := range p.VirtualTracks {
		if d := vt.Info().Duration; d.Cmp(longest) > 0 {
			longest = d
		}
		switch vt.Kind() {
		case KindImage:
			counts.Image++
		case KindAudio:
			counts.Audio++
		case KindSubtitle:
			counts.Subtitle++
		}
	}
	return Summary{
		ContentTitle: p.ContentTitle,
		Namespace:    p.Namespace,
		EditRate:     p.EditRate.String(),
		Duration:     longest.Timecode(),
		TrackCount:   counts,
	}
}
