package cpl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Kind identifies a virtual-track variant.
type Kind string

const (
	KindImage    Kind = "main_image"
	KindAudio    Kind = "main_audio"
	KindSubtitle Kind = "main_subtitle"
)

// TrackInfo carries the fields shared by every virtual-track variant. Tracks
// are constructed once by the assembler and not mutated afterwards.
type TrackInfo struct {
	// TrackID is the sequence's TrackId, stable within the playlist.
	TrackID string
	// Fingerprint is the 40-character hex SHA-1 digest over the track's
	// resource list.
	Fingerprint string
	// Duration is the sum of the track's non-zero resource durations, in
	// seconds.
	Duration Rational
	// ResourceCount is the number of resources that contributed to Duration
	// and Fingerprint.
	ResourceCount int
	// SampleRate comes from the matched essence descriptor.
	SampleRate Rational
}

// VirtualTrack is the closed set of track variants a playlist assembles:
// ImageTrack, AudioTrack, or SubtitleTrack.
type VirtualTrack interface {
	Kind() Kind
	Info() TrackInfo
	Export() TrackDocument
}

// ImageTrack is a MainImageSequence virtual track.
type ImageTrack struct {
	TrackInfo
	StoredWidth            int
	StoredHeight           int
	PictureCompression     string
	ContainerFormat        string
	TransferCharacteristic string
	CodingEquations        string
	ColorPrimaries         string
}

// Kind returns KindImage.
func (t *ImageTrack) Kind() Kind { return KindImage }

// Info returns the track's common fields.
func (t *ImageTrack) Info() TrackInfo { return t.TrackInfo }

// AudioTrack is a MainAudioSequence virtual track. SpokenLanguage and
// Soundfield are empty when the descriptor omits them.
type AudioTrack struct {
	TrackInfo
	SpokenLanguage    string
	Channels          []string
	Soundfield        string
	ContainerFormat   string
	ChannelAssignment string
}

// Kind returns KindAudio.
func (t *AudioTrack) Kind() Kind { return KindAudio }

// Info returns the track's common fields.
func (t *AudioTrack) Info() TrackInfo { return t.TrackInfo }

// SubtitleTrack is a SubtitlesSequence virtual track. SubtitleLanguage is
// empty when the descriptor omits it.
type SubtitleTrack struct {
	TrackInfo
	SubtitleLanguage string
	ContainerFormat  string
}

// Kind returns KindSubtitle.
func (t *SubtitleTrack) Kind() Kind { return KindSubtitle }

// Info returns the track's common fields.
func (t *SubtitleTrack) Info() TrackInfo { return t.TrackInfo }

// descriptorSampleRate reads the required SampleRate rational from a matched
// essence descriptor. Its absence has no fallback and fails the parse.
func descriptorSampleRate(nav Navigator, descriptor *etree.Element) (Rational, error) {
	text, ok := nav.Text(descriptor, "r1:SampleRate")
	if !ok {
		return Rational{}, fmt.Errorf("essence descriptor missing SampleRate")
	}
	rate, err := ParseRational(text)
	if err != nil {
		return Rational{}, fmt.Errorf("essence descriptor SampleRate: %w", err)
	}
	return rate, nil
}

// textOrNone returns the matched field's text, or the literal "None" when
// the field is absent. The "None" placeholder is long-established output
// for unset coded identifiers and is preserved as-is.
func textOrNone(nav Navigator, el *etree.Element, path string) string {
	if text, ok := nav.Text(el, path); ok {
		return text
	}
	return "None"
}

func descriptorInt(nav Navigator, descriptor *etree.Element, path string) (int, error) {
	text, ok := nav.Text(descriptor, path)
	if !ok {
		return 0, fmt.Errorf("essence descriptor missing %s", path)
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("essence descriptor %s %q: %w", path, text, err)
	}
	return value, nil
}

func newImageTrack(nav Navigator, descriptor *etree.Element, info TrackInfo) (*ImageTrack, error) {
	rate, err := descriptorSampleRate(nav, descriptor)
	if err != nil {
		return nil, err
	}
	info.SampleRate = rate

	width, err := descriptorInt(nav, descriptor, "r1:StoredWidth")
	if err != nil {
		return nil, err
	}
	height, err := descriptorInt(nav, descriptor, "r1:StoredHeight")
	if err != nil {
		return nil, err
	}

	return &ImageTrack{
		TrackInfo:              info,
		StoredWidth:            width,
		StoredHeight:           height,
		PictureCompression:     textOrNone(nav, descriptor, "r1:PictureCompression"),
		ContainerFormat:        textOrNone(nav, descriptor, "r1:ContainerFormat"),
		TransferCharacteristic: textOrNone(nav, descriptor, "r1:TransferCharacteristic"),
		CodingEquations:        textOrNone(nav, descriptor, "r1:CodingEquations"),
		ColorPrimaries:         textOrNone(nav, descriptor, "r1:ColorPrimaries"),
	}, nil
}

func newAudioTrack(nav Navigator, descriptor *etree.Element, info TrackInfo) (*AudioTrack, error) {
	rate, err := descriptorSampleRate(nav, descriptor)
	if err != nil {
		return nil, err
	}
	info.SampleRate = rate

	// Every channel label subdescriptor counts; repeated descriptors are
	// expected and document order is kept.
	var channels []string
	for _, symbol := range nav.Descendants(descriptor, "r0:AudioChannelLabelSubDescriptor/r1:MCATagSymbol") {
		channels = append(channels, strings.TrimSpace(symbol.Text()))
	}

	spokenLanguage, _ := nav.Text(descriptor, "r1:RFC5646SpokenLanguage")
	soundfield, _ := nav.Text(descriptor, "r0:SoundfieldGroupLabelSubDescriptor/r1:MCATagSymbol")

	return &AudioTrack{
		TrackInfo:         info,
		SpokenLanguage:    spokenLanguage,
		Channels:          channels,
		Soundfield:        soundfield,
		ContainerFormat:   textOrNone(nav, descriptor, "r1:ContainerFormat"),
		ChannelAssignment: textOrNone(nav, descriptor, "r1:ChannelAssignment"),
	}, nil
}

func newSubtitleTrack(nav Navigator, descriptor *etree.Element, info TrackInfo) (*SubtitleTrack, error) {
	rate, err := descriptorSampleRate(nav, descriptor)
	if err != nil {
		return nil, err
	}
	info.SampleRate = rate

	subtitleLanguage, _ := nav.Text(descriptor, "r2:RFC5646LanguageTagList")

	return &SubtitleTrack{
		TrackInfo:        info,
		SubtitleLanguage: subtitleLanguage,
		ContainerFormat:  textOrNone(nav, descriptor, "r1:ContainerFormat"),
	}, nil
}
