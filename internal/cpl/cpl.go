package cpl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"cplscan/internal/logging"
)

// Namespace sets the classifier accepts. An unrecognized playlist namespace
// is only a diagnostic: unknown-but-compatible schema revisions are common
// in the wild. An unrecognized sequence namespace drops that sequence.
var (
	compatibleCPLNamespaces = map[string]bool{
		"http://www.smpte-ra.org/schemas/2067-3/2013": true,
		"http://www.smpte-ra.org/schemas/2067-3/2016": true,
	}

	compatibleCoreNamespaces = map[string]bool{
		"http://www.smpte-ra.org/schemas/2067-2/2013": true,
		"http://www.smpte-ra.org/schemas/2067-2/2016": true,
		"http://www.smpte-ra.org/ns/2067-2/2020":      true,
	}

	// RegXML metadata namespaces used inside essence descriptors. These do
	// not vary with the playlist schema revision.
	regXMLNamespaces = map[string]string{
		"r0": "http://www.smpte-ra.org/reg/395/2014/13/1/aaf",
		"r1": "http://www.smpte-ra.org/reg/335/2012",
		"r2": "http://www.smpte-ra.org/reg/2003/2012",
	}
)

// Fatal parse failures. Everything else degrades to a dropped track or
// resource with a logged diagnostic.
var (
	ErrEmptyDocument       = errors.New("document has no root element")
	ErrMissingEditRate     = errors.New("composition playlist is missing EditRate")
	ErrZeroEditRate        = errors.New("composition playlist EditRate is zero")
	ErrMissingSequenceList = errors.New("composition playlist has no segment sequence list")
)

// CompositionPlaylist is the parsed model of one CPL document.
type CompositionPlaylist struct {
	// Namespace is the schema URI observed on the root element.
	Namespace string
	// ID is the playlist's Id, normalized to canonical UUID form when it is
	// a urn:uuid value. Empty when the document omits it.
	ID string
	// ContentTitle may be empty; playlists are not required to carry one.
	ContentTitle string
	// EditRate is the playlist edit rate, guaranteed non-zero. It is the
	// fallback rate for resources that omit their own.
	EditRate Rational
	// VirtualTracks holds the accepted tracks in document order. Sequences
	// that could not be classified are absent, so this can be shorter than
	// the document's sequence count.
	VirtualTracks []VirtualTrack
}

// ParseFile parses the CPL document at path.
func ParseFile(path string, logger *slog.Logger) (*CompositionPlaylist, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("read playlist %s: %w", path, err)
	}
	return parseDocument(doc, logger)
}

// ParseString parses a CPL document held in a string.
func ParseString(content string, logger *slog.Logger) (*CompositionPlaylist, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}
	return parseDocument(doc, logger)
}

// Parse parses a CPL document from r.
func Parse(r io.Reader, logger *slog.Logger) (*CompositionPlaylist, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}
	return parseDocument(doc, logger)
}

func parseDocument(doc *etree.Document, logger *slog.Logger) (*CompositionPlaylist, error) {
	root := doc.Root()
	if root == nil {
		return nil, ErrEmptyDocument
	}
	return ParseDocument(root, logger)
}

// ParseDocument assembles a playlist model from an already-parsed root
// element, for callers that run their own XML pipeline. A nil logger
// disables diagnostics.
func ParseDocument(root *etree.Element, logger *slog.Logger) (*CompositionPlaylist, error) {
	logger = logging.NewComponentLogger(logger, "cpl")

	namespace := root.NamespaceURI()
	if !compatibleCPLNamespaces[namespace] {
		logger.Error("unknown CompositionPlaylist namespace", "namespace", namespace)
	}
	if root.Tag != "CompositionPlaylist" {
		logger.Error("unknown CompositionPlaylist element name",
			"element", qualifiedName(namespace, root.Tag))
	}

	nav := NewNavigator(map[string]string{"cpl": namespace})
	regNav := NewNavigator(regXMLNamespaces)

	playlist := &CompositionPlaylist{Namespace: namespace}

	if id, ok := nav.ChildText(root, "cpl:Id"); ok {
		playlist.ID = normalizeID(id)
	}
	playlist.ContentTitle, _ = nav.Text(root, "cpl:ContentTitle")

	editText, ok := nav.Text(root, "cpl:EditRate")
	if !ok {
		return nil, ErrMissingEditRate
	}
	editRate, err := ParseRationalPair(editText)
	if err != nil {
		return nil, fmt.Errorf("playlist edit rate: %w", err)
	}
	if editRate.IsZero() {
		return nil, ErrZeroEditRate
	}
	playlist.EditRate = editRate

	sequenceList := nav.First(root, "cpl:SegmentList/cpl:Segment/cpl:SequenceList")
	if sequenceList == nil {
		return nil, ErrMissingSequenceList
	}

	for _, sequence := range sequenceList.ChildElements() {
		track, err := classifySequence(nav, regNav, root, sequence, editRate, logger)
		if err != nil {
			return nil, err
		}
		if track != nil {
			playlist.VirtualTracks = append(playlist.VirtualTracks, track)
		}
	}

	return playlist, nil
}

// classifySequence evaluates one sequence element. A nil, nil return means
// the sequence was rejected and logged; only structural failures return an
// error.
func classifySequence(nav, regNav Navigator, root, sequence *etree.Element, playlistRate Rational, logger *slog.Logger) (VirtualTrack, error) {
	trackID, ok := nav.ChildText(sequence, "cpl:TrackId")
	if !ok {
		logger.Error("sequence is missing TrackId")
		return nil, nil
	}

	sequenceNS := sequence.NamespaceURI()
	if !compatibleCoreNamespaces[sequenceNS] {
		logger.Warn("unknown virtual track namespace", "namespace", sequenceNS, "track_id", trackID)
		return nil, nil
	}

	var build func(Navigator, *etree.Element, TrackInfo) (VirtualTrack, error)
	switch sequence.Tag {
	case "MainImageSequence":
		build = func(n Navigator, d *etree.Element, i TrackInfo) (VirtualTrack, error) {
			return newImageTrack(n, d, i)
		}
	case "MainAudioSequence":
		build = func(n Navigator, d *etree.Element, i TrackInfo) (VirtualTrack, error) {
			return newAudioTrack(n, d, i)
		}
	case "SubtitlesSequence":
		build = func(n Navigator, d *etree.Element, i TrackInfo) (VirtualTrack, error) {
			return newSubtitleTrack(n, d, i)
		}
	default:
		logger.Warn("unknown sequence kind", "kind", sequence.Tag, "track_id", trackID)
		return nil, nil
	}

	sourceEncoding, ok := nav.Text(sequence, "cpl:SourceEncoding")
	if !ok {
		logger.Error("sequence has no source encoding reference", "track_id", trackID)
		return nil, nil
	}

	descriptor := findEssenceDescriptor(nav, root, sourceEncoding)
	if descriptor == nil {
		logger.Error("no essence descriptor matches source encoding",
			"track_id", trackID, "source_encoding", sourceEncoding)
		return nil, nil
	}

	totals, err := aggregateResources(nav, trackResources(nav, root, trackID), playlistRate, logger)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", trackID, err)
	}

	track, err := build(regNav, descriptor, TrackInfo{
		TrackID:       trackID,
		Fingerprint:   totals.fingerprint,
		Duration:      totals.duration,
		ResourceCount: totals.count,
	})
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", trackID, err)
	}
	return track, nil
}

// findEssenceDescriptor locates the EssenceDescriptor whose Id equals ref,
// searching the whole document.
func findEssenceDescriptor(nav Navigator, root *etree.Element, ref string) *etree.Element {
	for _, descriptor := range nav.Descendants(root, "cpl:EssenceDescriptor") {
		if id, ok := nav.ChildText(descriptor, "cpl:Id"); ok && id == ref {
			return descriptor
		}
	}
	return nil
}

// trackResources gathers the Resource elements of every sequence carrying
// trackID, across all segments, in document order.
func trackResources(nav Navigator, root *etree.Element, trackID string) []*etree.Element {
	var resources []*etree.Element
	for _, list := range nav.All(root, "cpl:SegmentList/cpl:Segment/cpl:SequenceList") {
		for _, sequence := range list.ChildElements() {
			if id, ok := nav.ChildText(sequence, "cpl:TrackId"); !ok || id != trackID {
				continue
			}
			resources = append(resources, nav.All(sequence, "cpl:ResourceList/cpl:Resource")...)
		}
	}
	return resources
}

// normalizeID canonicalizes urn:uuid identifiers; anything else passes
// through untouched.
func normalizeID(value string) string {
	trimmed := strings.TrimSpace(value)
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return parsed.String()
	}
	return trimmed
}

// ImageTracks returns the playlist's image tracks in document order.
func (p *CompositionPlaylist) ImageTracks() []*ImageTrack {
	var tracks []*ImageTrack
	for _, vt := range p.VirtualTracks {
		if t, ok := vt.(*ImageTrack); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// AudioTracks returns the playlist's audio tracks in document order.
func (p *CompositionPlaylist) AudioTracks() []*AudioTrack {
	var tracks []*AudioTrack
	for _, vt := range p.VirtualTracks {
		if t, ok := vt.(*AudioTrack); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// SubtitleTracks returns the playlist's subtitle tracks in document order.
func (p *CompositionPlaylist) SubtitleTracks() []*SubtitleTrack {
	var tracks []*SubtitleTrack
	for _, vt := range p.VirtualTracks {
		if t, ok := vt.(*SubtitleTrack); ok {
			tracks = append(tracks, t)
		}
	}
	return tracks
}
