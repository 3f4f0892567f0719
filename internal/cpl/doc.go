// Package cpl parses IMF Composition Playlists (SMPTE ST 2067-3) into a
// typed model of virtual tracks.
//
// A playlist is resolved in a single pass: the segment/sequence hierarchy is
// flattened into image, audio, and subtitle tracks, each annotated with
// metadata from its essence descriptor and identified by a deterministic
// SHA-1 fingerprint computed over its resource list. Two tracks with
// byte-identical resource sequences always produce identical fingerprints,
// which is what downstream consumers use to recognize the same track across
// different playlists.
//
// Parsing is tolerant by design: sequences that cannot be classified (missing
// TrackId, unknown namespace or kind, unresolvable descriptor reference) are
// logged and dropped rather than failing the parse. Only structural problems
// abort: unparsable XML, a missing or zero playlist EditRate, or descriptor
// fields that are required and have no fallback.
//
// Primary entry points:
//   - ParseFile, ParseString, Parse: parse a playlist from a path, string, or reader
//   - ParseDocument: parse from an already-built etree element
//   - ProcessFile: parse and render straight to JSON
package cpl
