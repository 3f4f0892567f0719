// Package labels translates the coded identifiers found in essence
// descriptors (SMPTE universal labels and scheme URNs) into display names.
//
// The dictionary is a working subset covering the identifiers that show up
// in IMF App #2E packages; unknown codes pass through unchanged, so an
// incomplete table degrades to raw URNs rather than errors.
package labels

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var names = map[string]string{
	// Picture compression
	"urn:smpte:ul:060e2b34.0401010d.04010202.03010103": "JPEG 2000 Broadcast Contribution Single Tile Lossy Profile",
	"urn:smpte:ul:060e2b34.0401010d.04010202.03010112": "JPEG 2000 IMF 2K Lossy Profile",
	"urn:smpte:ul:060e2b34.0401010d.04010202.03010113": "JPEG 2000 IMF 4K Lossy Profile",
	"urn:smpte:ul:060e2b34.0401010d.04010202.03010114": "JPEG 2000 IMF 8K Lossy Profile",

	// Container formats
	"urn:smpte:ul:060e2b34.04010107.0d010301.027f0100": "MXF-GC Generic Essence Container",
	"urn:smpte:ul:060e2b34.0401010c.0d010301.020c0100": "MXF-GC JPEG 2000 Picture Container",
	"urn:smpte:ul:060e2b34.04010101.0d010301.02060100": "MXF-GC AES3/BWF Audio Container",
	"urn:smpte:ul:060e2b34.0401010a.0d010301.02130101": "MXF-GC Timed Text Container",

	// Transfer characteristics
	"urn:smpte:ul:060e2b34.04010101.04010101.01020000": "ITU-R BT.709 Transfer Characteristic",
	"urn:smpte:ul:060e2b34.0401010d.04010101.01090000": "ITU-R BT.2020 Transfer Characteristic",
	"urn:smpte:ul:060e2b34.0401010d.04010101.010a0000": "SMPTE ST 2084 (PQ) Transfer Characteristic",

	// Coding equations
	"urn:smpte:ul:060e2b34.04010101.04010101.02020000": "ITU-R BT.709 Coding Equations",
	"urn:smpte:ul:060e2b34.0401010d.04010101.02060000": "ITU-R BT.2020 Non-Constant Luminance Coding Equations",

	// Color primaries
	"urn:smpte:ul:060e2b34.04010106.04010101.03030000": "ITU-R BT.709 Color Primaries",
	"urn:smpte:ul:060e2b34.0401010d.04010101.03040000": "ITU-R BT.2020 Color Primaries",
	"urn:smpte:ul:060e2b34.0401010d.04010101.03060000": "P3-D65 Color Primaries",

	// Audio channel assignments
	"urn:smpte:ul:060e2b34.0401010d.04020210.04010000": "IMF Multichannel Audio Framework",
	"urn:smpte:ul:060e2b34.04010101.04020210.01000000": "SMPTE ST 2067-8 Channel Assignment",
}

// Lookup returns the display name for a coded identifier, or the code
// itself when it is not in the dictionary.
func Lookup(code string) string {
	if name, ok := names[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

// LanguageName renders an RFC 5646 language tag as an English display name,
// e.g. "en-US" becomes "American English". Tags that do not parse pass
// through unchanged.
func LanguageName(tag string) string {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return ""
	}
	parsed, err := language.Parse(trimmed)
	if err != nil {
		return tag
	}
	return display.English.Languages().Name(parsed)
}
