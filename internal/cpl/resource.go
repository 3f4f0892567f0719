package cpl

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/beevik/etree"
)

// resourceTotals is the output of aggregating one virtual track's resource
// list: the summed duration of contributing resources, how many contributed,
// and the SHA-1 digest over their canonical field strings.
type resourceTotals struct {
	duration    Rational
	count       int
	fingerprint string
}

// aggregateResources walks resources in document order. Each resource's
// entry point, duration, repeat count, and track file id are fed into the
// fingerprint accumulator in that fixed order, so the digest is sensitive to
// both field values and resource order. Resources whose computed duration is
// zero contribute nothing: not to the total, not to the count, not to the
// digest. A resource missing both duration fields is skipped with a
// diagnostic; a malformed numeric field fails the whole parse.
func aggregateResources(nav Navigator, resources []*etree.Element, fallbackRate Rational, logger *slog.Logger) (resourceTotals, error) {
	accumulator := sha1.New()
	var total Rational
	count := 0

	for _, resource := range resources {
		editRate := fallbackRate
		if text, ok := nav.Text(resource, "cpl:EditRate"); ok {
			parsed, err := ParseRationalPair(text)
			if err != nil {
				return resourceTotals{}, fmt.Errorf("resource edit rate: %w", err)
			}
			if !parsed.IsZero() {
				editRate = parsed
			}
		}

		entryUnits := int64(0)
		if text, ok := nav.Text(resource, "cpl:EntryPoint"); ok {
			parsed, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return resourceTotals{}, fmt.Errorf("resource entry point %q: %w", text, err)
			}
			entryUnits = parsed
		}
		entryPoint := editRate.Mul(NewRational(entryUnits, 1))

		durationText, ok := nav.Text(resource, "cpl:SourceDuration")
		if !ok {
			durationText, ok = nav.Text(resource, "cpl:IntrinsicDuration")
		}
		if !ok {
			logger.Warn("resource has neither SourceDuration nor IntrinsicDuration")
			continue
		}
		durationUnits, err := strconv.ParseInt(durationText, 10, 64)
		if err != nil {
			return resourceTotals{}, fmt.Errorf("resource duration %q: %w", durationText, err)
		}
		duration, err := NewRational(durationUnits, 1).Div(editRate)
		if err != nil {
			return resourceTotals{}, fmt.Errorf("resource duration: %w", err)
		}

		if duration.IsZero() {
			continue
		}
		total = total.Add(duration)
		count++

		repeatCount := int64(1)
		if text, ok := nav.Text(resource, "cpl:RepeatCount"); ok {
			parsed, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return resourceTotals{}, fmt.Errorf("resource repeat count %q: %w", text, err)
			}
			repeatCount = parsed
		}

		trackFileID := "None"
		if text, ok := nav.Text(resource, "cpl:TrackFileId"); ok {
			trackFileID = text
		}

		io.WriteString(accumulator, entryPoint.String())
		io.WriteString(accumulator, duration.String())
		io.WriteString(accumulator, strconv.FormatInt(repeatCount, 10))
		io.WriteString(accumulator, trackFileID)
	}

	return resourceTotals{
		duration:    total,
		count:       count,
		fingerprint: hex.EncodeToString(accumulator.Sum(nil)),
	}, nil
}
