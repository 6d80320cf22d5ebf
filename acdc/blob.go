package acdc

import (
	"github.com/datatrails/go-keri-core/attach"
	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/kerr"
)

// DateTimeLayout is the ISO-8601-with-microseconds layout KERI/ACDC "dt"
// fields use, e.g. "2026-01-01T00:00:00.000000+00:00".
const DateTimeLayout = "2006-01-02T15:04:05.000000-07:00"

// splitBlob separates a committed credential (body ∥ attachments) blob
// back into its Sad and parsed Attachments, mirroring kel.splitBlob and
// tel.splitBlob for the ACDC store address space (keyed by SAID).
func splitBlob(blob []byte) (*event.Sad, *attach.Attachments, error) {
	sad, n, err := event.ParseSadPrefix(blob)
	if err != nil {
		return nil, nil, kerr.New(kerr.Decoding, err, "parsing stored credential body")
	}
	rest := string(blob[n:])
	if body, perr := attach.ParsePipelined(rest); perr == nil {
		rest = body
	}
	atts, err := attach.ParseGroups(rest)
	if err != nil {
		return nil, nil, kerr.New(kerr.Decoding, err, "parsing stored credential attachments")
	}
	return sad, atts, nil
}
