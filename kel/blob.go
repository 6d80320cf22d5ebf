package kel

import (
	"github.com/datatrails/go-keri-core/attach"
	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/kerr"
)

// splitBlob separates a committed (body ∥ attachments) blob back into its
// Sad and parsed Attachments. The attachment text may or may not carry a
// pipelining header; both forms are accepted since the store itself is
// agnostic to which Messagize mode produced the blob.
func splitBlob(blob []byte) (*event.Sad, *attach.Attachments, error) {
	sad, n, err := event.ParseSadPrefix(blob)
	if err != nil {
		return nil, nil, kerr.New(kerr.Decoding, err, "parsing stored event body")
	}
	rest := string(blob[n:])
	if body, perr := attach.ParsePipelined(rest); perr == nil {
		rest = body
	}
	atts, err := attach.ParseGroups(rest)
	if err != nil {
		return nil, nil, kerr.New(kerr.Decoding, err, "parsing stored attachments")
	}
	return sad, atts, nil
}
