package ingest

import "errors"

var (
	ErrUnknownProtocol    = errors.New("ingest: unrecognised protocol in version string")
	ErrUnknownIlk         = errors.New("ingest: unrecognised event ilk")
	ErrBadAttachmentGroup = errors.New("ingest: attachment group does not match the ilk's required variant")
)
