package attach

import "errors"

var (
	ErrNonTransferableRequired = errors.New("attach: receipt verfer must be non-transferable")
	ErrBadQuadletLength        = errors.New("attach: attachment length is not a multiple of 4")
	ErrUnknownGroup            = errors.New("attach: unrecognized attachment group code")
	ErrTruncatedGroup          = errors.New("attach: attachment group truncated before its declared count")
	ErrMissingQuadletHeader    = errors.New("attach: pipelined message missing its quadlet header")
)
