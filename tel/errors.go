package tel

import "errors"

var (
	ErrBadSequence       = errors.New("tel: sequence number invariant violated")
	ErrOutOfOrder        = errors.New("tel: event sequence number exceeds the stored event count")
	ErrBadPrefix         = errors.New("tel: registry prefix does not verify against the vcp event")
	ErrBadSaid           = errors.New("tel: event SAID does not verify")
	ErrBadPriorLink      = errors.New("tel: prior event link does not match")
	ErrDiverged          = errors.New("tel: stored event SAID diverges from the re-verified event")
	ErrBadSealSourceCount = errors.New("tel: attachments must carry exactly one seal source couple")
	ErrAnchorMismatch    = errors.New("tel: anchoring KEL event does not reference this transaction event")
	ErrUnknownIlk        = errors.New("tel: unrecognized transaction event ilk")
)
