package kel

import "errors"

var (
	ErrBadSequence      = errors.New("kel: sequence number invariant violated")
	ErrOutOfOrder       = errors.New("kel: event sequence number exceeds the stored event count")
	ErrBadPrefix        = errors.New("kel: prefix does not verify against the inception event")
	ErrBadSaid          = errors.New("kel: event SAID does not verify")
	ErrSignatureFailed  = errors.New("kel: signer index out of range or signature did not verify")
	ErrThresholdNotMet  = errors.New("kel: signing threshold not satisfied")
	ErrBadPriorLink     = errors.New("kel: prior event link does not match")
	ErrRotationMismatch = errors.New("kel: rotated signer does not match prior next-key commitment")
	ErrDiverged         = errors.New("kel: stored event SAID diverges from the re-verified event")
)
