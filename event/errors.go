package event

import "errors"

var (
	ErrBadWitnessSet    = errors.New("event: witness set contains duplicates")
	ErrBadSequence      = errors.New("event: sequence number invariant violated")
	ErrCutsAddsOverlap  = errors.New("event: witness cuts and adds overlap")
	ErrWitsAddsOverlap  = errors.New("event: adds already present in witness set")
	ErrDelegationNeedsSAID = errors.New("event: delegated inception requires a digestive prefix")
	ErrBadVersionString = errors.New("event: malformed version string")
	ErrBadLabelSet      = errors.New("event: SAD fields do not match the expected label set for this ilk")
	ErrUnknownIlk       = errors.New("event: unrecognized ilk")
)
