package said

import "errors"

var (
	ErrBadDigestCode    = errors.New("said: unsupported digest code")
	ErrSAIDMismatch     = errors.New("said: computed SAID does not match stored value")
	ErrMissingLabel     = errors.New("said: SAD is missing the SAID label")
	ErrBadSignatureCode = errors.New("said: unsupported signature code")
	ErrBadKeyLength     = errors.New("said: wrong key length for this algorithm")
	ErrVerifyFailed     = errors.New("said: signature verification failed")
	ErrBadThreshold     = errors.New("said: malformed threshold expression")
	ErrThresholdNotMet  = errors.New("said: threshold not satisfied")
	ErrBadPath          = errors.New("said: malformed SAD path")
	ErrNonDigestive     = errors.New("said: prefix derivation requires a single non-digestive key")
	ErrDelegationNeedsSAID = errors.New("said: delegated identifiers require a digestive prefix")
)
