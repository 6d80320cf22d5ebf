package acdc

import "errors"

var (
	ErrMissingRegistry     = errors.New("acdc: credential is missing its registry identifier")
	ErrBadSaid             = errors.New("acdc: credential SAID does not verify")
	ErrNoIssuance          = errors.New("acdc: credential has no transaction event log entry")
	ErrExpired             = errors.New("acdc: credential status is older than the configured expiry")
	ErrRevoked             = errors.New("acdc: credential has been revoked")
	ErrSchemaFailed        = errors.New("acdc: credential attributes do not validate against their schema")
	ErrNoRootedSignature   = errors.New("acdc: credential carries no rooted SadPathSig group")
	ErrRootedSaidMismatch  = errors.New("acdc: rooted signature's anchored KEL event SAID does not match")
	ErrThresholdNotMet     = errors.New("acdc: rooted signature threshold not satisfied")
	ErrSignatureFailed     = errors.New("acdc: signer index out of range or signature did not verify")
	ErrEdgeOperatorNot     = errors.New("acdc: edge operator \"NOT\" is not permitted")
	ErrEdgeOperatorCount   = errors.New("acdc: edge must resolve to exactly one unary operator")
	ErrEdgeIssuerMismatch  = errors.New("acdc: I2I edge target issuer does not match the credential issuer")
	ErrEdgeSchemaMismatch  = errors.New("acdc: edge's pinned schema does not match its target's schema")
	ErrDI2IUnimplemented   = errors.New("acdc: the DI2I edge operator is not implemented")
	ErrDiverged            = errors.New("acdc: stored credential SAID diverges from the re-verified credential")
)
