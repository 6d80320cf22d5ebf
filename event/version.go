package event

import (
	"fmt"
)

// Protocol identifies the message family a version string declares.
type Protocol string

const (
	ProtocolKERI Protocol = "KERI"
	ProtocolACDC Protocol = "ACDC"
)

// DefaultProtocolVersion is the two-hex-digit protocol version this package
// emits ("10" = major 1, minor 0).
const DefaultProtocolVersion = "10"

// BuildVersionString renders a message's "v" field: protocol(4) +
// version(2 hex) + "JSON" + size(6 hex) + "_", e.g. "KERI10JSON000123_".
// size is the byte length of the serialized body with this very field's
// size digits already in place (the builder fixes it up by re-serializing
// once the true size is known).
func BuildVersionString(proto Protocol, size int) string {
	return fmt.Sprintf("%s%sJSON%06x_", proto, DefaultProtocolVersion, size)
}

// ParseVersionString extracts the protocol and declared size from a "v"
// field.
func ParseVersionString(v string) (Protocol, int, error) {
	if len(v) != 17 {
		return "", 0, fmt.Errorf("%w: wrong length %d", ErrBadVersionString, len(v))
	}
	if v[16] != '_' {
		return "", 0, fmt.Errorf("%w: missing trailing underscore", ErrBadVersionString)
	}
	proto := Protocol(v[0:4])
	switch proto {
	case ProtocolKERI, ProtocolACDC:
	default:
		return "", 0, fmt.Errorf("%w: unknown protocol %q", ErrBadVersionString, proto)
	}
	if v[6:10] != "JSON" {
		return "", 0, fmt.Errorf("%w: unsupported serialization kind %q", ErrBadVersionString, v[6:10])
	}
	var size int
	if _, err := fmt.Sscanf(v[10:16], "%06x", &size); err != nil {
		return "", 0, fmt.Errorf("%w: bad size field: %v", ErrBadVersionString, err)
	}
	return proto, size, nil
}
