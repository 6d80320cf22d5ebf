// Package attach assembles and parses CESR attachment groups: the
// counter-framed signature, receipt, and anchor material that trails a
// serialized event or credential body on the wire (§4.3).
package attach

import (
	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/said"
)

// Cigar is a non-indexed signature couple (verfer, signature), used for
// witness receipts and other non-transferable receipts.
type Cigar struct {
	Verfer *said.Verfer
	Sig    *cesr.Matter
}

// TransIdxSigGroup anchors a set of indexed signatures to a specific,
// already-established point in the signer's own KEL: its prefix, sequence
// number, and event SAID.
type TransIdxSigGroup struct {
	Prefixer *said.Prefixer
	Seqner   *said.Seqner
	Saider   *said.Diger
	Sigers   []*cesr.Indexer
}

// TransLastIdxSigGroup anchors indexed signatures to the signer's latest
// established KEL state without pinning a specific sequence number.
type TransLastIdxSigGroup struct {
	Prefixer *said.Prefixer
	Sigers   []*cesr.Indexer
}

// SealSourceCouple anchors a TEL event into the KEL event that sealed it.
type SealSourceCouple struct {
	Seqner *said.Seqner
	Saider *said.Diger
}

// SadPathSigGroup scopes a TransIdxSigGroup to a sub-path of the signed
// SAD; the root path ("-") signs the whole body.
type SadPathSigGroup struct {
	Pather *said.Pather
	Group  TransIdxSigGroup
}

// Attachments is the parsed contents of one attachment stream: every group
// kind that appeared, in arrival order within each kind.
type Attachments struct {
	ControllerIdxSigs      []*cesr.Indexer
	WitnessIdxSigs         []*cesr.Indexer
	NonTransReceiptCouples []Cigar
	TransIdxSigGroups      []TransIdxSigGroup
	TransLastIdxSigGroups  []TransLastIdxSigGroup
	SealSourceCouples      []SealSourceCouple
	SadPathSigGroups       []SadPathSigGroup
}
