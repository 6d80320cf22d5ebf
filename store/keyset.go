package store

import (
	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/said"
)

// KeySet is an ordered bundle of private signers materialized only for the
// duration of a signing call (§3, §5 "Sensitive material"). IndexOffset
// shifts the signing indices recorded in produced Indexer signatures,
// letting a partial key set sign starting partway through a larger current
// key list (e.g. a multi-sig participant holding only some of the keys).
type KeySet struct {
	signers      []*said.Signer
	indexOffset  uint32
	transferable bool
}

// NewKeySet wraps an ordered list of signers.
func NewKeySet(signers []*said.Signer, indexOffset uint32, transferable bool) *KeySet {
	return &KeySet{signers: append([]*said.Signer(nil), signers...), indexOffset: indexOffset, transferable: transferable}
}

// Len returns the number of signers in the set.
func (k *KeySet) Len() int { return len(k.signers) }

// At returns the i'th signer.
func (k *KeySet) At(i int) *said.Signer { return k.signers[i] }

// IndexOffset returns the offset added to each signer's position to get
// its recorded signing index.
func (k *KeySet) IndexOffset() uint32 { return k.indexOffset }

// Transferable reports whether this set's keys are transferable.
func (k *KeySet) Transferable() bool { return k.transferable }

// SignAll signs ser with every signer in the set, producing one indexed
// signature per signer at its offset-adjusted index.
func (k *KeySet) SignAll(ser []byte, bothLists bool) ([]*Sig, error) {
	out := make([]*Sig, 0, len(k.signers))
	for i, signer := range k.signers {
		idx := k.indexOffset + uint32(i)
		indexer, err := signer.Sign(ser, idx, bothLists)
		if err != nil {
			return nil, err
		}
		out = append(out, &Sig{Index: idx, Indexer: indexer})
	}
	return out, nil
}

// Zero overwrites every signer's private key material in place.
func (k *KeySet) Zero() {
	for _, signer := range k.signers {
		signer.Zero()
	}
}

// Sig pairs a produced signature with the signing index it was recorded
// at, mirroring SignAll's indexing for callers that need both.
type Sig struct {
	Index   uint32
	Indexer *cesr.Indexer
}
