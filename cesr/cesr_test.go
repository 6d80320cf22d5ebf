package cesr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatterRoundTrip(t *testing.T) {
	for code := range matterSizes {
		t.Run(code, func(t *testing.T) {
			_, rawLen, ok := MatterSizage(code)
			require.True(t, ok)
			raw := bytes.Repeat([]byte{0x01}, rawLen)
			m, err := NewMatterWithRaw(code, raw)
			require.NoError(t, err)

			qb64 := m.Qb64()
			sizage, _, _ := MatterSizage(code)
			assert.Equal(t, sizage.FS, len(qb64), "qb64 length must equal the code's full size")

			back, err := NewMatterFromQb64(qb64)
			require.NoError(t, err)
			assert.Equal(t, m.Raw(), back.Raw())
			assert.Equal(t, m.Code(), back.Code())

			qb2 := m.Qb2()
			fromQb2, err := NewMatterFromQb2(qb2)
			require.NoError(t, err)
			assert.Equal(t, m.Raw(), fromQb2.Raw())
			assert.Equal(t, qb64, fromQb2.Qb64())
		})
	}
}

func TestMatterRejectsWrongRawSize(t *testing.T) {
	_, err := NewMatterWithRaw(CodeEd25519, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrBadRawSize)
}

func TestMatterUnknownCode(t *testing.T) {
	_, err := NewMatterWithRaw("zz", []byte{1})
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestIndexerRoundTripBoth(t *testing.T) {
	raw := bytes.Repeat([]byte{0x02}, 64)
	x, err := NewIndexer(CodeEd25519SigBoth, 3, 0, false, raw)
	require.NoError(t, err)

	qb64 := x.Qb64()
	assert.Len(t, qb64, 88) // matches the spec's sizage excerpt for code "A"

	back, n, err := NewIndexerFromQb64(qb64)
	require.NoError(t, err)
	assert.Equal(t, len(qb64), n)
	assert.Equal(t, uint32(3), back.Index())
	assert.Equal(t, raw, back.Raw())
}

func TestIndexerBothWithOndex(t *testing.T) {
	raw := bytes.Repeat([]byte{0x03}, 114)
	x, err := NewIndexer(CodeEd448SigBoth, 1, 1, true, raw)
	require.NoError(t, err)

	qb64 := x.Qb64()
	assert.Len(t, qb64, 156) // matches the spec's sizage excerpt for code "0A"

	back, _, err := NewIndexerFromQb64(qb64)
	require.NoError(t, err)
	ondex, has := back.Ondex()
	assert.True(t, has)
	assert.Equal(t, uint32(1), ondex)
}

func TestIndexerBigCode(t *testing.T) {
	raw := bytes.Repeat([]byte{0x04}, 64)
	x, err := NewIndexer(CodeEd25519SigBothBig, 10, 20, true, raw)
	require.NoError(t, err)
	assert.Len(t, x.Qb64(), 92) // matches the spec's sizage excerpt for code "2A"
}

func TestIndexerRejectsOversizeIndex(t *testing.T) {
	raw := bytes.Repeat([]byte{0x05}, 64)
	_, err := NewIndexer(CodeEd25519SigBoth, 1000, 0, false, raw)
	assert.ErrorIs(t, err, ErrInvalidSoftSize)
}

func TestCounterRoundTrip(t *testing.T) {
	c, err := NewCounter(CodeControllerIdxSigs, 2)
	require.NoError(t, err)

	qb64 := c.Qb64()
	back, n, err := NewCounterFromQb64(qb64)
	require.NoError(t, err)
	assert.Equal(t, len(qb64), n)
	assert.Equal(t, uint64(2), back.Count())
	assert.Equal(t, CodeControllerIdxSigs, back.Code())
}

func TestCounterQuadletFollowedByData(t *testing.T) {
	c, err := NewCounter(CodeAttachedMaterialQuadlets, 11)
	require.NoError(t, err)
	prefix := c.Qb64()

	rest := "trailing-data-not-a-counter"
	s := prefix + rest

	back, n, err := NewCounterFromQb64(s)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), back.Count())
	assert.Equal(t, s[n:], rest)
}
