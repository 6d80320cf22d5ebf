package attach

import (
	"testing"

	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/said"
	"github.com/stretchr/testify/require"
)

func testSigner(t *testing.T, path string) *said.Signer {
	t.Helper()
	salter, err := said.NewSalter([]byte("0123456789abcdef"))
	require.NoError(t, err)
	signer, err := salter.SignerAt(path, false, false)
	require.NoError(t, err)
	return signer
}

func TestEndorseUnanchoredRoundTrip(t *testing.T) {
	signer := testSigner(t, "00")
	ser := []byte("a serialized event body")
	sig, err := signer.Sign(ser, 0, false)
	require.NoError(t, err)

	atc, err := Endorse(EndorseArgs{Sigers: []*cesr.Indexer{sig}})
	require.NoError(t, err)

	atts, err := ParseGroups(atc)
	require.NoError(t, err)
	require.Len(t, atts.ControllerIdxSigs, 1)
	require.True(t, signer.Verfer().VerifyIndexed(ser, atts.ControllerIdxSigs[0]))
}

func TestEndorseWithSealRoundTrip(t *testing.T) {
	signer := testSigner(t, "01")
	ser := []byte("a delegated or witnessed event body")
	sig, err := signer.Sign(ser, 0, false)
	require.NoError(t, err)

	seal := &Seal{
		Prefixer: said.NewPrefixer(signer.Verfer().Qb64()),
		Seqner:   said.NewSeqner(3),
		Saider:   mustDiger(t, []byte("sealing event")),
	}

	atc, err := Endorse(EndorseArgs{Sigers: []*cesr.Indexer{sig}, Seal: seal})
	require.NoError(t, err)

	atts, err := ParseGroups(atc)
	require.NoError(t, err)
	require.Len(t, atts.TransIdxSigGroups, 1)
	g := atts.TransIdxSigGroups[0]
	require.Equal(t, seal.Prefixer.Pre(), g.Prefixer.Pre())
	require.Equal(t, seal.Seqner.Sn(), g.Seqner.Sn())
	require.Equal(t, seal.Saider.Qb64(), g.Saider.Qb64())
	require.Len(t, g.Sigers, 1)
	require.True(t, signer.Verfer().VerifyIndexed(ser, g.Sigers[0]))
}

func TestEndorseWithLastSealRoundTrip(t *testing.T) {
	signer := testSigner(t, "02")
	ser := []byte("anchored to the signer's latest state")
	sig, err := signer.Sign(ser, 0, false)
	require.NoError(t, err)

	seal := &Seal{
		Prefixer: said.NewPrefixer(signer.Verfer().Qb64()),
		Last:     true,
	}

	atc, err := Endorse(EndorseArgs{Sigers: []*cesr.Indexer{sig}, Seal: seal})
	require.NoError(t, err)

	atts, err := ParseGroups(atc)
	require.NoError(t, err)
	require.Len(t, atts.TransLastIdxSigGroups, 1)
	g := atts.TransLastIdxSigGroups[0]
	require.Equal(t, seal.Prefixer.Pre(), g.Prefixer.Pre())
	require.Len(t, g.Sigers, 1)
	require.True(t, signer.Verfer().VerifyIndexed(ser, g.Sigers[0]))
}

func TestEndorseWithWitnessesAndReceipts(t *testing.T) {
	controller := testSigner(t, "03")
	witness := testSigner(t, "04")
	nonTrans, err := said.NewSignerFromSeed(make([]byte, 32), false, false)
	require.NoError(t, err)

	ser := []byte("witnessed event body")
	csig, err := controller.Sign(ser, 0, false)
	require.NoError(t, err)
	wsig, err := witness.Sign(ser, 0, false)
	require.NoError(t, err)
	cig, err := nonTrans.SignNonIndexed(ser)
	require.NoError(t, err)

	atc, err := Endorse(EndorseArgs{
		Sigers: []*cesr.Indexer{csig},
		Wigers: []*cesr.Indexer{wsig},
		Cigars: []Cigar{{Verfer: nonTrans.Verfer(), Sig: cig}},
	})
	require.NoError(t, err)

	atts, err := ParseGroups(atc)
	require.NoError(t, err)
	require.Len(t, atts.ControllerIdxSigs, 1)
	require.Len(t, atts.WitnessIdxSigs, 1)
	require.Len(t, atts.NonTransReceiptCouples, 1)
	require.True(t, nonTrans.Verfer().VerifyMatter(ser, atts.NonTransReceiptCouples[0].Sig))
}

func TestEndorseRejectsTransferableReceiptVerfer(t *testing.T) {
	salter, err := said.NewSalter([]byte("0123456789abcdef"))
	require.NoError(t, err)
	signer, err := salter.SignerAt("05", false, true)
	require.NoError(t, err)
	ser := []byte("body")
	sig, err := signer.SignNonIndexed(ser)
	require.NoError(t, err)

	_, err = Endorse(EndorseArgs{
		Cigars: []Cigar{{Verfer: signer.Verfer(), Sig: sig}},
	})
	require.ErrorIs(t, err, ErrNonTransferableRequired)
}

func TestMessagizePipelinedAndNot(t *testing.T) {
	raw := []byte(`{"v":"KERI10JSON000000_"}`)
	signer := testSigner(t, "06")
	sig, err := signer.Sign(raw, 0, false)
	require.NoError(t, err)
	atc, err := Endorse(EndorseArgs{Sigers: []*cesr.Indexer{sig}})
	require.NoError(t, err)

	plain, err := Messagize(raw, atc, false)
	require.NoError(t, err)
	require.Equal(t, append(append([]byte{}, raw...), []byte(atc)...), plain)

	piped, err := Messagize(raw, atc, true)
	require.NoError(t, err)
	require.True(t, len(piped) > len(plain))

	body := piped[:len(raw)]
	require.Equal(t, raw, body)
	rest, err := ParsePipelined(string(piped[len(raw):]))
	require.NoError(t, err)
	require.Equal(t, atc, rest)

	atts, err := ParseGroups(rest)
	require.NoError(t, err)
	require.Len(t, atts.ControllerIdxSigs, 1)
}

func TestMessagizeRejectsBadQuadletLength(t *testing.T) {
	_, err := Messagize([]byte("x"), "abc", false)
	require.ErrorIs(t, err, ErrBadQuadletLength)
}

func TestRatifyCrederRoundTrip(t *testing.T) {
	signer := testSigner(t, "07")
	ser := []byte("an ACDC body being ratified")
	sig, err := signer.Sign(ser, 0, false)
	require.NoError(t, err)

	prefixer := said.NewPrefixer(signer.Verfer().Qb64())
	seqner := said.NewSeqner(7)
	saider := mustDiger(t, []byte("the ratifying KEL event"))

	atc, err := RatifyCreder(prefixer, seqner, saider, []*cesr.Indexer{sig})
	require.NoError(t, err)

	atts, err := ParseGroups(atc)
	require.NoError(t, err)
	require.Len(t, atts.SadPathSigGroups, 1)

	sp := atts.SadPathSigGroups[0]
	require.True(t, sp.Pather.IsRoot())
	require.Equal(t, prefixer.Pre(), sp.Group.Prefixer.Pre())
	require.Equal(t, seqner.Sn(), sp.Group.Seqner.Sn())
	require.Equal(t, saider.Qb64(), sp.Group.Saider.Qb64())
	require.Len(t, sp.Group.Sigers, 1)
	require.True(t, signer.Verfer().VerifyIndexed(ser, sp.Group.Sigers[0]))
}

func TestRenderSealSourceCouplesRoundTrip(t *testing.T) {
	couples := []SealSourceCouple{
		{Seqner: said.NewSeqner(1), Saider: mustDiger(t, []byte("first anchor"))},
		{Seqner: said.NewSeqner(2), Saider: mustDiger(t, []byte("second anchor"))},
	}
	atc, err := RenderSealSourceCouples(couples)
	require.NoError(t, err)

	atts, err := ParseGroups(atc)
	require.NoError(t, err)
	require.Len(t, atts.SealSourceCouples, 2)
	for i, c := range couples {
		require.Equal(t, c.Seqner.Sn(), atts.SealSourceCouples[i].Seqner.Sn())
		require.Equal(t, c.Saider.Qb64(), atts.SealSourceCouples[i].Saider.Qb64())
	}
}

func TestParseGroupsRejectsUnknownCounter(t *testing.T) {
	_, err := ParseGroups("not a counter at all")
	require.Error(t, err)
}

func TestParsePipelinedRequiresQuadletHeader(t *testing.T) {
	_, err := ParsePipelined("no header here")
	require.ErrorIs(t, err, ErrMissingQuadletHeader)
}

func mustDiger(t *testing.T, ser []byte) *said.Diger {
	t.Helper()
	d, err := said.NewDiger("", ser)
	require.NoError(t, err)
	return d
}
