package tel_test

import (
	"context"
	"testing"

	"github.com/datatrails/go-keri-core/attach"
	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/kerr"
	"github.com/datatrails/go-keri-core/said"
	"github.com/datatrails/go-keri-core/store"
	"github.com/datatrails/go-keri-core/tel"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	st     store.Store
	signer *said.Signer
	pre    string
	nextSn uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	salter, err := said.NewSalter([]byte("0123456789abcdef"))
	require.NoError(t, err)
	signer, err := salter.SignerAt("tel-issuer", false, true)
	require.NoError(t, err)

	icp, err := event.Incept(event.InceptArgs{Keys: []string{signer.Verfer().Qb64()}})
	require.NoError(t, err)
	pre := icp.Ked().Get("i").String()

	st := store.New()
	commitKeyEvent(t, st, pre, 0, icp, signer, false)
	return &fixture{st: st, signer: signer, pre: pre, nextSn: 1}
}

func commitKeyEvent(t *testing.T, st store.Store, pre string, sn uint64, sad *event.Sad, signer *said.Signer, bothLists bool) {
	t.Helper()
	sig, err := signer.Sign(sad.Raw(), 0, bothLists)
	require.NoError(t, err)
	atc, err := attach.Endorse(attach.EndorseArgs{Sigers: []*cesr.Indexer{sig}})
	require.NoError(t, err)
	blob, err := attach.Messagize(sad.Raw(), atc, true)
	require.NoError(t, err)
	require.NoError(t, st.InsertKeyEvent(context.Background(), pre, sn, blob))
}

// anchor builds an ixn event sealing the given transaction event, commits
// it to the issuer's KEL, and returns the SealSourceCouple attachment text
// a TEL event must carry to point back at it.
func (f *fixture) anchor(t *testing.T, te *event.Sad) string {
	t.Helper()
	seal := said.NewObject()
	seal.Set("i", said.NewString(te.Ked().Get("i").String()))
	seal.Set("s", said.NewString(te.Ked().Get("s").String()))
	seal.Set("d", said.NewString(te.Said()))

	priorBlob, err := f.st.GetKeyEvent(context.Background(), f.pre, f.nextSn-1)
	require.NoError(t, err)
	priorSad, _, err := event.ParseSadPrefix(priorBlob)
	require.NoError(t, err)

	ixn, err := event.Interact(f.pre, priorSad.Said(), f.nextSn, []*said.Dat{seal})
	require.NoError(t, err)
	commitKeyEvent(t, f.st, f.pre, f.nextSn, ixn, f.signer, false)

	ixnDiger, err := said.NewDigerFromQb64(ixn.Said())
	require.NoError(t, err)
	atc, err := attach.RenderSealSourceCouples([]attach.SealSourceCouple{
		{Seqner: said.NewSeqner(f.nextSn), Saider: ixnDiger},
	})
	require.NoError(t, err)
	f.nextSn++
	return atc
}

func parseTEBlob(t *testing.T, blob []byte) (*event.Sad, *attach.Attachments) {
	t.Helper()
	sad, n, err := event.ParseSadPrefix(blob)
	require.NoError(t, err)
	rest, err := attach.ParsePipelined(string(blob[n:]))
	require.NoError(t, err)
	atts, err := attach.ParseGroups(rest)
	require.NoError(t, err)
	return sad, atts
}

func TestTELRegistryInceptionVerifiesAndReplays(t *testing.T) {
	f := newFixture(t)
	vcp, err := event.Vcp(f.pre, "2026-01-01T00:00:00.000000+00:00")
	require.NoError(t, err)
	vcpPre := vcp.Ked().Get("i").String()

	atc := f.anchor(t, vcp)
	atts, err := attach.ParseGroups(atc)
	require.NoError(t, err)

	v := tel.NewVerifier(f.st)

	existing, err := v.Verify(context.Background(), vcp, atts, false, map[string]bool{})
	require.NoError(t, err)
	require.False(t, existing)

	blob, err := attach.Messagize(vcp.Raw(), atc, true)
	require.NoError(t, err)
	require.NoError(t, f.st.InsertTransactionEvent(context.Background(), vcpPre, 0, blob))

	existing, err = v.Verify(context.Background(), vcp, atts, false, map[string]bool{})
	require.NoError(t, err)
	require.True(t, existing)
}

func mustGetTE(t *testing.T, st store.Store, pre string, sn uint64) []byte {
	t.Helper()
	blob, err := st.GetTransactionEvent(context.Background(), pre, sn)
	require.NoError(t, err)
	return blob
}

func TestTELRevocationWithWrongPriorFails(t *testing.T) {
	f := newFixture(t)
	vcp, err := event.Vcp(f.pre, "2026-01-01T00:00:00.000000+00:00")
	require.NoError(t, err)
	vcpPre := vcp.Ked().Get("i").String()

	vcpAtc := f.anchor(t, vcp)
	vcpBlob, err := attach.Messagize(vcp.Raw(), vcpAtc, true)
	require.NoError(t, err)
	require.NoError(t, f.st.InsertTransactionEvent(context.Background(), vcpPre, 0, vcpBlob))

	salter, err := said.NewSalter([]byte("0123456789abcdef"))
	require.NoError(t, err)
	credSaid := "EACredentialSaidPlaceholder0000000000000000"

	iss, err := event.Iss(credSaid, vcpPre, "2026-01-01T00:00:01.000000+00:00", salter, "iss-nonce")
	require.NoError(t, err)
	issAtc := f.anchor(t, iss)
	issBlob, err := attach.Messagize(iss.Raw(), issAtc, true)
	require.NoError(t, err)
	require.NoError(t, f.st.InsertTransactionEvent(context.Background(), credSaid, 0, issBlob))

	v := tel.NewVerifier(f.st)
	issSad, issAtts := parseTEBlob(t, mustGetTE(t, f.st, credSaid, 0))
	_, err = v.Verify(context.Background(), issSad, issAtts, false, map[string]bool{})
	require.NoError(t, err)

	rev, err := event.Rev(credSaid, vcpPre, "ENotTheRealIssSaid0000000000000000000000000", "2026-01-02T00:00:00.000000+00:00")
	require.NoError(t, err)
	revAtc := f.anchor(t, rev)
	revBlob, err := attach.Messagize(rev.Raw(), revAtc, true)
	require.NoError(t, err)
	require.NoError(t, f.st.InsertTransactionEvent(context.Background(), credSaid, 1, revBlob))

	revSad, revAtts := parseTEBlob(t, mustGetTE(t, f.st, credSaid, 1))
	_, err = v.Verify(context.Background(), revSad, revAtts, false, map[string]bool{})
	require.True(t, kerr.Is(err, kerr.Verification))
}
