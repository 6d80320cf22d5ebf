package kel_test

import (
	"context"
	"testing"

	"github.com/datatrails/go-keri-core/attach"
	"github.com/datatrails/go-keri-core/cesr"
	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/kel"
	"github.com/datatrails/go-keri-core/kerr"
	"github.com/datatrails/go-keri-core/said"
	"github.com/datatrails/go-keri-core/store"
	"github.com/stretchr/testify/require"
)

func testSalter(t *testing.T) *said.Salter {
	t.Helper()
	salter, err := said.NewSalter([]byte("0123456789abcdef"))
	require.NoError(t, err)
	return salter
}

func signAndCommit(t *testing.T, st store.Store, pre string, sn uint64, sad *event.Sad, sigers []*cesr.Indexer) []byte {
	t.Helper()
	ctx := context.Background()
	atc, err := attach.Endorse(attach.EndorseArgs{Sigers: sigers})
	require.NoError(t, err)
	blob, err := attach.Messagize(sad.Raw(), atc, true)
	require.NoError(t, err)
	require.NoError(t, st.InsertKeyEvent(ctx, pre, sn, blob))
	return blob
}

func parseBlob(t *testing.T, blob []byte) (*event.Sad, *attach.Attachments) {
	t.Helper()
	sad, n, err := event.ParseSadPrefix(blob)
	require.NoError(t, err)
	rest, err := attach.ParsePipelined(string(blob[n:]))
	require.NoError(t, err)
	atts, err := attach.ParseGroups(rest)
	require.NoError(t, err)
	return sad, atts
}

func TestKELInceptionVerifiesAndReplays(t *testing.T) {
	salter := testSalter(t)
	signer, err := salter.SignerAt("00", false, true)
	require.NoError(t, err)
	key := signer.Verfer().Qb64()

	icp, err := event.Incept(event.InceptArgs{Keys: []string{key}})
	require.NoError(t, err)
	pre := icp.Ked().Get("i").String()

	sig, err := signer.Sign(icp.Raw(), 0, false)
	require.NoError(t, err)
	atc, err := attach.Endorse(attach.EndorseArgs{Sigers: []*cesr.Indexer{sig}})
	require.NoError(t, err)
	atts, err := attach.ParseGroups(atc)
	require.NoError(t, err)

	st := store.New()
	v := kel.NewVerifier(st)

	existing, err := v.Verify(context.Background(), icp, atts, false, map[string]bool{})
	require.NoError(t, err)
	require.False(t, existing)

	signAndCommit(t, st, pre, 0, icp, []*cesr.Indexer{sig})

	existing, err = v.Verify(context.Background(), icp, atts, false, map[string]bool{})
	require.NoError(t, err)
	require.True(t, existing)
}

func mustGetBlob(t *testing.T, st store.Store, pre string, sn uint64) []byte {
	t.Helper()
	blob, err := st.GetKeyEvent(context.Background(), pre, sn)
	require.NoError(t, err)
	return blob
}

func TestKELCorruptedSignatureFailsVerification(t *testing.T) {
	salter := testSalter(t)
	signer, err := salter.SignerAt("01", false, true)
	require.NoError(t, err)
	key := signer.Verfer().Qb64()

	icp, err := event.Incept(event.InceptArgs{Keys: []string{key}})
	require.NoError(t, err)

	sig, err := signer.Sign(icp.Raw(), 0, false)
	require.NoError(t, err)
	raw := append([]byte(nil), sig.Raw()...)
	raw[0] ^= 0xFF
	corrupted, err := cesr.NewIndexer(sig.Code(), sig.Index(), sig.Index(), false, raw)
	require.NoError(t, err)

	atc, err := attach.Endorse(attach.EndorseArgs{Sigers: []*cesr.Indexer{corrupted}})
	require.NoError(t, err)
	atts, err := attach.ParseGroups(atc)
	require.NoError(t, err)

	v := kel.NewVerifier(store.New())
	_, err = v.Verify(context.Background(), icp, atts, false, map[string]bool{})
	require.True(t, kerr.Is(err, kerr.Verification))
}

func TestKELRotationMatchesPriorNextAndThreshold(t *testing.T) {
	salter := testSalter(t)
	cur, err := salter.SignerAt("10", false, true)
	require.NoError(t, err)
	next, err := salter.SignerAt("11", false, true)
	require.NoError(t, err)
	nextDig, err := said.NewDiger("", []byte(next.Verfer().Qb64()))
	require.NoError(t, err)

	icp, err := event.Incept(event.InceptArgs{
		Keys:  []string{cur.Verfer().Qb64()},
		Ndigs: []string{nextDig.Qb64()},
	})
	require.NoError(t, err)
	pre := icp.Ked().Get("i").String()

	icpSig, err := cur.Sign(icp.Raw(), 0, false)
	require.NoError(t, err)
	st := store.New()
	signAndCommit(t, st, pre, 0, icp, []*cesr.Indexer{icpSig})

	rot, err := event.Rotate(event.RotateArgs{
		Pre: pre, Dig: icp.Said(), Sn: 1,
		Keys: []string{next.Verfer().Qb64()},
	})
	require.NoError(t, err)
	rotSig, err := next.Sign(rot.Raw(), 0, true)
	require.NoError(t, err)
	rotAtc, err := attach.Endorse(attach.EndorseArgs{Sigers: []*cesr.Indexer{rotSig}})
	require.NoError(t, err)
	rotAtts, err := attach.ParseGroups(rotAtc)
	require.NoError(t, err)

	v := kel.NewVerifier(st)
	existing, err := v.Verify(context.Background(), rot, rotAtts, true, map[string]bool{})
	require.NoError(t, err)
	require.False(t, existing)
}

func TestKELIxnWrongPriorFails(t *testing.T) {
	salter := testSalter(t)
	signer, err := salter.SignerAt("20", false, true)
	require.NoError(t, err)

	icp, err := event.Incept(event.InceptArgs{Keys: []string{signer.Verfer().Qb64()}})
	require.NoError(t, err)
	pre := icp.Ked().Get("i").String()

	icpSig, err := signer.Sign(icp.Raw(), 0, false)
	require.NoError(t, err)
	st := store.New()
	signAndCommit(t, st, pre, 0, icp, []*cesr.Indexer{icpSig})

	ixn, err := event.Interact(pre, "EWrongPriorDigestNotTheRealOne00000000000", 1, nil)
	require.NoError(t, err)
	ixnSig, err := signer.Sign(ixn.Raw(), 0, false)
	require.NoError(t, err)
	signAndCommit(t, st, pre, 1, ixn, []*cesr.Indexer{ixnSig})

	v := kel.NewVerifier(st)
	sad, atts := parseBlob(t, mustGetBlob(t, st, pre, 1))
	_, err = v.Verify(context.Background(), sad, atts, false, map[string]bool{})
	require.True(t, kerr.Is(err, kerr.Verification))
}
