package store

import (
	"context"
	"testing"

	"github.com/datatrails/go-keri-core/event"
	"github.com/datatrails/go-keri-core/said"
	"github.com/stretchr/testify/require"
)

func testKeys(t *testing.T, paths ...string) ([]*said.Signer, []string) {
	t.Helper()
	salter, err := said.NewSalter([]byte("0123456789abcdef"))
	require.NoError(t, err)
	signers := make([]*said.Signer, len(paths))
	keys := make([]string, len(paths))
	for i, p := range paths {
		s, err := salter.SignerAt(p, false, true)
		require.NoError(t, err)
		signers[i] = s
		keys[i] = s.Verfer().Qb64()
	}
	return signers, keys
}

func TestMemstoreKeyEventInsertGetAndCount(t *testing.T) {
	ctx := context.Background()
	st := New()

	_, keys := testKeys(t, "00")
	icp, err := event.Incept(event.InceptArgs{Keys: keys})
	require.NoError(t, err)

	pre := icp.Ked().Get("i").String()
	require.NoError(t, st.InsertKeyEvent(ctx, pre, 0, icp.Raw()))

	n, err := st.CountKeyEvents(ctx, pre)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)

	got, err := st.GetKeyEvent(ctx, pre, 0)
	require.NoError(t, err)
	require.Equal(t, icp.Raw(), got)

	// Duplicate insert of identical content is a no-op.
	require.NoError(t, st.InsertKeyEvent(ctx, pre, 0, icp.Raw()))

	// Divergent content at the same address is rejected.
	err = st.InsertKeyEvent(ctx, pre, 0, append(append([]byte{}, icp.Raw()...), 'x'))
	require.ErrorIs(t, err, ErrDiverged)
}

func TestMemstoreGetKeyEventMissing(t *testing.T) {
	ctx := context.Background()
	st := New()
	_, err := st.GetKeyEvent(ctx, "Esomeprefix", 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemstoreLatestEstablishmentEventAsOfSn(t *testing.T) {
	ctx := context.Background()
	st := New()

	_, keys := testKeys(t, "10")
	icp, err := event.Incept(event.InceptArgs{Keys: keys})
	require.NoError(t, err)
	pre := icp.Ked().Get("i").String()
	require.NoError(t, st.InsertKeyEvent(ctx, pre, 0, icp.Raw()))

	_, newKeys := testKeys(t, "11")
	rot, err := event.Rotate(event.RotateArgs{Pre: pre, Dig: icp.Said(), Sn: 1, Keys: newKeys})
	require.NoError(t, err)
	require.NoError(t, st.InsertKeyEvent(ctx, pre, 1, rot.Raw()))

	ixn, err := event.Interact(pre, rot.Said(), 2, nil)
	require.NoError(t, err)
	require.NoError(t, st.InsertKeyEvent(ctx, pre, 2, ixn.Raw()))

	blob, sn, err := st.GetLatestEstablishmentEventAsOfSn(ctx, pre, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(1), sn)
	require.Equal(t, rot.Raw(), blob)

	blob0, sn0, err := st.GetLatestEstablishmentEventAsOfSn(ctx, pre, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), sn0)
	require.Equal(t, icp.Raw(), blob0)
}

func TestMemstoreACDCAndSad(t *testing.T) {
	ctx := context.Background()
	st := New()

	raw := []byte(`{"d":"Efoo","x":"y"}`)
	require.NoError(t, st.InsertACDC(ctx, "Efoo", raw))
	got, err := st.GetACDC(ctx, "Efoo")
	require.NoError(t, err)
	require.Equal(t, raw, got)

	require.NoError(t, st.InsertSad(ctx, "Ebar", raw))
	got2, err := st.GetSad(ctx, "Ebar")
	require.NoError(t, err)
	require.Equal(t, raw, got2)
}

func TestKeySetSignAll(t *testing.T) {
	signers, _ := testKeys(t, "20", "21")
	ks := NewKeySet(signers, 0, true)
	require.Equal(t, 2, ks.Len())

	sigs, err := ks.SignAll([]byte("message"), false)
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	for i, sig := range sigs {
		require.Equal(t, uint32(i), sig.Index)
		require.True(t, signers[i].Verfer().VerifyIndexed([]byte("message"), sig.Indexer))
	}

	ks.Zero()
}
