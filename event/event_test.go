package event

import (
	"testing"

	"github.com/datatrails/go-keri-core/said"
	"github.com/stretchr/testify/require"
)

func testSigner(t *testing.T, path string) *said.Signer {
	t.Helper()
	salt, err := said.NewSalter([]byte("0123456789abcdef"))
	require.NoError(t, err)
	signer, err := salt.SignerAt(path, false, true)
	require.NoError(t, err)
	return signer
}

func TestAmple(t *testing.T) {
	require.Equal(t, 0, Ample(0))
	require.Equal(t, 1, Ample(1))
	require.Equal(t, 3, Ample(3))
	require.Equal(t, 4, Ample(4))
	require.Equal(t, 5, Ample(6))
}

func TestInceptSingleKeyIsNonDigestive(t *testing.T) {
	signer := testSigner(t, "00")
	key := signer.Verfer().Qb64()

	sad, err := Incept(InceptArgs{Keys: []string{key}})
	require.NoError(t, err)
	require.Equal(t, key, sad.Ked().Get("i").String())
	require.NotEqual(t, key, sad.Said())
	require.Equal(t, "icp", sad.Ilk())

	require.NoError(t, ValidateLabels(sad.Ked(), "icp"))

	ok, err := said.Verify(sad.Ked(), "d")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInceptTwoKeysIsDigestive(t *testing.T) {
	k1 := testSigner(t, "00").Verfer().Qb64()
	k2 := testSigner(t, "01").Verfer().Qb64()

	sad, err := Incept(InceptArgs{Keys: []string{k1, k2}})
	require.NoError(t, err)
	require.Equal(t, sad.Said(), sad.Ked().Get("i").String())
	require.Equal(t, "1", sad.Ked().Get("kt").String())

	ok, err := said.Verify(sad.Ked(), "d", "i")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestInceptRejectsDuplicateWitnesses(t *testing.T) {
	key := testSigner(t, "00").Verfer().Qb64()
	_, err := Incept(InceptArgs{Keys: []string{key}, Wits: []string{"A", "A"}})
	require.ErrorIs(t, err, ErrBadWitnessSet)
}

func TestRotateWitnessRules(t *testing.T) {
	key := testSigner(t, "00").Verfer().Qb64()
	_, err := Rotate(RotateArgs{Pre: "pre", Dig: "dig", Sn: 1, Keys: []string{key}, Cuts: []string{"A"}, Adds: []string{"A"}})
	require.ErrorIs(t, err, ErrCutsAddsOverlap)

	_, err = Rotate(RotateArgs{Pre: "pre", Dig: "dig", Sn: 1, Keys: []string{key}, Wits: []string{"A"}, Adds: []string{"A"}})
	require.ErrorIs(t, err, ErrWitsAddsOverlap)

	_, err = Rotate(RotateArgs{Pre: "pre", Dig: "dig", Sn: 0, Keys: []string{key}})
	require.ErrorIs(t, err, ErrBadSequence)
}

func TestRotateComputesNewWitnessSetAndToad(t *testing.T) {
	key := testSigner(t, "00").Verfer().Qb64()
	sad, err := Rotate(RotateArgs{
		Pre: "pre", Dig: "dig", Sn: 1, Keys: []string{key},
		Wits: []string{"A", "B", "C"}, Cuts: []string{"B"}, Adds: []string{"D"},
	})
	require.NoError(t, err)
	require.Equal(t, "rot", sad.Ilk())
	require.Equal(t, hexInt(Ample(3)), sad.Ked().Get("bt").String())
}

func TestInteractRequiresSnAtLeastOne(t *testing.T) {
	_, err := Interact("pre", "dig", 0, nil)
	require.ErrorIs(t, err, ErrBadSequence)

	sad, err := Interact("pre", "dig", 1, nil)
	require.NoError(t, err)
	require.Equal(t, "ixn", sad.Ilk())
	require.NoError(t, ValidateLabels(sad.Ked(), "ixn"))
}

func TestVcpIssRev(t *testing.T) {
	vcp, err := Vcp("issuerPre", "2026-01-01T00:00:00.000000+00:00")
	require.NoError(t, err)
	require.Equal(t, vcp.Said(), vcp.Ked().Get("i").String())
	require.NoError(t, ValidateLabels(vcp.Ked(), "vcp"))

	salt, err := said.NewSalter([]byte("0123456789abcdef"))
	require.NoError(t, err)
	iss, err := Iss("credSaid", vcp.Said(), "2026-01-01T00:00:01.000000+00:00", salt, "nonce-path")
	require.NoError(t, err)
	require.NoError(t, ValidateLabels(iss.Ked(), "iss"))

	rev, err := Rev("credSaid", vcp.Said(), iss.Said(), "2026-01-02T00:00:00.000000+00:00")
	require.NoError(t, err)
	require.Equal(t, iss.Said(), rev.Ked().Get("p").String())
	require.NoError(t, ValidateLabels(rev.Ked(), "rev"))
}

func TestNewCredentialSaidifiesAttributesAndBody(t *testing.T) {
	attrs := said.NewObject()
	attrs.Set("score", said.NewNumber("42"))

	cred, err := NewCredential(CredentialArgs{
		Issuer:     "issuerPre",
		RegistryID: "registryPre",
		SchemaSaid: "schemaSaid",
		Attributes: attrs,
	})
	require.NoError(t, err)
	require.Empty(t, cred.Ilk())

	a := cred.Ked().Get("a")
	require.True(t, a.IsObject())
	require.NotEmpty(t, a.Get("d").String())

	ok, err := said.Verify(cred.Ked(), "d")
	require.NoError(t, err)
	require.True(t, ok)
}
