package schema

import (
	"testing"

	"github.com/datatrails/go-keri-core/said"
	"github.com/stretchr/testify/require"
)

func saidifiedSchema(t *testing.T) []byte {
	t.Helper()
	props := said.NewObject()
	props.Set("score", said.NewObject().Set("type", said.NewString("number")).Set("minimum", said.NewNumber("0")).Set("maximum", said.NewNumber("100")))
	props.Set("name", said.NewObject().Set("type", said.NewString("string")))

	doc := said.NewObject()
	doc.Set("$id", said.NewString(""))
	doc.Set("$schema", said.NewString("https://json-schema.org/draft/2020-12/schema"))
	doc.Set("type", said.NewString("object"))
	doc.Set("required", said.NewArray(said.NewString("score"), said.NewString("name")))
	doc.Set("properties", props)

	_, final, err := said.Saidify(doc, "", "$id")
	require.NoError(t, err)

	raw, err := final.MarshalJSON()
	require.NoError(t, err)
	return raw
}

func TestCacheAddRequiresFixedPointSaid(t *testing.T) {
	c := NewCache()
	raw := saidifiedSchema(t)

	schemaSaid, err := c.Add(raw)
	require.NoError(t, err)
	require.NotEmpty(t, schemaSaid)

	// re-adding the same SAID is idempotent
	again, err := c.Add(raw)
	require.NoError(t, err)
	require.Equal(t, schemaSaid, again)
}

func TestCacheAddRejectsTamperedId(t *testing.T) {
	c := NewCache()
	doc := said.NewObject()
	doc.Set("$id", said.NewString("ENotTheRealSaid00000000000000000000000000"))
	doc.Set("type", said.NewString("object"))
	raw, err := doc.MarshalJSON()
	require.NoError(t, err)

	_, err = c.Add(raw)
	require.ErrorIs(t, err, ErrBadSaid)
}

func TestVerifyEnforcesRequiredAndRange(t *testing.T) {
	c := NewCache()
	raw := saidifiedSchema(t)
	schemaSaid, err := c.Add(raw)
	require.NoError(t, err)

	good := said.NewObject()
	good.Set("score", said.NewNumber("42"))
	good.Set("name", said.NewString("alice"))
	goodRaw, err := good.MarshalJSON()
	require.NoError(t, err)

	ok, err := c.Verify(schemaSaid, goodRaw)
	require.NoError(t, err)
	require.True(t, ok)

	tooHigh := said.NewObject()
	tooHigh.Set("score", said.NewNumber("999"))
	tooHigh.Set("name", said.NewString("alice"))
	tooHighRaw, err := tooHigh.MarshalJSON()
	require.NoError(t, err)

	ok, err = c.Verify(schemaSaid, tooHighRaw)
	require.NoError(t, err)
	require.False(t, ok)

	missing := said.NewObject()
	missing.Set("score", said.NewNumber("42"))
	missingRaw, err := missing.MarshalJSON()
	require.NoError(t, err)

	ok, err = c.Verify(schemaSaid, missingRaw)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyUnknownSaid(t *testing.T) {
	c := NewCache()
	_, err := c.Verify("ENope", []byte(`{}`))
	require.ErrorIs(t, err, ErrNotFound)
}
