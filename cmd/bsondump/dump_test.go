package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbunce/mbson"
)

func writeDoc(t *testing.T, buf *bytes.Buffer, build func(b *bson.Builder)) {
	t.Helper()
	b := bson.NewBuilder()
	build(b)
	buf.Write(b.Document().Bytes())
}

func TestDumpJSON(t *testing.T) {
	var input bytes.Buffer
	writeDoc(t, &input, func(b *bson.Builder) {
		require.NoError(t, b.AppendString("name", "ok"))
		require.NoError(t, b.AppendInt32("n", 7))
	})

	var out bytes.Buffer
	require.NoError(t, Dump(&input, &out, false))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "ok", got["name"])
	require.EqualValues(t, 7, got["n"])
}

func TestDumpObjectIDExtendedJSON(t *testing.T) {
	id, err := bson.NewObjectIDFromBytes([]byte("abcdefghijkl"))
	require.NoError(t, err)

	var input bytes.Buffer
	writeDoc(t, &input, func(b *bson.Builder) {
		require.NoError(t, b.AppendObjectID("_id", id))
	})

	var out bytes.Buffer
	require.NoError(t, Dump(&input, &out, false))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	oid, ok := got["_id"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, id.Hex(), oid["$oid"])
}

func TestDumpMultipleDocuments(t *testing.T) {
	var input bytes.Buffer
	writeDoc(t, &input, func(b *bson.Builder) { require.NoError(t, b.AppendInt32("a", 1)) })
	writeDoc(t, &input, func(b *bson.Builder) { require.NoError(t, b.AppendInt32("b", 2)) })

	var out bytes.Buffer
	require.NoError(t, Dump(&input, &out, false))
	require.Equal(t, 2, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestDebugNestedDocument(t *testing.T) {
	inner := bson.NewBuilder()
	require.NoError(t, inner.AppendInt32("x", 1))

	var input bytes.Buffer
	writeDoc(t, &input, func(b *bson.Builder) {
		require.NoError(t, b.AppendDocument("child", inner.Document()))
	})

	var out bytes.Buffer
	require.NoError(t, Debug(&input, &out))
	require.Contains(t, out.String(), "--- new object ---")
	require.Contains(t, out.String(), "child")
	require.Contains(t, out.String(), "x")
}

func TestDumpRejectsOversizedLength(t *testing.T) {
	var input bytes.Buffer
	input.Write([]byte{0xFF, 0xFF, 0xFF, 0x7F}) // huge declared length

	var out bytes.Buffer
	err := Dump(&input, &out, false)
	require.Error(t, err)
}
