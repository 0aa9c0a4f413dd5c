package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbunce/mbson"
)

func buildDoc(t *testing.T, key string, value int32) *bson.Document {
	t.Helper()
	b := bson.NewBuilder()
	require.NoError(t, b.AppendInt32(key, value))
	return b.Document()
}

func TestWriteMessageReadMessageRoundTrip(t *testing.T) {
	doc := buildDoc(t, "n", 1)

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, OpQuery, 1, 0, doc))

	header, docs, err := ReadMessage(&buf)
	require.NoError(t, err)
	require.Equal(t, OpQuery, header.OpCode)
	require.Len(t, docs, 1)
	require.Equal(t, doc.Bytes(), docs[0].Bytes())
}

func TestWriteMessageMultipleDocuments(t *testing.T) {
	d1 := buildDoc(t, "a", 1)
	d2 := buildDoc(t, "b", 2)

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, OpReply, 0, 1, d1, d2))

	_, docs, err := ReadMessage(&buf)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, d1.Bytes(), docs[0].Bytes())
	require.Equal(t, d2.Bytes(), docs[1].Bytes())
}

func TestReadMessageRejectsOversizedLength(t *testing.T) {
	h := MsgHeader{MessageLength: maxMessageLen + 1, OpCode: OpQuery}
	var buf bytes.Buffer
	buf.Write(h.ToWire())

	_, _, err := ReadMessage(&buf)
	require.Error(t, err)
}

func TestReadMessageRejectsShortLength(t *testing.T) {
	h := MsgHeader{MessageLength: HeaderLen - 1, OpCode: OpQuery}
	var buf bytes.Buffer
	buf.Write(h.ToWire())

	_, _, err := ReadMessage(&buf)
	require.Error(t, err)
}

func TestReadMessageRejectsMalformedDocument(t *testing.T) {
	h := MsgHeader{MessageLength: HeaderLen + 4, OpCode: OpQuery}
	var buf bytes.Buffer
	buf.Write(h.ToWire())
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF}) // bogus declared length, no doc body

	_, _, err := ReadMessage(&buf)
	require.Error(t, err)
}
