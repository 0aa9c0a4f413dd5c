package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// collName is the NUL-terminated collection name every op test writes.
const collName = "test.coll\x00"

// readOp reads one framed message and returns its header and raw body.
// ReadMessage is not used here: it splits the whole body as BSON documents,
// while these op bodies start with op-specific fields.
func readOp(t *testing.T, r io.Reader) (*MsgHeader, []byte) {
	t.Helper()
	header, err := ReadHeader(r)
	require.NoError(t, err)
	body := make([]byte, header.MessageLength-HeaderLen)
	_, err = io.ReadFull(r, body)
	require.NoError(t, err)
	return header, body
}

func TestWriteQueryRoundTrip(t *testing.T) {
	query := buildDoc(t, "name", 1)

	var buf bytes.Buffer
	require.NoError(t, WriteQuery(&buf, 1, "test.coll", 0, 0, 100, query))

	header, body := readOp(t, &buf)
	require.Equal(t, OpQuery, header.OpCode)
	require.Equal(t, collName, string(body[4:4+len(collName)]))
	require.Equal(t, int32(100), getInt32(body, 4+len(collName)+4))
	docs, err := splitDocuments(body[4+len(collName)+8:])
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, query.Bytes(), docs[0].Bytes())
}

func TestWriteInsertRoundTrip(t *testing.T) {
	d1 := buildDoc(t, "a", 1)
	d2 := buildDoc(t, "b", 2)

	var buf bytes.Buffer
	require.NoError(t, WriteInsert(&buf, 2, "test.coll", 0, d1, d2))

	header, body := readOp(t, &buf)
	require.Equal(t, OpInsert, header.OpCode)
	docs, err := splitDocuments(body[4+len(collName):])
	require.NoError(t, err)
	require.Len(t, docs, 2)
}

func TestWriteGetMoreHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGetMore(&buf, 3, "test.coll", 100, 99887766))

	header, body := readOp(t, &buf)
	require.Equal(t, OpGetMore, header.OpCode)
	// reserved, collection name, numberToReturn, cursorID; no documents.
	require.Len(t, body, 4+len(collName)+4+8)
}

func TestWriteDeleteRoundTrip(t *testing.T) {
	selector := buildDoc(t, "_id", 7)

	var buf bytes.Buffer
	require.NoError(t, WriteDelete(&buf, 4, "test.coll", 0, selector))

	header, body := readOp(t, &buf)
	require.Equal(t, OpDelete, header.OpCode)
	docs, err := splitDocuments(body[4+len(collName)+4:])
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, selector.Bytes(), docs[0].Bytes())
}

func TestWriteKillCursorsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKillCursors(&buf, 5, 1, 2, 3))

	header, body := readOp(t, &buf)
	require.Equal(t, OpKillCursors, header.OpCode)
	// reserved, cursor count, three cursor IDs; no documents.
	require.Equal(t, int32(3), getInt32(body, 4))
	require.Len(t, body, 4+4+3*8)
}
