package wire

import (
	"io"

	"github.com/pkg/errors"

	"github.com/sbunce/mbson"
)

// Per-op-code body layouts, grounded in the OP_QUERY/OP_GETMORE/OP_DELETE/
// OP_INSERT/OP_KILL_CURSORS bodies of the wire protocol: a flags or
// reserved int32, a NUL-terminated fullCollectionName where the op takes
// one, then op-specific fields and documents.

// writeCString appends s and its terminating NUL to buf.
func writeCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0x00)
}

// WriteQuery writes an OP_QUERY message requesting documents matching
// query from fullCollectionName.
func WriteQuery(w io.Writer, requestID int32, fullCollectionName string, flags, numberToSkip, numberToReturn int32, query *bson.Document) error {
	body := make([]byte, 0, 4+len(fullCollectionName)+1+8+query.Len())
	body = appendInt32(body, flags)
	body = writeCString(body, fullCollectionName)
	body = appendInt32(body, numberToSkip)
	body = appendInt32(body, numberToReturn)
	body = append(body, query.Bytes()...)
	return writeFramed(w, OpQuery, requestID, 0, body)
}

// WriteInsert writes an OP_INSERT message inserting docs into
// fullCollectionName.
func WriteInsert(w io.Writer, requestID int32, fullCollectionName string, flags int32, docs ...*bson.Document) error {
	size := 4 + len(fullCollectionName) + 1
	for _, d := range docs {
		size += d.Len()
	}
	body := make([]byte, 0, size)
	body = appendInt32(body, flags)
	body = writeCString(body, fullCollectionName)
	for _, d := range docs {
		body = append(body, d.Bytes()...)
	}
	return writeFramed(w, OpInsert, requestID, 0, body)
}

// WriteGetMore writes an OP_GET_MORE message requesting the next batch of
// numberToReturn documents from cursorID.
func WriteGetMore(w io.Writer, requestID int32, fullCollectionName string, numberToReturn int32, cursorID int64) error {
	body := make([]byte, 0, 4+len(fullCollectionName)+1+4+8)
	body = appendInt32(body, 0) // reserved
	body = writeCString(body, fullCollectionName)
	body = appendInt32(body, numberToReturn)
	body = appendInt64(body, cursorID)
	return writeFramed(w, OpGetMore, requestID, 0, body)
}

// WriteDelete writes an OP_DELETE message removing documents matching
// selector from fullCollectionName.
func WriteDelete(w io.Writer, requestID int32, fullCollectionName string, flags int32, selector *bson.Document) error {
	body := make([]byte, 0, 4+len(fullCollectionName)+1+4+selector.Len())
	body = appendInt32(body, 0) // reserved
	body = writeCString(body, fullCollectionName)
	body = appendInt32(body, flags)
	body = append(body, selector.Bytes()...)
	return writeFramed(w, OpDelete, requestID, 0, body)
}

// WriteKillCursors writes an OP_KILL_CURSORS message closing cursorIDs.
func WriteKillCursors(w io.Writer, requestID int32, cursorIDs ...int64) error {
	body := make([]byte, 0, 4+4+8*len(cursorIDs))
	body = appendInt32(body, 0) // reserved
	body = appendInt32(body, int32(len(cursorIDs)))
	for _, id := range cursorIDs {
		body = appendInt64(body, id)
	}
	return writeFramed(w, OpKillCursors, requestID, 0, body)
}

func writeFramed(w io.Writer, opCode OpCode, requestID, responseTo int32, body []byte) error {
	header := MsgHeader{
		MessageLength: int32(HeaderLen + len(body)),
		RequestID:     requestID,
		ResponseTo:    responseTo,
		OpCode:        opCode,
	}
	buf := make([]byte, 0, int(header.MessageLength))
	buf = append(buf, header.ToWire()...)
	buf = append(buf, body...)
	n, err := w.Write(buf)
	if err != nil {
		return errors.Wrapf(err, "wire: write %s message", opCode)
	}
	if n != len(buf) {
		return errors.Errorf("wire: short write of %s message", opCode)
	}
	return nil
}

func appendInt32(buf []byte, v int32) []byte {
	var b [4]byte
	putInt32(b[:], 0, v)
	return append(buf, b[:]...)
}

func appendInt64(buf []byte, v int64) []byte {
	var b [8]byte
	putInt64(b[:], 0, v)
	return append(buf, b[:]...)
}

func putInt64(b []byte, pos int, v int64) {
	b[pos] = byte(v)
	b[pos+1] = byte(v >> 8)
	b[pos+2] = byte(v >> 16)
	b[pos+3] = byte(v >> 24)
	b[pos+4] = byte(v >> 32)
	b[pos+5] = byte(v >> 40)
	b[pos+6] = byte(v >> 48)
	b[pos+7] = byte(v >> 56)
}
