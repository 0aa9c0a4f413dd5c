package wire

import (
	"io"

	"github.com/pkg/errors"

	"github.com/sbunce/mbson"
)

// maxMessageLen bounds a declared message length against runaway
// allocation from a corrupt or adversarial header, mirroring the document
// length sanity checks bson.DocumentFromBytes applies to a single
// document.
const maxMessageLen = 48 * 1024 * 1024

// ReadMessage reads one complete wire message from r: a header followed by
// zero or more BSON documents filling out MessageLength. It never trusts
// MessageLength beyond bounding the read: every document is independently
// validated by bson.DocumentFromBytes, so a doctored length cannot produce
// an out-of-bounds read, only a rejected message.
func ReadMessage(r io.Reader) (*MsgHeader, []*bson.Document, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, nil, err
	}
	if header.MessageLength < HeaderLen {
		return nil, nil, errors.Errorf("wire: message length %d smaller than header", header.MessageLength)
	}
	if header.MessageLength > maxMessageLen {
		return nil, nil, errors.Errorf("wire: message length %d exceeds maximum %d", header.MessageLength, maxMessageLen)
	}

	body := make([]byte, header.MessageLength-HeaderLen)
	if len(body) > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, nil, errors.Wrap(err, "wire: read message body")
		}
	}

	docs, err := splitDocuments(body)
	if err != nil {
		return nil, nil, err
	}
	return header, docs, nil
}

// splitDocuments walks consecutive BSON documents out of buf, each
// validated independently by bson.DocumentFromBytes.
func splitDocuments(buf []byte) ([]*bson.Document, error) {
	var docs []*bson.Document
	for len(buf) > 0 {
		if len(buf) < 4 {
			return nil, errors.Wrap(bson.ErrShortBuffer, "wire: trailing bytes too short for a document length")
		}
		declared := getInt32(buf, 0)
		if declared < 5 || int(declared) > len(buf) {
			return nil, errors.Wrap(bson.ErrShortBuffer, "wire: embedded document length out of bounds")
		}
		doc, err := bson.DocumentFromBytes(buf[:declared])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		buf = buf[declared:]
	}
	return docs, nil
}

// WriteMessage frames opCode and docs behind a MsgHeader and writes the
// complete message to w in a single call.
func WriteMessage(w io.Writer, opCode OpCode, requestID, responseTo int32, docs ...*bson.Document) error {
	total := HeaderLen
	for _, d := range docs {
		total += d.Len()
	}

	header := MsgHeader{
		MessageLength: int32(total),
		RequestID:     requestID,
		ResponseTo:    responseTo,
		OpCode:        opCode,
	}

	buf := make([]byte, 0, total)
	buf = append(buf, header.ToWire()...)
	for _, d := range docs {
		buf = append(buf, d.Bytes()...)
	}

	n, err := w.Write(buf)
	if err != nil {
		return errors.Wrap(err, "wire: write message")
	}
	if n != len(buf) {
		return errors.New("wire: short write of message")
	}
	return nil
}
