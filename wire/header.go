package wire

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// HeaderLen is the fixed size, in bytes, of a MsgHeader on the wire.
const HeaderLen = 16

// MsgHeader is the 16-byte header that precedes every MongoDB wire
// protocol message.
type MsgHeader struct {
	// MessageLength is the total message size, including this header.
	MessageLength int32
	// RequestID identifies this message.
	RequestID int32
	// ResponseTo is the RequestID of the message being responded to; used
	// in replies.
	ResponseTo int32
	// OpCode is the operation carried by the message.
	OpCode OpCode
}

// ToWire encodes the header in wire-protocol byte order.
func (h MsgHeader) ToWire() []byte {
	var b [HeaderLen]byte
	putInt32(b[:], 0, h.MessageLength)
	putInt32(b[:], 4, h.RequestID)
	putInt32(b[:], 8, h.ResponseTo)
	putInt32(b[:], 12, int32(h.OpCode))
	return b[:]
}

// FromWire decodes a header from its 16-byte wire representation.
func (h *MsgHeader) FromWire(b []byte) error {
	if len(b) < HeaderLen {
		return errors.Errorf("wire: header needs %d bytes, got %d", HeaderLen, len(b))
	}
	h.MessageLength = getInt32(b, 0)
	h.RequestID = getInt32(b, 4)
	h.ResponseTo = getInt32(b, 8)
	h.OpCode = OpCode(getInt32(b, 12))
	return nil
}

// WriteTo writes the header's wire encoding to w.
func (h MsgHeader) WriteTo(w io.Writer) error {
	b := h.ToWire()
	n, err := w.Write(b)
	if err != nil {
		return errors.Wrap(err, "wire: write header")
	}
	if n != len(b) {
		return errors.New("wire: short write of header")
	}
	return nil
}

// String returns a debugging representation of the header.
func (h MsgHeader) String() string {
	return fmt.Sprintf(
		"opCode:%s (%d) msgLen:%d reqID:%d respID:%d",
		h.OpCode, h.OpCode, h.MessageLength, h.RequestID, h.ResponseTo,
	)
}

// ReadHeader reads and decodes one MsgHeader from r.
func ReadHeader(r io.Reader) (*MsgHeader, error) {
	var b [HeaderLen]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, errors.Wrap(err, "wire: read header")
	}
	h := &MsgHeader{}
	if err := h.FromWire(b[:]); err != nil {
		return nil, err
	}
	return h, nil
}

// getInt32/putInt32 read and write a little-endian int32 — all integers in
// the wire protocol, like in BSON itself, are little-endian regardless of
// host byte order.
func getInt32(b []byte, pos int) int32 {
	return int32(b[pos]) |
		int32(b[pos+1])<<8 |
		int32(b[pos+2])<<16 |
		int32(b[pos+3])<<24
}

func putInt32(b []byte, pos int, v int32) {
	b[pos] = byte(v)
	b[pos+1] = byte(v >> 8)
	b[pos+2] = byte(v >> 16)
	b[pos+3] = byte(v >> 24)
}
