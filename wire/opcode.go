// Package wire frames a bson.Document as a MongoDB wire-protocol message.
//
// It deliberately stops at framing: connection establishment, TLS,
// replica-set discovery, cursor lifecycle and authentication are all
// collaborators outside this package. wire only turns an io.Reader/io.Writer pair and a sequence of
// already-encoded bson.Documents into, and out of, wire bytes.
package wire

// OpCode identifies the type of a wire protocol operation. See
// http://docs.mongodb.org/meta-driver/latest/legacy/mongodb-wire-protocol/

import "fmt"

// OpCode identifies the type of operation carried by a message.
type OpCode int32

// The full set of known request op codes.
const (
	OpReply       OpCode = 1
	OpUpdate      OpCode = 2001
	OpInsert      OpCode = 2002
	opReserved    OpCode = 2003
	OpQuery       OpCode = 2004
	OpGetMore     OpCode = 2005
	OpDelete      OpCode = 2006
	OpKillCursors OpCode = 2007
	// OpMsg is the modern, single-op-code replacement for the legacy codes
	// above. It is absent from the original wire-protocol table this
	// package's framing is grounded on, but every current driver speaks
	// it. String names it; IsMutation and HasResponse both report false
	// for it, and this package builds no OP_MSG sections.
	OpMsg OpCode = 2013
)

// String returns a human readable representation of the OpCode.
func (c OpCode) String() string {
	switch c {
	case OpReply:
		return "REPLY"
	case OpUpdate:
		return "UPDATE"
	case OpInsert:
		return "INSERT"
	case opReserved:
		return "RESERVED"
	case OpQuery:
		return "QUERY"
	case OpGetMore:
		return "GET_MORE"
	case OpDelete:
		return "DELETE"
	case OpKillCursors:
		return "KILL_CURSORS"
	case OpMsg:
		return "MSG"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(c))
	}
}

// IsMutation tells us if the operation will mutate data. These operations
// can be followed up by a getLastErr operation.
func (c OpCode) IsMutation() bool {
	return c == OpInsert || c == OpUpdate || c == OpDelete
}

// HasResponse tells us if the operation will have a response from the
// server.
func (c OpCode) HasResponse() bool {
	return c == OpQuery || c == OpGetMore
}
