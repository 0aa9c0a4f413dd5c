package bson

import "github.com/pkg/errors"

// Sentinel error causes. Use errors.Is to test a returned error against
// these; every codec error is wrapped with github.com/pkg/errors so it
// also carries a stack trace and a contextual message.
var (
	// ErrShortBuffer: declared length disagrees with the supplied buffer
	// length on intake (DocumentFromBytes).
	ErrShortBuffer = errors.New("bson: declared length does not match buffer")

	// ErrMalformed: length overrun, missing terminator, unknown type byte,
	// or truncated cstring during iteration.
	ErrMalformed = errors.New("bson: malformed element")

	// ErrInvalidUTF8: a key, string, or regex field is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("bson: invalid utf-8")

	// ErrKindMismatch: an accessor was called for a kind that does not
	// match the element currently under the iterator's cursor.
	ErrKindMismatch = errors.New("bson: kind mismatch")

	// ErrOutOfRange: a temporal value cannot be represented.
	ErrOutOfRange = errors.New("bson: value out of range")

	// ErrInvalidKey: a builder key is not valid UTF-8 or contains an
	// interior NUL byte. An empty key is accepted.
	ErrInvalidKey = errors.New("bson: invalid key")
)
