package bson

import (
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Builder appends elements to a Document one at a time. It never inserts,
// replaces, or removes an already-appended element — the encoded document
// is always valid BSON immediately after every Append call, so appends may
// be interleaved with any other read of the Document as long as no
// Iterator is concurrently traversing it.
//
// The zero value is not usable; construct one with NewBuilder.
type Builder struct {
	doc *Document
}

// NewBuilder returns a Builder over a fresh, empty Document.
func NewBuilder() *Builder {
	return &Builder{doc: NewDocument()}
}

// Document returns the Document under construction. The returned value
// aliases the Builder's storage: appending after calling Document changes
// what that Document holds. A slice obtained earlier from Document.Bytes
// is not updated by a later append (which may move the bytes) and must
// not be used after it.
func (b *Builder) Document() *Document {
	return b.doc
}

// validateKey checks that key is valid UTF-8 and free of interior NUL
// bytes, per the cstring grammar.
func validateKey(key string) error {
	if !utf8.ValidString(key) {
		return errors.Wrapf(ErrInvalidKey, "key %q is not valid utf-8", key)
	}
	for i := 0; i < len(key); i++ {
		if key[i] == 0x00 {
			return errors.Wrapf(ErrInvalidKey, "key %q contains an interior NUL", key)
		}
	}
	return nil
}

// append is the single append primitive every AppendX method funnels
// through. It mirrors the source's two-chunk append primitive — most BSON
// payloads are one contiguous chunk, but UTF8 (length then body) and REGEX
// (pattern then options) have two — modeled here as two plain byte slices
// rather than raw pointer/length pairs.
func (b *Builder) append(kind Kind, key string, data1, data2 []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	buf := b.doc.store.buf

	// Drop the trailing NUL terminator; it becomes the new element's type
	// byte, per the append protocol.
	buf = buf[:len(buf)-1]

	buf = append(buf, byte(kind))
	buf = append(buf, key...)
	buf = append(buf, 0x00)
	if data1 != nil {
		buf = append(buf, data1...)
	}
	if data2 != nil {
		buf = append(buf, data2...)
	}
	buf = append(buf, 0x00) // new trailing terminator

	putInt32(buf, 0, int32(len(buf)))
	b.doc.store.buf = buf
	return nil
}

// AppendDouble appends a DOUBLE element.
func (b *Builder) AppendDouble(key string, value float64) error {
	var payload [8]byte
	putFloat64(payload[:], 0, value)
	return b.append(KindDouble, key, payload[:], nil)
}

// AppendString appends a UTF8 element. The stored length field includes
// the trailing NUL, per the grammar.
func (b *Builder) AppendString(key, value string) error {
	if !utf8.ValidString(value) {
		return errors.Wrapf(ErrInvalidUTF8, "value for key %q is not valid utf-8", key)
	}
	var lenField [4]byte
	putInt32(lenField[:], 0, int32(len(value)+1))
	body := make([]byte, len(value)+1)
	copy(body, value)
	return b.append(KindString, key, lenField[:], body)
}

// AppendDocument appends value as an embedded DOCUMENT element. value's
// complete bytes — including its own length prefix and terminator — are
// copied in verbatim; they are not re-length-prefixed.
func (b *Builder) AppendDocument(key string, value *Document) error {
	return b.append(KindDocument, key, value.Bytes(), nil)
}

// AppendArray appends value as an ARRAY element. There is no distinct
// array encoding: the caller populates value with decimal-string keys
// "0", "1", … before calling AppendArray.
func (b *Builder) AppendArray(key string, value *Document) error {
	return b.append(KindArray, key, value.Bytes(), nil)
}

// AppendUndefined appends an UNDEFINED element, whose payload is empty.
func (b *Builder) AppendUndefined(key string) error {
	return b.append(KindUndefined, key, nil, nil)
}

// AppendObjectID appends an OBJECT_ID element; the 12 bytes are copied
// verbatim.
func (b *Builder) AppendObjectID(key string, value ObjectID) error {
	return b.append(KindObjectID, key, value.Bytes(), nil)
}

// AppendBool appends a BOOLEAN element. Any truthy input is coerced to
// exactly 0x00 or 0x01.
func (b *Builder) AppendBool(key string, value bool) error {
	v := byte(0x00)
	if value {
		v = 0x01
	}
	return b.append(KindBoolean, key, []byte{v}, nil)
}

// AppendDateTime appends a DATE_TIME element given milliseconds since the
// Unix epoch.
func (b *Builder) AppendDateTime(key string, ms int64) error {
	var payload [8]byte
	putInt64(payload[:], 0, ms)
	return b.append(KindDateTime, key, payload[:], nil)
}

// AppendTime appends a DATE_TIME element converted from a time.Time via
// FromTime.
func (b *Builder) AppendTime(key string, value time.Time) error {
	ms, err := FromTime(value)
	if err != nil {
		return err
	}
	return b.AppendDateTime(key, ms)
}

// AppendNull appends a NULL element, whose payload is empty.
func (b *Builder) AppendNull(key string) error {
	return b.append(KindNull, key, nil, nil)
}

// AppendRegex appends a REGEX element: two consecutive cstrings, pattern
// then options. A missing options string is encoded as empty.
func (b *Builder) AppendRegex(key, pattern, options string) error {
	if !utf8.ValidString(pattern) || !utf8.ValidString(options) {
		return errors.Wrapf(ErrInvalidUTF8, "regex for key %q is not valid utf-8", key)
	}
	patternCstr := append([]byte(pattern), 0x00)
	optionsCstr := append([]byte(options), 0x00)
	return b.append(KindRegex, key, patternCstr, optionsCstr)
}

// AppendInt32 appends an INT32 element.
func (b *Builder) AppendInt32(key string, value int32) error {
	var payload [4]byte
	putInt32(payload[:], 0, value)
	return b.append(KindInt32, key, payload[:], nil)
}

// AppendInt64 appends an INT64 element.
func (b *Builder) AppendInt64(key string, value int64) error {
	var payload [8]byte
	putInt64(payload[:], 0, value)
	return b.append(KindInt64, key, payload[:], nil)
}
