package bson

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Iterator is a forward-only, zero-copy cursor over a Document's bytes.
// String and blob payloads alias the Document's buffer; the only
// allocations in normal use are the Go string conversions of each key
// (made by Next) and of the values returned by ValueString/ValueRegex.
//
// Iterator state is plain, named fields rather than the source's seven
// generic ABI-preserving slots — there is no foreign object system to stay
// binary compatible with here.
//
// An Iterator belongs to one goroutine. Multiple Iterators may traverse
// the same immutable Document concurrently; none of them may run
// concurrently with a Builder still appending to it.
type Iterator struct {
	buf    []byte
	length int
	offset int
	done   bool // true once a clean end or a malformed element has been seen

	kind     Kind
	key      string
	payload  []byte // the value-bearing span of the current element
	payload2 []byte // second span, REGEX options only
}

// NewIterator returns an Iterator positioned before the first element of
// doc.
func NewIterator(doc *Document) *Iterator {
	buf := doc.Bytes()
	return &Iterator{buf: buf, length: len(buf), offset: 4}
}

// Next attempts to parse the next element. On success the iterator's
// current-element accessors become valid and it returns true. On failure —
// cursor past end, a malformed element, or the clean terminator byte —
// the iterator is invalidated and every subsequent call returns false.
// Clean exhaustion and a parse failure are, by design, indistinguishable
// to the caller.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if it.offset+1 >= it.length {
		it.invalidate()
		return false
	}

	kind := Kind(it.buf[it.offset])
	offset := it.offset + 1

	key, offset, err := it.readCString(offset)
	if err != nil {
		it.invalidate()
		return false
	}

	var payload, payload2 []byte
	switch kind {
	case KindDouble, KindDateTime, KindInt64:
		payload, offset, err = it.readFixed(offset, 8)
	case KindString:
		payload, offset, err = it.readString(offset)
	case KindDocument, KindArray:
		payload, offset, err = it.readSubdocument(offset)
	case KindUndefined, KindNull:
		// Empty payload; cursor does not advance further.
	case KindObjectID:
		payload, offset, err = it.readFixed(offset, ObjectIDLen)
	case KindBoolean:
		payload, offset, err = it.readFixed(offset, 1)
	case KindRegex:
		payload, offset, err = it.readCStringBytes(offset)
		if err == nil {
			payload2, offset, err = it.readCStringBytes(offset)
		}
	case KindInt32:
		payload, offset, err = it.readFixed(offset, 4)
	default:
		// Unknown type byte, including the terminator 0x00 which signals
		// clean end of document — both produce false from Next().
		err = errors.Wrapf(ErrMalformed, "unknown element type 0x%02X", byte(kind))
	}
	if err != nil {
		it.invalidate()
		return false
	}

	it.kind = kind
	it.key = key
	it.payload = payload
	it.payload2 = payload2
	it.offset = offset
	return true
}

func (it *Iterator) invalidate() {
	it.done = true
	it.kind = 0
	it.key = ""
	it.payload = nil
	it.payload2 = nil
}

// remaining returns the number of unconsumed bytes starting at offset,
// including the final terminator byte (which is never valid payload).
func (it *Iterator) remaining(offset int) int {
	return it.length - offset
}

// readCString scans a NUL-terminated, UTF-8-validated key starting at
// offset, bounded by the document's declared end. It returns the decoded
// key and the offset just past the terminating NUL.
func (it *Iterator) readCString(offset int) (string, int, error) {
	b, next, err := it.readCStringBytes(offset)
	if err != nil {
		return "", 0, err
	}
	return string(b), next, nil
}

func (it *Iterator) readCStringBytes(offset int) ([]byte, int, error) {
	start := offset
	for offset < it.length && it.buf[offset] != 0x00 {
		offset++
	}
	if offset >= it.length {
		return nil, 0, errors.Wrap(ErrMalformed, "cstring runs past end of document")
	}
	span := it.buf[start:offset]
	if !utf8.Valid(span) {
		return nil, 0, errors.Wrap(ErrInvalidUTF8, "cstring is not valid utf-8")
	}
	return span, offset + 1, nil
}

// readFixed consumes exactly n bytes of fixed-size payload at offset.
func (it *Iterator) readFixed(offset, n int) ([]byte, int, error) {
	if it.remaining(offset) < n {
		return nil, 0, errors.Wrapf(ErrMalformed, "need %d bytes, only %d remain", n, it.remaining(offset))
	}
	return it.buf[offset : offset+n], offset + n, nil
}

// readString consumes a UTF8 element payload: an int32 LE length
// (including the trailing NUL) followed by that many bytes.
func (it *Iterator) readString(offset int) ([]byte, int, error) {
	if it.remaining(offset) < 5 {
		return nil, 0, errors.Wrap(ErrMalformed, "utf8 element truncated before length field")
	}
	strLen := getInt32(it.buf, offset)
	if strLen < 1 {
		return nil, 0, errors.Wrapf(ErrMalformed, "utf8 declared length %d must include trailing NUL", strLen)
	}
	bodyStart := offset + 4
	if it.remaining(bodyStart) < int(strLen) {
		return nil, 0, errors.Wrap(ErrMalformed, "utf8 body runs past end of document")
	}
	body := it.buf[bodyStart : bodyStart+int(strLen)]
	if body[len(body)-1] != 0x00 {
		return nil, 0, errors.Wrap(ErrMalformed, "utf8 declared length omits trailing NUL")
	}
	if !utf8.Valid(body[:len(body)-1]) {
		return nil, 0, errors.Wrap(ErrInvalidUTF8, "utf8 body is not valid utf-8")
	}
	return body, bodyStart + int(strLen), nil
}

// readSubdocument consumes a DOCUMENT or ARRAY payload: a complete
// embedded document, including its own length prefix and terminator.
func (it *Iterator) readSubdocument(offset int) ([]byte, int, error) {
	if it.remaining(offset) < 5 {
		return nil, 0, errors.Wrap(ErrMalformed, "embedded document truncated before length prefix")
	}
	declared := getInt32(it.buf, offset)
	if declared < 5 {
		return nil, 0, errors.Wrapf(ErrMalformed, "embedded document declares length %d below minimum of 5", declared)
	}
	if int(declared) > it.remaining(offset) {
		return nil, 0, errors.Wrapf(ErrMalformed, "embedded document declares length %d exceeding remaining %d", declared, it.remaining(offset))
	}
	return it.buf[offset : offset+int(declared)], offset + int(declared), nil
}

// Find advances the iterator until an element keyed key is found, or the
// iterator is exhausted. It returns false in both the not-found and
// malformed-input cases, same as Next.
func (it *Iterator) Find(key string) bool {
	for it.Next() {
		if it.key == key {
			return true
		}
	}
	return false
}

// CurrentKey returns the key of the element currently under the cursor.
func (it *Iterator) CurrentKey() string {
	return it.key
}

// CurrentKind returns the kind of the element currently under the cursor.
func (it *Iterator) CurrentKind() Kind {
	return it.kind
}

func (it *Iterator) kindMismatch(want Kind) error {
	logger.Warnf("bson: accessor for %s called on key %q which is %s", want, it.key, it.kind)
	return errors.Wrapf(ErrKindMismatch, "key %q is %s, not %s", it.key, it.kind, want)
}

// ValueDouble returns the current element's DOUBLE value.
func (it *Iterator) ValueDouble() (float64, error) {
	if it.kind != KindDouble {
		return 0, it.kindMismatch(KindDouble)
	}
	return getFloat64(it.payload, 0), nil
}

// ValueInt32 returns the current element's INT32 value.
func (it *Iterator) ValueInt32() (int32, error) {
	if it.kind != KindInt32 {
		return 0, it.kindMismatch(KindInt32)
	}
	return getInt32(it.payload, 0), nil
}

// ValueInt64 returns the current element's INT64 value.
func (it *Iterator) ValueInt64() (int64, error) {
	if it.kind != KindInt64 {
		return 0, it.kindMismatch(KindInt64)
	}
	return getInt64(it.payload, 0), nil
}

// ValueBool returns the current element's BOOLEAN value.
func (it *Iterator) ValueBool() (bool, error) {
	if it.kind != KindBoolean {
		return false, it.kindMismatch(KindBoolean)
	}
	return it.payload[0] != 0x00, nil
}

// ValueString returns the current element's UTF8 value.
func (it *Iterator) ValueString() (string, error) {
	if it.kind != KindString {
		return "", it.kindMismatch(KindString)
	}
	return string(it.payload[:len(it.payload)-1]), nil
}

// ValueObjectID returns the current element's OBJECT_ID value.
func (it *Iterator) ValueObjectID() (ObjectID, error) {
	if it.kind != KindObjectID {
		return ObjectID{}, it.kindMismatch(KindObjectID)
	}
	var id ObjectID
	copy(id[:], it.payload)
	return id, nil
}

// ValueDateTime returns the current element's DATE_TIME value, in
// milliseconds since the Unix epoch.
func (it *Iterator) ValueDateTime() (int64, error) {
	if it.kind != KindDateTime {
		return 0, it.kindMismatch(KindDateTime)
	}
	return getInt64(it.payload, 0), nil
}

// ValueRegex returns the current element's REGEX pattern and options.
func (it *Iterator) ValueRegex() (pattern, options string, err error) {
	if it.kind != KindRegex {
		return "", "", it.kindMismatch(KindRegex)
	}
	return string(it.payload), string(it.payload2), nil
}

// ValueDocument returns a new, independently-owned copy of the current
// DOCUMENT element. Prefer Recurse to traverse without copying.
func (it *Iterator) ValueDocument() (*Document, error) {
	if it.kind != KindDocument {
		return nil, it.kindMismatch(KindDocument)
	}
	return DocumentFromBytes(it.payload)
}

// ValueArray returns a new, independently-owned copy of the current ARRAY
// element. Prefer Recurse to traverse without copying.
func (it *Iterator) ValueArray() (*Document, error) {
	if it.kind != KindArray {
		return nil, it.kindMismatch(KindArray)
	}
	return DocumentFromBytes(it.payload)
}

// Recurse initializes child to iterate over the embedded document or array
// at the current cursor, without copying its bytes. It fails if the
// current element is not DOCUMENT or ARRAY.
func (it *Iterator) Recurse(child *Iterator) error {
	if it.kind != KindDocument && it.kind != KindArray {
		return it.kindMismatch(KindDocument)
	}
	child.buf = it.payload
	child.length = len(it.payload)
	child.offset = 4
	child.done = false
	child.kind = 0
	child.key = ""
	child.payload = nil
	child.payload2 = nil
	return nil
}
