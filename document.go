package bson

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// emptyDocument is the five-byte encoding of a document with no elements.
var emptyDocument = []byte{0x05, 0x00, 0x00, 0x00, 0x00}

// docStore is the owning, reference-counted byte buffer behind a Document.
// refCount is the only piece of shared mutable state in the codec; it is
// adjusted atomically so that Document.Share/Release are safe to call from
// multiple goroutines holding independent *Document handles on the same
// underlying buffer.
type docStore struct {
	refCount atomic.Int32
	buf      []byte
}

// Document is a length-prefixed sequence of BSON elements terminated by a
// single NUL byte (see the package doc for the grammar). A Document is
// built only by appending, through a Builder, and read only by iterating,
// through an Iterator; there is no other way to mutate one.
//
// A Document is logically immutable once construction (via a Builder) has
// finished. Concurrent mutation while an Iterator traverses the same
// Document is undefined, matching the concurrency model in the package
// doc.
type Document struct {
	store *docStore
}

// NewDocument returns a new, empty Document: the five-byte encoding
// `05 00 00 00 00`.
func NewDocument() *Document {
	buf := make([]byte, len(emptyDocument))
	copy(buf, emptyDocument)
	s := &docStore{buf: buf}
	s.refCount.Store(1)
	return &Document{store: s}
}

// DocumentFromBytes validates buf as a complete BSON document and returns a
// Document that owns a copy of it; buf is never aliased.
//
// It fails if the declared length (the first four bytes, little-endian)
// does not exactly equal len(buf), if the declared length is less than 5,
// or if the final byte is not 0x00. Exact-length comparison is mandated
// here; a looser `declared > max` check permits out-of-bounds reads later
// in the Iterator.
func DocumentFromBytes(buf []byte) (*Document, error) {
	if len(buf) < 4 {
		return nil, errors.Wrapf(ErrShortBuffer, "buffer of %d bytes too short for a length prefix", len(buf))
	}
	declared := getInt32(buf, 0)
	if declared < 5 {
		return nil, errors.Wrapf(ErrShortBuffer, "declared length %d below minimum of 5", declared)
	}
	if int(declared) != len(buf) {
		return nil, errors.Wrapf(ErrShortBuffer, "declared length %d does not match buffer of %d bytes", declared, len(buf))
	}
	if buf[len(buf)-1] != 0x00 {
		return nil, errors.Wrap(ErrMalformed, "document does not end in a NUL terminator")
	}

	owned := make([]byte, len(buf))
	copy(owned, buf)
	s := &docStore{buf: owned}
	s.refCount.Store(1)
	return &Document{store: s}, nil
}

// Bytes returns the current encoded document. The returned slice aliases
// the Document's internal storage and is valid only until the Document is
// released or appended to again; callers that need to keep it past that
// point must copy it.
func (d *Document) Bytes() []byte {
	return d.store.buf
}

// Len returns the total encoded length of the document, including the
// four-byte length prefix and the trailing NUL.
func (d *Document) Len() int {
	return len(d.store.buf)
}

// Share increments the Document's reference count and returns a new handle
// to the same underlying storage. Both handles must be released
// independently.
func (d *Document) Share() *Document {
	d.store.refCount.Add(1)
	return &Document{store: d.store}
}

// Release decrements the Document's reference count. When the count
// reaches zero the underlying buffer is dropped. Go's garbage collector
// reclaims the memory on its own schedule regardless; Release exists so
// the reference-counting discipline described by the specification is
// observable and so a Document cannot be read after every handle to it has
// been released.
func (d *Document) Release() {
	if d.store.refCount.Add(-1) == 0 {
		d.store.buf = nil
	}
}

// Clone returns a new Document that owns an independent copy of d's bytes.
func (d *Document) Clone() *Document {
	buf := make([]byte, len(d.store.buf))
	copy(buf, d.store.buf)
	s := &docStore{buf: buf}
	s.refCount.Store(1)
	return &Document{store: s}
}
