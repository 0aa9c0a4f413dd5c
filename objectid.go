package bson

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// ObjectIDLen is the fixed size, in bytes, of an ObjectID.
const ObjectIDLen = 12

// ObjectID is an opaque 12-byte identifier. The codec imposes no
// interpretation on its bytes; equality and copy are byte-wise.
//
//   +---+---+---+---+---+---+---+---+---+---+---+---+
//   |       A       |     B     |   C   |     D     |
//   +---+---+---+---+---+---+---+---+---+---+---+---+
//     0   1   2   3   4   5   6   7   8   9  10  11
//   A = unix time (big endian), B = machine ID (first 3 bytes of md5
//   hostname), C = PID, D = incrementing counter (big endian).
//
// The (A, B, C, D) layout is the conventional one; it is not imposed by
// the codec and is only used by NewObjectID below.
type ObjectID [ObjectIDLen]byte

// lastObjectIDCounter is the last counter value used. Use NewObjectID to
// get the next one.
var lastObjectIDCounter int32

// NewObjectIDFromBytes copies 12 bytes in to a new ObjectID value.
func NewObjectIDFromBytes(b []byte) (ObjectID, error) {
	var id ObjectID
	if len(b) != ObjectIDLen {
		return id, errors.Errorf("bson: object id must be %d bytes, got %d", ObjectIDLen, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Copy returns a value copy of id. ObjectID already has value semantics, so
// this only exists to spell the intent at call sites that mirror the
// codec's C heritage.
func (id ObjectID) Copy() ObjectID {
	return id
}

// Bytes returns the 12 raw bytes of id.
func (id ObjectID) Bytes() []byte {
	return id[:]
}

// Equal reports whether id and other are byte-for-byte identical.
func (id ObjectID) Equal(other ObjectID) bool {
	return bytes.Equal(id[:], other[:])
}

// Hex returns the lowercase 24 character hex encoding of id.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ObjectID) String() string {
	return id.Hex()
}

// NewObjectID creates a fresh, unique, monotonically increasing ObjectID
// using the conventional MongoDB layout: a 4-byte unix timestamp, a 3-byte
// machine identifier derived from the hostname, a 2-byte process id, and a
// 3-byte incrementing counter. A generator was not mandated by the source
// specification but is conventional, so one is provided here.
func NewObjectID() (ObjectID, error) {
	var id ObjectID

	binary.BigEndian.PutUint32(id[0:4], uint32(time.Now().Unix()))

	host, err := os.Hostname()
	if err != nil {
		return id, errors.Wrap(err, "bson: resolve hostname for object id")
	}
	sum := md5.Sum([]byte(host))
	copy(id[4:7], sum[:3])

	binary.BigEndian.PutUint16(id[7:9], uint16(os.Getpid()))

	// Wrap at 0xFFFFFF so the counter fits in the 3 bytes used.
	counter := atomic.AddInt32(&lastObjectIDCounter, 1) % 0xFFFFFF
	var counterBuf [4]byte
	binary.BigEndian.PutUint32(counterBuf[:], uint32(counter))
	copy(id[9:12], counterBuf[1:])

	return id, nil
}
