package bson

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// FromWallClock converts a (seconds, microseconds) wall-clock pair in to
// the int64 millisecond-since-Unix-epoch representation required by the
// DATE_TIME element. The microsecond remainder is truncated, matching the
// source's `(sec * 1000) + (usec / 1000)`.
func FromWallClock(sec, usec int64) int64 {
	return sec*1000 + usec/1000
}

// ToWallClock converts a DATE_TIME element's millisecond value back in to
// a (seconds, microseconds) pair.
//
// The source implementation stored `ms % 1000` directly in to the
// microseconds field, which is actually still milliseconds — one
// revision's bug, flagged in the design notes. The correct conversion
// multiplies the remainder by 1000.
func ToWallClock(ms int64) (sec, usec int64) {
	sec = ms / 1000
	usec = (ms % 1000) * 1000
	return sec, usec
}

// FromTime converts a time.Time to the millisecond-since-epoch
// representation used by the DATE_TIME element. It fails with
// ErrOutOfRange if t.Unix() is far enough from the epoch that the
// seconds-to-milliseconds multiplication would overflow int64.
func FromTime(t time.Time) (int64, error) {
	sec := t.Unix()
	if sec > math.MaxInt64/1000 || sec < math.MinInt64/1000 {
		return 0, errors.Wrapf(ErrOutOfRange, "unix seconds %d overflows millisecond date_time", sec)
	}
	return FromWallClock(sec, int64(t.Nanosecond())/1000), nil
}

// ToTime converts a DATE_TIME element's millisecond value to a UTC
// time.Time.
func ToTime(ms int64) time.Time {
	sec, usec := ToWallClock(ms)
	return time.Unix(sec, usec*1000).UTC()
}
