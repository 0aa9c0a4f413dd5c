// Copyright 2013 Seth Bunce. All rights reserved. Use of this source code is
// governed by a BSD-style license that can be found in the LICENSE file.

package bson

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestErrShortBufferIs(t *testing.T) {
	_, err := DocumentFromBytes([]byte{0x01})
	if !errors.Is(err, ErrShortBuffer) {
		t.Fatal("expected ErrShortBuffer")
	}
}

func TestErrInvalidKeyIs(t *testing.T) {
	b := NewBuilder()
	err := b.AppendInt32("a\x00b", 1)
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatal("expected ErrInvalidKey")
	}
}

func TestErrKindMismatchIs(t *testing.T) {
	b := NewBuilder()
	if err := b.AppendInt32("a", 1); err != nil {
		t.Fatal(err)
	}
	it := NewIterator(b.Document())
	it.Next()
	_, err := it.ValueString()
	if !errors.Is(err, ErrKindMismatch) {
		t.Fatal("expected ErrKindMismatch")
	}
}

func TestErrOutOfRangeIs(t *testing.T) {
	_, err := FromTime(time.Unix(1<<62, 0))
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatal("expected ErrOutOfRange")
	}
}
