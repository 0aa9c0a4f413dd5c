// Copyright 2013 Seth Bunce. All rights reserved. Use of this source code is
// governed by a BSD-style license that can be found in the LICENSE file.

package bson

import "testing"

func TestNewObjectIDIncreasing(t *testing.T) {
	id0, err := NewObjectID()
	if err != nil {
		t.Fatal(err)
	}
	id1, err := NewObjectID()
	if err != nil {
		t.Fatal(err)
	}
	b0, b1 := id0.Bytes(), id1.Bytes()
	less := false
	for i := range b0 {
		if b0[i] != b1[i] {
			less = b0[i] < b1[i]
			break
		}
	}
	if !less {
		t.Fatal("expected ObjectIDs to be increasing")
	}
}

func TestObjectIDHexLength(t *testing.T) {
	id, err := NewObjectIDFromBytes([]byte("abcdefghijkl"))
	if err != nil {
		t.Fatal(err)
	}
	hex := id.Hex()
	if len(hex) != 24 {
		t.Fatalf("got hex length %d, want 24", len(hex))
	}
}

func TestObjectIDFromBytesRejectsWrongLength(t *testing.T) {
	_, err := NewObjectIDFromBytes([]byte("short"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestObjectIDEqual(t *testing.T) {
	a, err := NewObjectIDFromBytes([]byte("abcdefghijkl"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewObjectIDFromBytes([]byte("abcdefghijkl"))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("expected equal ObjectIDs")
	}
	c, err := NewObjectIDFromBytes([]byte("mnopqrstuvwx"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Equal(c) {
		t.Fatal("expected distinct ObjectIDs")
	}
}

func TestObjectIDAccessorChecksKind(t *testing.T) {
	b := NewBuilder()
	if err := b.AppendInt32("id", 42); err != nil {
		t.Fatal(err)
	}
	it := NewIterator(b.Document())
	if !it.Next() {
		t.Fatal("expected one element")
	}
	// An INT32 element must never satisfy ValueObjectID: the accessor
	// checks the element's own kind, not merely the payload's byte count.
	if _, err := it.ValueObjectID(); err == nil {
		t.Fatal("expected kind mismatch for int32 element")
	}
}
