// Copyright 2013 Seth Bunce. All rights reserved. Use of this source code is
// governed by a BSD-style license that can be found in the LICENSE file.

package bson

import "testing"

type recordingLogger struct {
	format string
	args   []interface{}
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.format = format
	l.args = args
}

func TestKindMismatchWarns(t *testing.T) {
	rec := &recordingLogger{}
	SetLogger(rec)
	defer SetLogger(nil)

	b := NewBuilder()
	if err := b.AppendInt32("a", 1); err != nil {
		t.Fatal(err)
	}
	it := NewIterator(b.Document())
	it.Next()
	if _, err := it.ValueString(); err == nil {
		t.Fatal("expected kind mismatch error")
	}
	if rec.format == "" {
		t.Fatal("expected a warning to be logged")
	}
}
