// Copyright (C) 2025 Josh Simonot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package nvstore

import (
	"bytes"
	"testing"
)

func TestWriteThenReadBlockRoundTrips(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	want := []byte("control constants block")
	if err := fs.WriteBlock(0, want); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}

	got := make([]byte, len(want))
	if err := fs.ReadBlock(got, 0); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ReadBlock = %q, want %q", got, want)
	}
}

func TestReadUnknownBlockErrors(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	buf := make([]byte, 16)
	if err := fs.ReadBlock(buf, 7); err == nil {
		t.Error("expected an error reading a block that was never written")
	}
}

func TestOffsetsAreIndependent(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.WriteBlock(0, []byte("aaa")); err != nil {
		t.Fatalf("WriteBlock(0): %v", err)
	}
	if err := fs.WriteBlock(1, []byte("bbb")); err != nil {
		t.Fatalf("WriteBlock(1): %v", err)
	}

	got0 := make([]byte, 3)
	got1 := make([]byte, 3)
	if err := fs.ReadBlock(got0, 0); err != nil {
		t.Fatalf("ReadBlock(0): %v", err)
	}
	if err := fs.ReadBlock(got1, 1); err != nil {
		t.Fatalf("ReadBlock(1): %v", err)
	}
	if string(got0) != "aaa" || string(got1) != "bbb" {
		t.Errorf("got0=%q got1=%q, want aaa/bbb", got0, got1)
	}
}

func TestWriteBlockOverwrites(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.WriteBlock(0, []byte("first")); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	if err := fs.WriteBlock(0, []byte("second")); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	got := make([]byte, len("second"))
	if err := fs.ReadBlock(got, 0); err != nil {
		t.Fatalf("ReadBlock: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("ReadBlock after overwrite = %q, want %q", got, "second")
	}
}

func TestReadBlockTooSmallBufferErrors(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.WriteBlock(0, []byte("0123456789")); err != nil {
		t.Fatalf("WriteBlock: %v", err)
	}
	small := make([]byte, 4)
	if err := fs.ReadBlock(small, 0); err == nil {
		t.Error("expected an error when the destination buffer is smaller than the stored block")
	}
}
