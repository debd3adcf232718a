package buffer

import (
	"bytes"
	"testing"
)

func TestSampleBufferAppendPrepend(t *testing.T) {
	t.Parallel()
	var b SampleBuffer
	if !b.Append([]byte{3, 4}) {
		t.Fatal("Append failed")
	}
	if !b.Prepend([]byte{1, 2}) {
		t.Fatal("Prepend failed")
	}
	if !bytes.Equal(b.Data(), []byte{1, 2, 3, 4}) {
		t.Errorf("Data = %v, want [1 2 3 4]", b.Data())
	}
}

func TestSampleBufferSetLength(t *testing.T) {
	t.Parallel()
	b := NewSampleBuffer([]byte{1, 2, 3})
	if !b.SetLength(5) {
		t.Fatal("grow failed")
	}
	if !bytes.Equal(b.Data(), []byte{1, 2, 3, 0, 0}) {
		t.Errorf("grown Data = %v", b.Data())
	}
	if !b.SetLength(2) {
		t.Fatal("shrink failed")
	}
	if !bytes.Equal(b.Data(), []byte{1, 2}) {
		t.Errorf("shrunk Data = %v", b.Data())
	}
	// Shrink-then-grow must zero the regrown region, not resurrect old bytes.
	if !b.SetLength(3) {
		t.Fatal("regrow failed")
	}
	if b.Data()[2] != 0 {
		t.Errorf("regrown byte = %d, want 0", b.Data()[2])
	}
	if b.SetLength(-1) {
		t.Error("negative length should fail")
	}
	if b.SetLength(MaxBufferSize + 1) {
		t.Error("oversized length should fail")
	}
}

func TestSampleBufferReplaceAndClear(t *testing.T) {
	t.Parallel()
	b := NewSampleBuffer([]byte{9, 9, 9})
	if !b.Replace([]byte{1}) {
		t.Fatal("Replace failed")
	}
	if !bytes.Equal(b.Data(), []byte{1}) {
		t.Errorf("Data = %v, want [1]", b.Data())
	}
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Len after Clear = %d", b.Len())
	}
}

func TestSampleBufferPopFront(t *testing.T) {
	t.Parallel()
	b := NewSampleBuffer([]byte{1, 2, 3, 4})
	if !b.PopFront(2) {
		t.Fatal("PopFront failed")
	}
	if !bytes.Equal(b.Data(), []byte{3, 4}) {
		t.Errorf("Data = %v, want [3 4]", b.Data())
	}
	if b.PopFront(3) {
		t.Error("PopFront past end should fail")
	}
	if !b.PopFront(2) {
		t.Error("PopFront of full remainder should succeed")
	}
	if b.Len() != 0 {
		t.Errorf("Len = %d, want 0", b.Len())
	}
}

func TestSampleBufferClone(t *testing.T) {
	t.Parallel()
	b := NewSampleBuffer([]byte{1, 2, 3})
	c := b.Clone()
	c.Data()[0] = 9
	if b.Data()[0] != 1 {
		t.Error("mutating the clone changed the original")
	}
}
