// Package buffer provides the owned byte buffers that back raw media
// samples, plus a recycling pool for the hot bit-depth conversion path.
package buffer

// MaxBufferSize bounds any single SampleBuffer allocation. Growth past this
// limit fails the operation, standing in for allocator failure so that
// out-of-memory handling stays reachable and testable.
const MaxBufferSize = 1 << 30

// SampleBuffer is an owned, resizable byte buffer. All mutating operations
// report success; they fail only when the result would exceed
// MaxBufferSize or when the arguments are out of range. The zero value is
// an empty buffer ready for use.
type SampleBuffer struct {
	data []byte
}

// NewSampleBuffer returns a buffer initialized with a copy of data.
// It returns nil if data exceeds MaxBufferSize.
func NewSampleBuffer(data []byte) *SampleBuffer {
	b := &SampleBuffer{}
	if !b.Append(data) {
		return nil
	}
	return b
}

// Data returns the buffer contents. The slice aliases the buffer's storage
// and is invalidated by the next mutating operation.
func (b *SampleBuffer) Data() []byte { return b.data }

// Len returns the current length in bytes.
func (b *SampleBuffer) Len() int { return len(b.data) }

// SetLength resizes the buffer to n bytes, zero-filling any growth.
func (b *SampleBuffer) SetLength(n int) bool {
	if n < 0 || n > MaxBufferSize {
		return false
	}
	if n <= len(b.data) {
		b.data = b.data[:n]
		return true
	}
	if n <= cap(b.data) {
		grown := b.data[:n]
		clear(grown[len(b.data):])
		b.data = grown
		return true
	}
	grown := make([]byte, n)
	copy(grown, b.data)
	b.data = grown
	return true
}

// Append adds p to the end of the buffer.
func (b *SampleBuffer) Append(p []byte) bool {
	if len(b.data)+len(p) > MaxBufferSize {
		return false
	}
	b.data = append(b.data, p...)
	return true
}

// Prepend inserts p at the front of the buffer.
func (b *SampleBuffer) Prepend(p []byte) bool {
	if len(b.data)+len(p) > MaxBufferSize {
		return false
	}
	grown := make([]byte, 0, len(b.data)+len(p))
	grown = append(grown, p...)
	grown = append(grown, b.data...)
	b.data = grown
	return true
}

// Replace discards the current contents and replaces them with a copy of p.
func (b *SampleBuffer) Replace(p []byte) bool {
	if len(p) > MaxBufferSize {
		return false
	}
	b.data = append(b.data[:0:0], p...)
	return true
}

// PopFront removes the first n bytes. It fails if n exceeds the current
// length.
func (b *SampleBuffer) PopFront(n int) bool {
	if n < 0 || n > len(b.data) {
		return false
	}
	b.data = append(b.data[:0], b.data[n:]...)
	return true
}

// Clear empties the buffer, retaining capacity.
func (b *SampleBuffer) Clear() {
	b.data = b.data[:0]
}

// Clone returns an independent deep copy, or nil if the copy fails.
func (b *SampleBuffer) Clone() *SampleBuffer {
	return NewSampleBuffer(b.data)
}
