package media

import (
	"github.com/zsiec/lens/buffer"
)

// QuantizableBuffer wraps the planes of a high-bit-depth frame so they can
// be down-converted to 8 bits per channel in a single pooled allocation.
// After a successful conversion the embedded planes describe the new 8-bit
// data; the original 16-bit source is not retained.
//
// Close must be called once the planes are no longer referenced so the
// pooled buffer returns to its pool.
type QuantizableBuffer struct {
	YCbCrBuffer

	pool      *buffer.RecyclePool
	planes8   []byte
	allocated int
}

// NewQuantizableBuffer wraps a decoder's high-bit-depth output.
func NewQuantizableBuffer(buf YCbCrBuffer) *QuantizableBuffer {
	return &QuantizableBuffer{YCbCrBuffer: buf}
}

// To8BitPerChannel converts the 10- or 12-bit planes to 8 bits per channel
// using one buffer drawn from pool, then rewrites the plane views and color
// depth in place to describe the converted data. It may be called at most
// once per buffer; a second call panics. Allocation failure returns an
// *AllocationError carrying the requested size; an unsupported
// depth/subsampling pair or a failing conversion routine returns a decode
// error.
func (q *QuantizableBuffer) To8BitPerChannel(pool *buffer.RecyclePool) error {
	if q.pool != nil {
		panic("media: To8BitPerChannel called more than once")
	}
	q.pool = pool

	// 8-bit strides are half the 16-bit-sample byte strides.
	yStride := int(q.Planes[0].Stride) / 2
	uvStride := int(q.Planes[1].Stride) / 2
	yLength := yStride * int(q.Planes[0].Height)
	uvLength := uvStride * int(q.Planes[1].Height)

	total := yLength + 2*uvLength
	q.planes8 = pool.GetBuffer(total)
	if q.planes8 == nil {
		return &AllocationError{What: "8-bit conversion", Size: total}
	}
	q.allocated = total

	convertFunc := convert16To8Func(q.ColorDepth, q.ChromaSubsampling)
	if convertFunc == nil {
		return &UnsupportedFormatError{Depth: q.ColorDepth, Subsampling: q.ChromaSubsampling}
	}

	dstY := q.planes8[:yLength]
	dstU := q.planes8[yLength : yLength+uvLength]
	dstV := q.planes8[yLength+uvLength:]
	status := convertFunc(
		q.Planes[0].Data, yStride,
		q.Planes[1].Data, uvStride,
		q.Planes[2].Data, uvStride,
		dstY, yStride,
		dstU, uvStride,
		dstV, uvStride,
		int(q.Planes[0].Width), int(q.Planes[0].Height))
	if status != 0 {
		return &ConversionError{Status: status}
	}

	// Update buffer info to describe the converted planes.
	q.ColorDepth = Color8
	q.Planes[0].Data = dstY
	q.Planes[0].Stride = uint32(yStride)
	q.Planes[1].Data = dstU
	q.Planes[2].Data = dstV
	q.Planes[1].Stride = uint32(uvStride)
	q.Planes[2].Stride = uint32(uvStride)

	return nil
}

// Close returns the pooled buffer, with its allocated length, to the pool
// it came from. It is idempotent and safe to call on a buffer that never
// converted.
func (q *QuantizableBuffer) Close() {
	if q.planes8 != nil {
		q.pool.RecycleBuffer(q.planes8, q.allocated)
		q.planes8 = nil
	}
}
