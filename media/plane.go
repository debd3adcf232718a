// Package media defines the decoded sample types that flow from a decoder
// to a renderer or compositor: audio frames with trim-window views, video
// frames with validated plane geometry, high-bit-depth buffers with pooled
// 8-bit down-conversion, and the raw demuxed samples upstream of decoding.
package media

import "fmt"

// Geometry ceilings for decoded planes. A plane dimension past
// maxPlaneDimension, or a pixel count at or past the combined ceiling,
// cannot come from a well-formed bitstream and is rejected before any
// plane data is touched.
const (
	maxPlaneDimension = 16384
	maxVideoWidth     = 8192
	maxVideoHeight    = 4608
)

// ColorDepth is the number of significant bits per sample in a plane.
type ColorDepth int

// Supported color depths.
const (
	Color8  ColorDepth = 8
	Color10 ColorDepth = 10
	Color12 ColorDepth = 12
)

// ChromaSubsampling is the chroma-to-luma resolution ratio of a YCbCr
// buffer.
type ChromaSubsampling int

// Subsampling modes.
const (
	ChromaUnknown ChromaSubsampling = iota
	Chroma420                       // half width and height
	Chroma422                       // half width
	Chroma444                       // full resolution
)

func (c ChromaSubsampling) String() string {
	switch c {
	case Chroma420:
		return "4:2:0"
	case Chroma422:
		return "4:2:2"
	case Chroma444:
		return "4:4:4"
	default:
		return "unknown"
	}
}

// ColorSpace identifies the YUV matrix coefficients of a buffer.
type ColorSpace int

// Color spaces.
const (
	ColorSpaceUnknown ColorSpace = iota
	ColorSpaceBT601
	ColorSpaceBT709
	ColorSpaceBT2020
)

// ColorRange distinguishes limited (broadcast) from full range samples.
type ColorRange int

// Color ranges.
const (
	ColorRangeLimited ColorRange = iota
	ColorRangeFull
)

// ColorPrimaries identifies the chromaticity coordinates of a buffer.
type ColorPrimaries int

// Color primaries.
const (
	PrimariesUnknown ColorPrimaries = iota
	PrimariesBT709
	PrimariesBT2020
)

// Rect is an integer pixel rectangle.
type Rect struct {
	X, Y          int32
	Width, Height int32
}

// Size is an integer pixel extent.
type Size struct {
	Width, Height int32
}

// Plane is a view over one channel of decoded pixel data. The data is
// supplied by the decoder and not owned: this package never mutates it,
// producing new buffers instead during down-conversion. For depths above 8
// bits, Data holds little-endian 16-bit samples and Stride remains the
// byte distance between rows.
type Plane struct {
	Data   []byte
	Width  uint32
	Height uint32
	Stride uint32 // bytes per row
	Skip   uint32 // samples to skip between pixels (0 for packed planes)
}

// YCbCrBuffer is the tri-planar output of a video decoder, in Y, Cb, Cr
// order, plus the colorimetry needed to interpret it.
type YCbCrBuffer struct {
	Planes [3]Plane

	ColorDepth        ColorDepth
	ChromaSubsampling ChromaSubsampling
	ColorSpace        ColorSpace
	ColorPrimaries    ColorPrimaries
	ColorRange        ColorRange
}

// ValidatePlane reports whether a plane's geometry is usable: dimensions
// within bounds, pixel count below the combined ceiling, a positive stride
// no narrower than the width.
func ValidatePlane(p Plane) bool {
	return p.Width <= maxPlaneDimension && p.Height <= maxPlaneDimension &&
		uint64(p.Width)*uint64(p.Height) < maxVideoWidth*maxVideoHeight &&
		p.Stride > 0 && p.Width <= p.Stride
}

// ValidateBufferAndPicture checks that buf's planes are well formed and
// that picture can be extracted from the luma plane without reading out of
// bounds. It returns an *InvalidBufferError describing the first failure.
func ValidateBufferAndPicture(buf *YCbCrBuffer, picture Rect) error {
	// Mismatched chroma planes never happen unless the decoder itself is
	// buggy, but the cost of checking is trivial next to stomped memory.
	if buf.Planes[1].Width != buf.Planes[2].Width ||
		buf.Planes[1].Height != buf.Planes[2].Height {
		return &InvalidBufferError{Reason: "chroma planes with different sizes"}
	}

	// The remaining cases can be triggered by invalid input.
	if picture.Width <= 0 || picture.Height <= 0 {
		return &InvalidBufferError{Reason: "empty picture rect"}
	}
	if !ValidatePlane(buf.Planes[0]) || !ValidatePlane(buf.Planes[1]) ||
		!ValidatePlane(buf.Planes[2]) {
		return &InvalidBufferError{Reason: "invalid plane size"}
	}

	// Ensure the picture rect can be extracted from the planes we were
	// handed without indexing out of bounds. Negative origins wrap to huge
	// unsigned values and fail the limit check, as does 32-bit overflow.
	xLimit, xOK := checkedUint32Add(uint32(picture.X), uint32(picture.Width))
	yLimit, yOK := checkedUint32Add(uint32(picture.Y), uint32(picture.Height))
	if !xOK || xLimit > buf.Planes[0].Stride || !yOK || yLimit > buf.Planes[0].Height {
		return &InvalidBufferError{Reason: "overflowing picture rect"}
	}
	return nil
}

func checkedUint32Add(a, b uint32) (uint32, bool) {
	sum := a + b
	return sum, sum >= a
}

// PlanarYCbCrData is the flattened plane descriptor handed to image
// representations for copy or adoption.
type PlanarYCbCrData struct {
	YChannel []byte
	YStride  int32
	YSkip    int32

	CbChannel  []byte
	CrChannel  []byte
	CbCrStride int32
	CbSkip     int32
	CrSkip     int32

	YSize    Size
	CbCrSize Size

	PictureRect       Rect
	ColorDepth        ColorDepth
	ChromaSubsampling ChromaSubsampling
	ColorSpace        ColorSpace
	ColorPrimaries    ColorPrimaries
	ColorRange        ColorRange
}

// constructPlanarYCbCrData flattens a validated YCbCrBuffer into the
// descriptor consumed by image representations.
func constructPlanarYCbCrData(buf *YCbCrBuffer, picture Rect) PlanarYCbCrData {
	y, cb, cr := &buf.Planes[0], &buf.Planes[1], &buf.Planes[2]
	return PlanarYCbCrData{
		YChannel:          y.Data,
		YStride:           int32(y.Stride),
		YSkip:             int32(y.Skip),
		CbChannel:         cb.Data,
		CrChannel:         cr.Data,
		CbCrStride:        int32(cb.Stride),
		CbSkip:            int32(cb.Skip),
		CrSkip:            int32(cr.Skip),
		YSize:             Size{Width: int32(y.Width), Height: int32(y.Height)},
		CbCrSize:          Size{Width: int32(cb.Width), Height: int32(cb.Height)},
		PictureRect:       picture,
		ColorDepth:        buf.ColorDepth,
		ChromaSubsampling: buf.ChromaSubsampling,
		ColorSpace:        buf.ColorSpace,
		ColorPrimaries:    buf.ColorPrimaries,
		ColorRange:        buf.ColorRange,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
