package media

import "github.com/zsiec/lens/buffer"

// ImageFormat discriminates the closed set of image representations a
// VideoSample can carry.
type ImageFormat int

// Image representation formats.
const (
	FormatPlanarYCbCr ImageFormat = iota
	FormatPackedColor
	FormatExternal
)

func (f ImageFormat) String() string {
	switch f {
	case FormatPlanarYCbCr:
		return "PLANAR_YCBCR"
	case FormatPackedColor:
		return "PACKED_COLOR"
	case FormatExternal:
		return "EXTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Image is the common capability set of all video sample representations.
// Which concrete representation gets used is a backend capability decision
// made by the caller through its ImageFactory; this package only enforces
// that validation precedes construction.
type Image interface {
	Format() ImageFormat
	ColorDepth() ColorDepth
}

// ImageFactory creates image representations. Either method may return nil
// to signal allocation failure, which callers surface as an out-of-memory
// error.
type ImageFactory interface {
	CreatePlanarImage() *PlanarImage
	CreateSharedColorImage() *PackedColorImage
}

// Compile-time interface checks.
var (
	_ Image        = (*PlanarImage)(nil)
	_ Image        = (*PackedColorImage)(nil)
	_ Image        = (*ExternalImage)(nil)
	_ ImageFactory = BasicImageFactory{}
)

// PlanarImage is a generic software YCbCr image. CopyData gives it an
// owned copy of the planes; AdoptData makes it a view over caller-owned
// planes that must outlive the image.
type PlanarImage struct {
	data  PlanarYCbCrData
	arena []byte // backing store when the planes were copied
	depth ColorDepth
}

// Format implements Image.
func (img *PlanarImage) Format() ImageFormat { return FormatPlanarYCbCr }

// ColorDepth implements Image.
func (img *PlanarImage) ColorDepth() ColorDepth {
	if img.depth == 0 {
		return Color8
	}
	return img.depth
}

// SetColorDepth records the depth of the plane data the image will carry.
func (img *PlanarImage) SetColorDepth(depth ColorDepth) {
	img.depth = depth
}

// Data returns the current plane descriptor.
func (img *PlanarImage) Data() PlanarYCbCrData { return img.data }

// CopyData copies the described planes into storage owned by the image.
// It returns an *AllocationError if the planes are larger than any sane
// frame could be.
func (img *PlanarImage) CopyData(data PlanarYCbCrData) error {
	yLen := int(data.YStride) * int(data.YSize.Height)
	cbCrLen := int(data.CbCrStride) * int(data.CbCrSize.Height)
	total := yLen + 2*cbCrLen
	if total <= 0 || total > buffer.MaxBufferSize {
		return &AllocationError{What: "planar image copy", Size: total}
	}
	arena := make([]byte, total)
	copy(arena[:yLen], data.YChannel)
	copy(arena[yLen:yLen+cbCrLen], data.CbChannel)
	copy(arena[yLen+cbCrLen:], data.CrChannel)

	img.arena = arena
	img.data = data
	img.data.YChannel = arena[:yLen]
	img.data.CbChannel = arena[yLen : yLen+cbCrLen]
	img.data.CrChannel = arena[yLen+cbCrLen:]
	img.depth = data.ColorDepth
	return nil
}

// AdoptData points the image at caller-owned planes without copying.
func (img *PlanarImage) AdoptData(data PlanarYCbCrData) error {
	img.arena = nil
	img.data = data
	img.depth = data.ColorDepth
	return nil
}

// PackedColorImage is an owned packed 4-channel color buffer (BGRA byte
// order), produced by alpha-compositing conversion.
type PackedColorImage struct {
	data   []byte
	width  int32
	height int32
	stride int32
}

// Format implements Image.
func (img *PackedColorImage) Format() ImageFormat { return FormatPackedColor }

// ColorDepth implements Image.
func (img *PackedColorImage) ColorDepth() ColorDepth { return Color8 }

// Allocate sizes the image for a w by h frame at 4 bytes per pixel. It
// reports false when the requested size is invalid or exceeds the
// allocation bound.
func (img *PackedColorImage) Allocate(w, h int32) bool {
	if w <= 0 || h <= 0 || w > maxPlaneDimension || h > maxPlaneDimension {
		return false
	}
	total := int(w) * int(h) * 4
	if total > buffer.MaxBufferSize {
		return false
	}
	img.data = make([]byte, total)
	img.width = w
	img.height = h
	img.stride = w * 4
	return true
}

// Data returns the packed pixel storage.
func (img *PackedColorImage) Data() []byte { return img.data }

// Stride returns the byte distance between rows.
func (img *PackedColorImage) Stride() int32 { return img.stride }

// Width returns the image width in pixels.
func (img *PackedColorImage) Width() int32 { return img.width }

// Height returns the image height in pixels.
func (img *PackedColorImage) Height() int32 { return img.height }

// ExternalImage wraps an externally produced representation (a platform
// surface, a GPU texture handle) that this package treats as opaque.
type ExternalImage struct {
	Handle any
	Depth  ColorDepth
}

// Format implements Image.
func (img *ExternalImage) Format() ImageFormat { return FormatExternal }

// ColorDepth implements Image.
func (img *ExternalImage) ColorDepth() ColorDepth {
	if img.Depth == 0 {
		return Color8
	}
	return img.Depth
}

// BasicImageFactory allocates plain software images. Platform backends
// with zero-copy surfaces provide their own ImageFactory.
type BasicImageFactory struct{}

// CreatePlanarImage implements ImageFactory.
func (BasicImageFactory) CreatePlanarImage() *PlanarImage { return &PlanarImage{} }

// CreateSharedColorImage implements ImageFactory.
func (BasicImageFactory) CreateSharedColorImage() *PackedColorImage { return &PackedColorImage{} }
