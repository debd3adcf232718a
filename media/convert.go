package media

import "encoding/binary"

// Func16To8 converts three 16-bit planes into three 8-bit planes. Source
// strides are in 16-bit samples, destination strides in bytes; width and
// height are the luma dimensions. A non-zero return is a failure status.
//
// These are the fixed-function conversion routines of the pipeline,
// selected per (bit depth, chroma subsampling) pair.
type Func16To8 func(
	srcY []byte, srcStrideY int,
	srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int,
	dstY []byte, dstStrideY int,
	dstU []byte, dstStrideU int,
	dstV []byte, dstStrideV int,
	width, height int) int

// convert16To8Func selects the conversion routine for a source format, or
// nil when the pair is unsupported.
func convert16To8Func(depth ColorDepth, subsampling ChromaSubsampling) Func16To8 {
	switch subsampling {
	case Chroma420:
		if depth == Color10 {
			return I010ToI420
		}
		if depth == Color12 {
			return I012ToI420
		}
	case Chroma422:
		if depth == Color10 {
			return I210ToI422
		}
		if depth == Color12 {
			return I212ToI422
		}
	case Chroma444:
		if depth == Color10 {
			return I410ToI444
		}
		if depth == Color12 {
			return I412ToI444
		}
	}
	return nil
}

// I010ToI420 converts 10-bit 4:2:0 planes to 8-bit.
func I010ToI420(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int, dstY []byte, dstStrideY int,
	dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int) int {
	return convert16To8(srcY, srcStrideY, srcU, srcStrideU, srcV, srcStrideV,
		dstY, dstStrideY, dstU, dstStrideU, dstV, dstStrideV,
		width, height, Chroma420, 2)
}

// I012ToI420 converts 12-bit 4:2:0 planes to 8-bit.
func I012ToI420(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int, dstY []byte, dstStrideY int,
	dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int) int {
	return convert16To8(srcY, srcStrideY, srcU, srcStrideU, srcV, srcStrideV,
		dstY, dstStrideY, dstU, dstStrideU, dstV, dstStrideV,
		width, height, Chroma420, 4)
}

// I210ToI422 converts 10-bit 4:2:2 planes to 8-bit.
func I210ToI422(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int, dstY []byte, dstStrideY int,
	dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int) int {
	return convert16To8(srcY, srcStrideY, srcU, srcStrideU, srcV, srcStrideV,
		dstY, dstStrideY, dstU, dstStrideU, dstV, dstStrideV,
		width, height, Chroma422, 2)
}

// I212ToI422 converts 12-bit 4:2:2 planes to 8-bit.
func I212ToI422(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int, dstY []byte, dstStrideY int,
	dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int) int {
	return convert16To8(srcY, srcStrideY, srcU, srcStrideU, srcV, srcStrideV,
		dstY, dstStrideY, dstU, dstStrideU, dstV, dstStrideV,
		width, height, Chroma422, 4)
}

// I410ToI444 converts 10-bit 4:4:4 planes to 8-bit.
func I410ToI444(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int, dstY []byte, dstStrideY int,
	dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int) int {
	return convert16To8(srcY, srcStrideY, srcU, srcStrideU, srcV, srcStrideV,
		dstY, dstStrideY, dstU, dstStrideU, dstV, dstStrideV,
		width, height, Chroma444, 2)
}

// I412ToI444 converts 12-bit 4:4:4 planes to 8-bit.
func I412ToI444(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int, dstY []byte, dstStrideY int,
	dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int) int {
	return convert16To8(srcY, srcStrideY, srcU, srcStrideU, srcV, srcStrideV,
		dstY, dstStrideY, dstU, dstStrideU, dstV, dstStrideV,
		width, height, Chroma444, 4)
}

func convert16To8(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int, dstY []byte, dstStrideY int,
	dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int, subsampling ChromaSubsampling, shift int) int {
	if width <= 0 || height <= 0 {
		return -1
	}
	chromaWidth, chromaHeight := chromaDims(width, height, subsampling)
	if convertPlane16To8(srcY, srcStrideY, dstY, dstStrideY, width, height, shift) != 0 ||
		convertPlane16To8(srcU, srcStrideU, dstU, dstStrideU, chromaWidth, chromaHeight, shift) != 0 ||
		convertPlane16To8(srcV, srcStrideV, dstV, dstStrideV, chromaWidth, chromaHeight, shift) != 0 {
		return -1
	}
	return 0
}

func chromaDims(width, height int, subsampling ChromaSubsampling) (int, int) {
	switch subsampling {
	case Chroma420:
		return (width + 1) / 2, (height + 1) / 2
	case Chroma422:
		return (width + 1) / 2, height
	default:
		return width, height
	}
}

// convertPlane16To8 narrows one plane of little-endian 16-bit samples to 8
// bits by dropping the shift low-order bits. srcStride is in samples,
// dstStride in bytes.
func convertPlane16To8(src []byte, srcStride int, dst []byte, dstStride int,
	width, height, shift int) int {
	if srcStride < width || dstStride < width {
		return -1
	}
	if len(src) < 2*((height-1)*srcStride+width) || len(dst) < (height-1)*dstStride+width {
		return -1
	}
	for row := 0; row < height; row++ {
		srcRow := src[2*row*srcStride:]
		dstRow := dst[row*dstStride:]
		for col := 0; col < width; col++ {
			v := binary.LittleEndian.Uint16(srcRow[2*col:]) >> shift
			if v > 255 {
				v = 255
			}
			dstRow[col] = uint8(v)
		}
	}
	return 0
}

// I420AlphaToARGB composites 8-bit 4:2:0 YUV planes plus an alpha plane
// into a packed BGRA-byte-order buffer using BT.601 limited-range
// coefficients. Strides are in bytes. A non-zero return is a failure
// status.
func I420AlphaToARGB(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int,
	srcV []byte, srcStrideV int, srcA []byte, srcStrideA int,
	dst []byte, dstStride int, width, height int) int {
	if width <= 0 || height <= 0 || dstStride < width*4 {
		return -1
	}
	if len(srcY) < (height-1)*srcStrideY+width ||
		len(srcA) < (height-1)*srcStrideA+width ||
		len(dst) < (height-1)*dstStride+width*4 {
		return -1
	}
	chromaWidth := (width + 1) / 2
	chromaHeight := (height + 1) / 2
	if len(srcU) < (chromaHeight-1)*srcStrideU+chromaWidth ||
		len(srcV) < (chromaHeight-1)*srcStrideV+chromaWidth {
		return -1
	}
	for row := 0; row < height; row++ {
		yRow := srcY[row*srcStrideY:]
		aRow := srcA[row*srcStrideA:]
		uRow := srcU[(row/2)*srcStrideU:]
		vRow := srcV[(row/2)*srcStrideV:]
		out := dst[row*dstStride:]
		for col := 0; col < width; col++ {
			c := int(yRow[col]) - 16
			d := int(uRow[col/2]) - 128
			e := int(vRow[col/2]) - 128
			r := clampByte((298*c + 409*e + 128) >> 8)
			g := clampByte((298*c - 100*d - 208*e + 128) >> 8)
			b := clampByte((298*c + 516*d + 128) >> 8)
			out[col*4+0] = b
			out[col*4+1] = g
			out[col*4+2] = r
			out[col*4+3] = aRow[col]
		}
	}
	return 0
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
