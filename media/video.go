package media

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zsiec/lens/telemetry"
	"github.com/zsiec/lens/timeunit"
)

// VideoInfo carries the track-level metadata a decoder knows about the
// stream: the size the frame should be displayed at and the coded plane
// size from the bitstream headers.
type VideoInfo struct {
	Display   Size
	CodedSize Size
}

// VideoSample is one decoded, validated video frame ready for
// compositing. The image representation is assigned at construction and
// immutable afterwards; only the timestamp, duration, and compositor-sent
// flag may change, and only while a single owner holds the sample.
type VideoSample struct {
	// Offset is the byte offset of the frame in the source stream.
	Offset int64

	Keyframe bool

	// Display is the size the frame should be rendered at, which may
	// differ from the coded plane size.
	Display Size

	// FrameID uniquely identifies the frame across the pipeline, for
	// compositor bookkeeping and log correlation.
	FrameID uuid.UUID

	// NextKeyFrameTime is a seek hint: the presentation time of the next
	// keyframe when the demuxer knows it, invalid otherwise.
	NextKeyFrameTime timeunit.TimeUnit

	time     timeunit.TimeUnit
	duration timeunit.TimeUnit
	timecode timeunit.TimeUnit

	image Image

	sentToCompositor bool
}

func newVideoSample(offset int64, t, d timeunit.TimeUnit, keyframe bool,
	timecode timeunit.TimeUnit, display Size) *VideoSample {
	if d.IsNegative() {
		panic("media: video frame must have non-negative duration")
	}
	return &VideoSample{
		Offset:           offset,
		Keyframe:         keyframe,
		Display:          display,
		FrameID:          uuid.New(),
		NextKeyFrameTime: timeunit.Invalid(),
		time:             t,
		duration:         d,
		timecode:         timecode,
	}
}

// CreateAndCopyData validates buf against picture and constructs a
// VideoSample whose planar image owns a copy of the plane data. A nil
// factory produces an imageless sample, which still gives downstream
// consumers something to sequence on. Validation failures return an
// *InvalidBufferError; allocation failures an *AllocationError. A sample
// is never returned half initialized.
func CreateAndCopyData(info VideoInfo, factory ImageFactory, offset int64,
	t, d timeunit.TimeUnit, buf *YCbCrBuffer, keyframe bool,
	timecode timeunit.TimeUnit, picture Rect, perf telemetry.Sink) (*VideoSample, error) {
	if factory == nil {
		return newVideoSample(offset, t, d, keyframe, timecode, info.Display), nil
	}
	if err := ValidateBufferAndPicture(buf, picture); err != nil {
		return nil, err
	}
	if perf == nil {
		perf = telemetry.Nop{}
	}

	v := newVideoSample(offset, t, d, keyframe, timecode, info.Display)

	img := factory.CreatePlanarImage()
	if img == nil {
		return nil, &AllocationError{What: "planar image"}
	}
	img.SetColorDepth(buf.ColorDepth)
	if err := img.CopyData(constructPlanarYCbCrData(buf, picture)); err != nil {
		return nil, fmt.Errorf("failed to copy image data: %w", err)
	}
	v.image = img

	perf.Record(telemetry.StageCopyDecodedVideo, int(info.CodedSize.Height))
	return v, nil
}

// CreateAndCopyDataWithAlpha validates buf against picture and constructs
// a VideoSample backed by a packed color image, compositing the alpha
// plane into it. Any validation, allocation, or conversion failure yields
// a nil sample and an error the caller should treat as a dropped frame.
func CreateAndCopyDataWithAlpha(info VideoInfo, factory ImageFactory, offset int64,
	t, d timeunit.TimeUnit, buf *YCbCrBuffer, alphaPlane Plane, keyframe bool,
	timecode timeunit.TimeUnit, picture Rect) (*VideoSample, error) {
	if factory == nil {
		return newVideoSample(offset, t, d, keyframe, timecode, info.Display), nil
	}
	if err := ValidateBufferAndPicture(buf, picture); err != nil {
		return nil, err
	}

	v := newVideoSample(offset, t, d, keyframe, timecode, info.Display)

	img := factory.CreateSharedColorImage()
	if img == nil {
		return nil, &AllocationError{What: "packed color image"}
	}
	y := &buf.Planes[0]
	if !img.Allocate(int32(y.Width), int32(y.Height)) {
		return nil, &AllocationError{What: "packed color buffer",
			Size: int(y.Width) * int(y.Height) * 4}
	}

	status := I420AlphaToARGB(
		buf.Planes[0].Data, int(buf.Planes[0].Stride),
		buf.Planes[1].Data, int(buf.Planes[1].Stride),
		buf.Planes[2].Data, int(buf.Planes[2].Stride),
		alphaPlane.Data, int(alphaPlane.Stride),
		img.Data(), int(img.Stride()),
		int(img.Width()), int(img.Height()))
	if status != 0 {
		return nil, &ConversionError{Status: status}
	}
	v.image = img
	return v, nil
}

// CreateFromImage wraps an externally produced image in a VideoSample with
// no validation; the image source is trusted.
func CreateFromImage(display Size, offset int64, t, d timeunit.TimeUnit,
	img Image, keyframe bool, timecode timeunit.TimeUnit) *VideoSample {
	v := newVideoSample(offset, t, d, keyframe, timecode, display)
	v.image = img
	return v
}

// Time returns the presentation time.
func (v *VideoSample) Time() timeunit.TimeUnit { return v.time }

// Duration returns the frame duration.
func (v *VideoSample) Duration() timeunit.TimeUnit { return v.duration }

// EndTime returns Time+Duration.
func (v *VideoSample) EndTime() timeunit.TimeUnit { return v.time.Add(v.duration) }

// Timecode returns the decode timestamp.
func (v *VideoSample) Timecode() timeunit.TimeUnit { return v.timecode }

// Image returns the frame's representation, nil for imageless samples.
func (v *VideoSample) Image() Image { return v.image }

// ColorDepth returns the depth of the image data, Color8 when there is no
// image.
func (v *VideoSample) ColorDepth() ColorDepth {
	if v.image == nil {
		return Color8
	}
	return v.image.ColorDepth()
}

// UpdateDuration replaces the duration, which must not be negative.
func (v *VideoSample) UpdateDuration(d timeunit.TimeUnit) {
	if d.IsNegative() {
		panic("media: negative video duration")
	}
	v.duration = d
}

// UpdateTimestamp moves the presentation time while keeping the end time
// fixed, recomputing the duration. The new timestamp must not be negative
// or produce a negative duration.
func (v *VideoSample) UpdateTimestamp(t timeunit.TimeUnit) {
	if t.IsNegative() {
		panic("media: negative video timestamp")
	}
	updated := v.EndTime().Sub(t)
	if updated.IsNegative() {
		panic("media: video timestamp update past end time")
	}
	v.time = t
	v.duration = updated
}

// AdjustForStartTime shifts the presentation time earlier by startTime. A
// time that becomes negative is tolerated with a warning; overflow makes
// the result invalid and returns false.
func (v *VideoSample) AdjustForStartTime(startTime timeunit.TimeUnit) bool {
	v.time = v.time.Sub(startTime)
	if v.time.IsNegative() {
		slog.Warn("negative video start time after time-adjustment", "sample", v.String())
	}
	return v.time.IsValid()
}

// MarkSentToCompositor flags the frame as handed to the compositor.
func (v *VideoSample) MarkSentToCompositor() { v.sentToCompositor = true }

// WasSentToCompositor reports whether the frame was handed to the
// compositor.
func (v *VideoSample) WasSentToCompositor() bool { return v.sentToCompositor }

func (v *VideoSample) String() string {
	format := "null"
	if v.image != nil {
		format = v.image.Format().String()
	}
	return fmt.Sprintf("VideoSample [%s,%s] [%dx%d] format: %s",
		v.time, v.duration, v.Display.Width, v.Display.Height, format)
}
