package media

import (
	"fmt"
	"log/slog"

	"github.com/zsiec/lens/timeunit"
)

// ChannelLayout is a speaker-position bitmask in WAVE channel-mask order.
type ChannelLayout uint32

// Common layouts.
const (
	LayoutUnknown ChannelLayout = 0
	LayoutMono    ChannelLayout = 0x4
	LayoutStereo  ChannelLayout = 0x3
	LayoutQuad    ChannelLayout = 0x33
	Layout5Point1 ChannelLayout = 0x3F
	Layout7Point1 ChannelLayout = 0x63F
)

// AudioSample is one decoded audio frame: interleaved float32 samples plus
// channel and rate metadata. A trim window narrows the readable view
// without copying; MoveableData transfers the buffer out, after which the
// sample is inert.
//
// An AudioSample is produced by one goroutine and may be handed to another;
// once shared it must be treated as immutable except for the documented
// single-owner mutations (trim, start-time adjustment, move-out), which the
// surrounding pipeline serializes.
type AudioSample struct {
	// Offset is the byte offset of the frame in the source stream.
	Offset int64

	Keyframe bool

	time         timeunit.TimeUnit
	duration     timeunit.TimeUnit
	originalTime timeunit.TimeUnit

	channels   uint32
	rate       uint32
	channelMap ChannelLayout

	data       []float32
	dataOffset int // samples (frames*channels) skipped from buffer start
	frames     int
	trimWindow *timeunit.Interval

	// planar is the lazily built channel-planar copy of the current view.
	planar []float32

	moved bool
}

// NewAudioSample creates a decoded audio frame over data, which the sample
// takes ownership of. It panics if channels or rate is zero; a decoder
// handing over such a frame is broken, not feeding bad input.
func NewAudioSample(offset int64, t timeunit.TimeUnit, data []float32,
	channels, rate uint32, channelMap ChannelLayout) *AudioSample {
	if channels == 0 {
		panic("media: cannot create an AudioSample with 0 channels")
	}
	if rate == 0 {
		panic("media: cannot create an AudioSample with a sample rate of 0")
	}
	frames := len(data) / int(channels)
	return &AudioSample{
		Offset:       offset,
		Keyframe:     true,
		time:         t,
		duration:     timeunit.FromFrames(int64(frames), int64(rate)),
		originalTime: t,
		channels:     channels,
		rate:         rate,
		channelMap:   channelMap,
		data:         data,
		frames:       frames,
	}
}

// Time returns the presentation time of the current (possibly trimmed)
// view.
func (s *AudioSample) Time() timeunit.TimeUnit { return s.time }

// Duration returns the duration of the current view.
func (s *AudioSample) Duration() timeunit.TimeUnit { return s.duration }

// EndTime returns Time+Duration.
func (s *AudioSample) EndTime() timeunit.TimeUnit { return s.time.Add(s.duration) }

// OriginalTime returns the pre-trim presentation time.
func (s *AudioSample) OriginalTime() timeunit.TimeUnit { return s.originalTime }

// Frames returns the frame count of the current view.
func (s *AudioSample) Frames() int { return s.frames }

// Channels returns the interleaved channel count.
func (s *AudioSample) Channels() uint32 { return s.channels }

// Rate returns the sample rate in Hz.
func (s *AudioSample) Rate() uint32 { return s.rate }

// ChannelMap returns the speaker layout of the interleaved channels.
func (s *AudioSample) ChannelMap() ChannelLayout { return s.channelMap }

// TrimWindow returns the active trim window, or nil when untrimmed.
func (s *AudioSample) TrimWindow() *timeunit.Interval { return s.trimWindow }

func (s *AudioSample) String() string {
	return fmt.Sprintf("AudioSample: %s %s %d frames %dHz, %dch",
		s.time, s.duration, s.frames, s.rate, s.channels)
}

// SetOriginalStartTime rebases the sample to start at t. Valid only before
// any trim; calling it afterwards panics.
func (s *AudioSample) SetOriginalStartTime(t timeunit.TimeUnit) {
	if !s.time.Equal(s.originalTime) {
		panic("media: SetOriginalStartTime called after data was trimmed")
	}
	s.time = t
	s.originalTime = t
}

// AdjustForStartTime shifts the sample and any trim window earlier by
// startTime. A time that becomes negative is tolerated with a warning;
// arithmetic overflow makes the result invalid and returns false.
func (s *AudioSample) AdjustForStartTime(startTime timeunit.TimeUnit) bool {
	s.originalTime = s.originalTime.Sub(startTime)
	s.time = s.time.Sub(startTime)
	if s.trimWindow != nil {
		shifted := s.trimWindow.Sub(startTime)
		s.trimWindow = &shifted
	}
	if s.time.IsNegative() {
		slog.Warn("negative audio start time after time-adjustment", "sample", s.String())
	}
	return s.time.IsValid() && s.originalTime.IsValid()
}

// SetTrimWindow narrows the readable view to trim, which must lie within
// the sample's original time range. It reports false without modifying the
// sample when the buffer has been moved out, the window is out of range,
// or the translated offsets overflow. Passing an interval with invalid
// endpoints panics: it means the caller already overflowed.
func (s *AudioSample) SetTrimWindow(trim timeunit.Interval) bool {
	if !trim.Start.IsValid() || !trim.End.IsValid() {
		panic("media: overflowed interval passed to SetTrimWindow")
	}
	if s.moved {
		// MoveableData was called; there is nothing left to trim.
		return false
	}
	if trim.Start.Before(s.originalTime) || trim.End.After(s.EndTime()) {
		return false
	}

	trimBefore := trim.Start.Sub(s.originalTime)
	trimAfter := trim.End.Sub(s.originalTime)
	if !trimBefore.IsValid() || !trimAfter.IsValid() {
		// Overflow.
		return false
	}
	if s.trimWindow == nil && trimBefore.IsZero() && trimAfter.Equal(s.duration) {
		// Nothing to change; abort early to prevent rounding errors from
		// repeated re-derivation of the same window.
		return true
	}

	rate := int64(s.rate)
	frameOffset := trimBefore.ToTicksAtRate(rate)
	window := trim
	s.trimWindow = &window
	s.dataOffset = int(frameOffset) * int(s.channels)
	if s.dataOffset > len(s.data) {
		panic("media: trim data offset outside original buffer")
	}
	frameCountAfterTrim := trimAfter.Sub(trimBefore).ToTicksAtRate(rate)
	if frameCountAfterTrim > int64(len(s.data)/int(s.channels)) {
		// Accept the rounding error caused by an imprecise time base in the
		// container, which can produce this mismatch but no other kind of
		// unexpected frame count. An offset lying exactly on a rate boundary
		// cannot be container imprecision.
		if trimBefore.IsBase(rate) {
			panic("media: trimmed frame count exceeds buffer on an exact rate boundary")
		}
		s.frames = 0
	} else {
		s.frames = int(frameCountAfterTrim)
	}
	s.time = s.originalTime.Add(trimBefore)
	s.duration = timeunit.FromFrames(int64(s.frames), rate)

	return true
}

// Data returns the current view of the interleaved samples: frames times
// channels values starting at the trim offset. The slice aliases the
// sample's buffer and is never a copy. It returns nil once the buffer has
// been moved out.
func (s *AudioSample) Data() []float32 {
	if s.moved {
		return nil
	}
	return s.data[s.dataOffset : s.dataOffset+s.frames*int(s.channels)]
}

// EnsureAudioBuffer builds the channel-planar copy of the current view for
// consumers that need non-interleaved layout. It is idempotent and a no-op
// once the buffer has been moved out.
func (s *AudioSample) EnsureAudioBuffer() {
	if s.planar != nil || s.moved {
		return
	}
	src := s.Data()
	frames, channels := s.frames, int(s.channels)
	planar := make([]float32, frames*channels)
	for i := 0; i < frames; i++ {
		for j := 0; j < channels; j++ {
			planar[j*frames+i] = src[i*channels+j]
		}
	}
	s.planar = planar
}

// PlanarData returns the channel-planar copy, building it on first use.
// Channel c occupies planar[c*Frames() : (c+1)*Frames()]. It returns nil
// once the buffer has been moved out.
func (s *AudioSample) PlanarData() []float32 {
	s.EnsureAudioBuffer()
	return s.planar
}

// MoveableData discards samples outside the current view, resets all trim
// state, and transfers ownership of the remaining buffer to the caller.
// The sample is inert afterwards: Data returns nil and further trims fail.
func (s *AudioSample) MoveableData() []float32 {
	out := s.data[s.dataOffset : s.dataOffset+s.frames*int(s.channels)]
	s.data = nil
	s.dataOffset = 0
	s.frames = 0
	s.trimWindow = nil
	s.moved = true
	return out
}
