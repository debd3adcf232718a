package media

import (
	"strings"

	"github.com/zsiec/lens/buffer"
	"github.com/zsiec/lens/telemetry"
	"github.com/zsiec/lens/timeunit"
)

// TrackType identifies the elementary stream a raw sample belongs to.
type TrackType int

// Track types.
const (
	TrackUnknown TrackType = iota
	TrackAudio
	TrackVideo
)

func (t TrackType) String() string {
	switch t {
	case TrackAudio:
		return "audio"
	case TrackVideo:
		return "video"
	default:
		return "unknown"
	}
}

// TrackInfo describes the track a raw sample was demuxed from.
type TrackInfo struct {
	Type       TrackType
	Codec      string
	Width      int32
	Height     int32
	SampleRate uint32
	Channels   uint32
}

// CryptoScheme is the encryption scheme protecting a sample's payload.
type CryptoScheme uint8

// Encryption schemes.
const (
	CryptoSchemeNone CryptoScheme = 0
	CryptoSchemeCenc CryptoScheme = 1 << iota
	CryptoSchemeCbcs
	CryptoSchemeCbcs19
)

func (s CryptoScheme) String() string {
	switch s {
	case CryptoSchemeCenc:
		return "cenc"
	case CryptoSchemeCbcs:
		return "cbcs"
	case CryptoSchemeCbcs19:
		return "cbcs-1-9"
	default:
		return "none"
	}
}

// ParseCryptoScheme maps a scheme name to its CryptoScheme, returning
// CryptoSchemeNone for anything unrecognized.
func ParseCryptoScheme(s string) CryptoScheme {
	switch s {
	case "cenc":
		return CryptoSchemeCenc
	case "cbcs":
		return CryptoSchemeCbcs
	case "cbcs-1-9":
		return CryptoSchemeCbcs19
	default:
		return CryptoSchemeNone
	}
}

// CryptoSchemeSet is a set of encryption schemes a key system supports.
type CryptoSchemeSet uint8

// Contains reports whether the set includes s.
func (set CryptoSchemeSet) Contains(s CryptoScheme) bool {
	return uint8(set)&uint8(s) != 0
}

// Add returns the set with s included.
func (set CryptoSchemeSet) Add(s CryptoScheme) CryptoSchemeSet {
	return CryptoSchemeSet(uint8(set) | uint8(s))
}

func (set CryptoSchemeSet) String() string {
	var parts []string
	for _, s := range []CryptoScheme{CryptoSchemeCenc, CryptoSchemeCbcs, CryptoSchemeCbcs19} {
		if set.Contains(s) {
			parts = append(parts, s.String())
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "/")
}

// CryptoInfo is the per-sample encryption metadata carried alongside the
// payload. Plain and encrypted byte counts alternate to describe the
// subsample pattern.
type CryptoInfo struct {
	Scheme         CryptoScheme
	KeyID          []byte
	IV             []byte
	PlainSizes     []uint32
	EncryptedSizes []uint32
}

func (c CryptoInfo) clone() CryptoInfo {
	out := c
	out.KeyID = append([]byte(nil), c.KeyID...)
	out.IV = append([]byte(nil), c.IV...)
	out.PlainSizes = append([]uint32(nil), c.PlainSizes...)
	out.EncryptedSizes = append([]uint32(nil), c.EncryptedSizes...)
	return out
}

// RawSample is a demuxed, possibly encrypted payload on its way to a
// decoder. Its buffers are mutable only through a RawSampleWriter while
// the demuxer exclusively owns the sample; once published downstream it is
// read-only.
type RawSample struct {
	// Offset is the byte offset of the sample in the source stream.
	Offset int64

	Time     timeunit.TimeUnit
	Timecode timeunit.TimeUnit
	Duration timeunit.TimeUnit

	Keyframe bool
	EOS      bool

	// ExtraData is the codec initialization payload (e.g. avcC). It is
	// immutable and shared between clones.
	ExtraData []byte

	Crypto CryptoInfo
	Track  *TrackInfo

	// OriginalPresentationWindow preserves the sample's pre-adjustment
	// presentation range when set.
	OriginalPresentationWindow *timeunit.Interval

	buf      buffer.SampleBuffer
	alphaBuf buffer.SampleBuffer

	perf telemetry.Sink
}

// NewRawSample creates a raw sample owning a copy of data. alphaData may
// be nil. It returns nil when the copy fails.
func NewRawSample(data, alphaData []byte) *RawSample {
	s := &RawSample{
		Time:     timeunit.Invalid(),
		Timecode: timeunit.Invalid(),
		Duration: timeunit.Invalid(),
	}
	if !s.buf.Append(data) {
		return nil
	}
	if !s.alphaBuf.Append(alphaData) {
		return nil
	}
	return s
}

// SetTelemetrySink routes this sample's copy events to sink.
func (s *RawSample) SetTelemetrySink(sink telemetry.Sink) {
	s.perf = sink
}

// Data returns the main payload. Read-only once the sample is published.
func (s *RawSample) Data() []byte { return s.buf.Data() }

// AlphaData returns the alpha payload, empty for opaque samples.
func (s *RawSample) AlphaData() []byte { return s.alphaBuf.Data() }

// Size returns the main payload length in bytes.
func (s *RawSample) Size() int { return s.buf.Len() }

// EndTime returns Time+Duration.
func (s *RawSample) EndTime() timeunit.TimeUnit { return s.Time.Add(s.Duration) }

// Clone produces a fully independent deep copy of the sample and both of
// its buffers. It returns nil when either buffer copy fails, never a
// partially copied sample.
func (s *RawSample) Clone() *RawSample {
	height := 0
	if s.Track != nil && s.Track.Type == TrackVideo {
		height = int(s.Track.Height)
	}

	out := &RawSample{
		Offset:    s.Offset,
		Time:      s.Time,
		Timecode:  s.Timecode,
		Duration:  s.Duration,
		Keyframe:  s.Keyframe,
		EOS:       s.EOS,
		ExtraData: s.ExtraData,
		Crypto:    s.Crypto.clone(),
		Track:     s.Track,
		perf:      s.perf,
	}
	if s.OriginalPresentationWindow != nil {
		window := *s.OriginalPresentationWindow
		out.OriginalPresentationWindow = &window
	}
	if !out.buf.Append(s.buf.Data()) {
		return nil
	}
	if !out.alphaBuf.Append(s.alphaBuf.Data()) {
		return nil
	}

	if s.perf != nil {
		s.perf.Record(telemetry.StageCopyDemuxedData, height)
	}
	return out
}

// CreateWriter returns the sole mutator for the sample's buffers. Only the
// sample's exclusive owner may create and use a writer.
func (s *RawSample) CreateWriter() *RawSampleWriter {
	return &RawSampleWriter{target: s}
}

// RawSampleWriter mutates a RawSample's main buffer on behalf of the
// demuxer that owns the sample. Every operation delegates to the owned
// buffer and propagates its success.
type RawSampleWriter struct {
	target *RawSample
}

// SetSize resizes the payload, zero-filling growth.
func (w *RawSampleWriter) SetSize(n int) bool {
	return w.target.buf.SetLength(n)
}

// Append adds p to the end of the payload.
func (w *RawSampleWriter) Append(p []byte) bool {
	return w.target.buf.Append(p)
}

// Prepend inserts p at the front of the payload.
func (w *RawSampleWriter) Prepend(p []byte) bool {
	return w.target.buf.Prepend(p)
}

// Replace swaps the payload for a copy of p.
func (w *RawSampleWriter) Replace(p []byte) bool {
	return w.target.buf.Replace(p)
}

// Clear empties the payload.
func (w *RawSampleWriter) Clear() {
	w.target.buf.Clear()
}

// PopFront removes the first n bytes of the payload.
func (w *RawSampleWriter) PopFront(n int) bool {
	return w.target.buf.PopFront(n)
}

// Data returns the mutable payload bytes.
func (w *RawSampleWriter) Data() []byte {
	return w.target.buf.Data()
}

// Size returns the payload length in bytes.
func (w *RawSampleWriter) Size() int {
	return w.target.buf.Len()
}
