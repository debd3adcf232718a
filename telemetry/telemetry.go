// Package telemetry defines the fire-and-forget performance sink that the
// sample pipeline tags with processing stages. Implementations must never
// block: recording happens on the decode hot path.
package telemetry

import "log/slog"

// Stage identifies a pipeline processing step being measured.
type Stage string

// Stages recorded by the media package.
const (
	StageCopyDecodedVideo Stage = "copy-decoded-video"
	StageCopyDemuxedData  Stage = "copy-demuxed-data"
)

// Sink receives stage events tagged with the frame height involved, the
// dominant cost factor for plane copies. Height is zero when unknown.
type Sink interface {
	Record(stage Stage, height int)
}

// Compile-time interface checks.
var (
	_ Sink = Nop{}
	_ Sink = (*LogSink)(nil)
)

// Nop discards all events.
type Nop struct{}

// Record implements Sink.
func (Nop) Record(Stage, int) {}

// LogSink emits each event as a debug log line.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink returns a sink logging through log. A nil log uses the default
// logger.
func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log}
}

// Record implements Sink.
func (s *LogSink) Record(stage Stage, height int) {
	s.log.Debug("pipeline stage", "stage", string(stage), "height", height)
}
