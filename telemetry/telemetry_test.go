package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogSinkEmitsStageAndHeight(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewLogSink(log)

	sink.Record(StageCopyDecodedVideo, 1080)

	out := buf.String()
	if !strings.Contains(out, string(StageCopyDecodedVideo)) {
		t.Errorf("output missing stage: %q", out)
	}
	if !strings.Contains(out, "height=1080") {
		t.Errorf("output missing height: %q", out)
	}
}

func TestNopSinkDiscards(t *testing.T) {
	t.Parallel()
	Nop{}.Record(StageCopyDemuxedData, 0) // must not panic
}
