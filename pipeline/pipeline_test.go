package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zsiec/lens/media"
	"github.com/zsiec/lens/timeunit"
)

// stubDecoder decodes raw samples into minimal decoded samples, failing
// per-sample when told to.
type stubDecoder struct {
	audioErr error
	videoErr error
}

func (d *stubDecoder) DecodeAudio(s *media.RawSample) (*media.AudioSample, error) {
	if d.audioErr != nil {
		return nil, d.audioErr
	}
	return media.NewAudioSample(s.Offset, timeunit.Zero(),
		make([]float32, 480*2), 2, 48000, media.LayoutStereo), nil
}

func (d *stubDecoder) DecodeVideo(s *media.RawSample) (*media.VideoSample, error) {
	if d.videoErr != nil {
		return nil, d.videoErr
	}
	return media.CreateFromImage(media.Size{Width: 64, Height: 64}, s.Offset,
		timeunit.Zero(), timeunit.FromMicros(33_333), nil, true, timeunit.Zero()), nil
}

func rawSample(t media.TrackType, offset int64) *media.RawSample {
	s := media.NewRawSample([]byte{1, 2, 3}, nil)
	s.Track = &media.TrackInfo{Type: t}
	s.Offset = offset
	return s
}

func TestPipelineForwardsDecodedSamples(t *testing.T) {
	t.Parallel()
	in := make(chan *media.RawSample)
	p := New(&stubDecoder{}, in, nil)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	go func() {
		for i := 0; i < 3; i++ {
			in <- rawSample(media.TrackAudio, int64(i))
		}
		for i := 0; i < 2; i++ {
			in <- rawSample(media.TrackVideo, int64(i))
		}
		close(in)
	}()

	var audio, video int
	for range p.Audio() {
		audio++
	}
	for range p.Video() {
		video++
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if audio != 3 || video != 2 {
		t.Errorf("forwarded audio/video = %d/%d, want 3/2", audio, video)
	}
	stats := p.Stats()
	if stats.AudioDecoded != 3 || stats.VideoDecoded != 2 || stats.Dropped != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestPipelineDropsInvalidInput(t *testing.T) {
	t.Parallel()
	in := make(chan *media.RawSample)
	dec := &stubDecoder{videoErr: &media.InvalidBufferError{Reason: "empty picture rect"}}
	p := New(dec, in, nil)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	go func() {
		in <- rawSample(media.TrackVideo, 0)
		in <- rawSample(media.TrackAudio, 1)
		close(in)
	}()

	var audio int
	for range p.Audio() {
		audio++
	}
	for range p.Video() {
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if audio != 1 {
		t.Errorf("audio forwarded = %d, want 1", audio)
	}
	if got := p.Stats().Dropped; got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}
}

func TestPipelineAbortsOnDecoderFailure(t *testing.T) {
	t.Parallel()
	in := make(chan *media.RawSample, 1)
	decodeErr := errors.New("decoder wedged")
	p := New(&stubDecoder{audioErr: decodeErr}, in, nil)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()
	in <- rawSample(media.TrackAudio, 0)

	go func() {
		for range p.Audio() {
		}
	}()
	go func() {
		for range p.Video() {
		}
	}()

	if err := <-done; !errors.Is(err, decodeErr) {
		t.Fatalf("Run error = %v, want %v", err, decodeErr)
	}
}

func TestPipelineStopsOnEOS(t *testing.T) {
	t.Parallel()
	in := make(chan *media.RawSample, 2)
	p := New(&stubDecoder{}, in, nil)

	eos := media.NewRawSample(nil, nil)
	eos.EOS = true
	in <- rawSample(media.TrackAudio, 0)
	in <- eos

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	var audio int
	for range p.Audio() {
		audio++
	}
	for range p.Video() {
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if audio != 1 {
		t.Errorf("audio forwarded = %d, want 1", audio)
	}
}

func TestPipelineHonorsCancellation(t *testing.T) {
	t.Parallel()
	in := make(chan *media.RawSample)
	p := New(&stubDecoder{}, in, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop after cancellation")
	}
}

func TestPipelineDropsUnroutableSamples(t *testing.T) {
	t.Parallel()
	in := make(chan *media.RawSample, 2)
	p := New(&stubDecoder{}, in, nil)

	noTrack := media.NewRawSample([]byte{1}, nil)
	in <- noTrack
	in <- rawSample(media.TrackUnknown, 1)
	close(in)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()
	for range p.Audio() {
	}
	for range p.Video() {
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := p.Stats().Dropped; got != 2 {
		t.Errorf("dropped = %d, want 2", got)
	}
}
