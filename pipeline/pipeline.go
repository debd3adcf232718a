// Package pipeline moves raw samples from a demuxer through a decoder and
// fans the decoded audio and video out to renderer-facing channels. It
// owns no decoding logic itself; it routes, counts, and drops.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/lens/media"
)

// Channel buffer sizes decoupling decode from rendering. Sized to absorb
// jitter without excessive memory: ~2 seconds of video, ~2.5s of audio.
const (
	VideoBufferSize = 60
	AudioBufferSize = 120
)

// Decoder turns raw demuxed samples into decoded ones. Implementations are
// called from at most one goroutine per track type.
type Decoder interface {
	DecodeAudio(sample *media.RawSample) (*media.AudioSample, error)
	DecodeVideo(sample *media.RawSample) (*media.VideoSample, error)
}

// Stats is a point-in-time snapshot of pipeline counters.
type Stats struct {
	AudioDecoded int64
	VideoDecoded int64
	Dropped      int64
}

// Pipeline reads raw samples from an input channel, dispatches them by
// track type to the decoder, and forwards decoded samples to its output
// channels. Samples the decoder rejects as invalid input are dropped and
// counted; any other decode failure aborts the run.
type Pipeline struct {
	log *slog.Logger
	dec Decoder
	in  <-chan *media.RawSample

	video chan *media.VideoSample
	audio chan *media.AudioSample

	audioDecoded atomic.Int64
	videoDecoded atomic.Int64
	dropped      atomic.Int64
}

// New creates a pipeline decoding samples from in. A nil log uses the
// default logger.
func New(dec Decoder, in <-chan *media.RawSample, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		log:   log.With("component", "pipeline"),
		dec:   dec,
		in:    in,
		video: make(chan *media.VideoSample, VideoBufferSize),
		audio: make(chan *media.AudioSample, AudioBufferSize),
	}
}

// Video returns the decoded video output channel. It is closed when Run
// returns.
func (p *Pipeline) Video() <-chan *media.VideoSample { return p.video }

// Audio returns the decoded audio output channel. It is closed when Run
// returns.
func (p *Pipeline) Audio() <-chan *media.AudioSample { return p.audio }

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		AudioDecoded: p.audioDecoded.Load(),
		VideoDecoded: p.videoDecoded.Load(),
		Dropped:      p.dropped.Load(),
	}
}

// Run decodes until the input channel closes, an end-of-stream sample
// arrives, the context is canceled, or the decoder fails with a
// non-droppable error. Audio and video decode concurrently; output
// channels are closed before Run returns.
func (p *Pipeline) Run(ctx context.Context) error {
	rawAudio := make(chan *media.RawSample, AudioBufferSize)
	rawVideo := make(chan *media.RawSample, VideoBufferSize)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(rawAudio)
		defer close(rawVideo)
		return p.route(ctx, rawAudio, rawVideo)
	})
	g.Go(func() error {
		defer close(p.audio)
		return p.decodeAudio(ctx, rawAudio)
	})
	g.Go(func() error {
		defer close(p.video)
		return p.decodeVideo(ctx, rawVideo)
	})

	return g.Wait()
}

func (p *Pipeline) route(ctx context.Context, rawAudio, rawVideo chan<- *media.RawSample) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sample, ok := <-p.in:
			if !ok {
				return nil
			}
			if sample.EOS {
				return nil
			}
			if sample.Track == nil {
				p.dropped.Add(1)
				p.log.Warn("dropping sample without track info", "offset", sample.Offset)
				continue
			}
			switch sample.Track.Type {
			case media.TrackAudio:
				select {
				case rawAudio <- sample:
				case <-ctx.Done():
					return ctx.Err()
				}
			case media.TrackVideo:
				select {
				case rawVideo <- sample:
				case <-ctx.Done():
					return ctx.Err()
				}
			default:
				p.dropped.Add(1)
				p.log.Warn("dropping sample for unknown track type", "offset", sample.Offset)
			}
		}
	}
}

func (p *Pipeline) decodeAudio(ctx context.Context, in <-chan *media.RawSample) error {
	for sample := range in {
		decoded, err := p.dec.DecodeAudio(sample)
		if err != nil {
			if media.IsInvalidInput(err) {
				p.dropped.Add(1)
				p.log.Warn("dropping undecodable audio sample", "offset", sample.Offset, "error", err)
				continue
			}
			return fmt.Errorf("audio decode: %w", err)
		}
		select {
		case p.audio <- decoded:
			p.audioDecoded.Add(1)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (p *Pipeline) decodeVideo(ctx context.Context, in <-chan *media.RawSample) error {
	for sample := range in {
		decoded, err := p.dec.DecodeVideo(sample)
		if err != nil {
			if media.IsInvalidInput(err) {
				p.dropped.Add(1)
				p.log.Warn("dropping undecodable video sample", "offset", sample.Offset, "error", err)
				continue
			}
			return fmt.Errorf("video decode: %w", err)
		}
		select {
		case p.video <- decoded:
			p.videoDecoded.Add(1)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
