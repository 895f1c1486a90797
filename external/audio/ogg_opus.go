//go:build opus

package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/foxseedlab/lucidia/internal/audio"
	"github.com/hraban/opus"
)

const (
	opusSampleRate   = 48000
	opusChannels     = 1
	opusFrameSizeMs  = 20
	opusFrameSamples = opusSampleRate * opusFrameSizeMs * opusChannels / 1000
)

// oggOpusSource decodes a mono Ogg Opus recording to 48kHz PCM.
type oggOpusSource struct {
	closer  io.Closer
	stream  *opus.Stream
	pcm     []int16
	pending []byte
}

func newOggOpusSource(in io.ReadCloser) (audio.Source, error) {
	stream, err := opus.NewStream(in)
	if err != nil {
		return nil, fmt.Errorf("open ogg opus stream: %w", err)
	}
	return &oggOpusSource{
		closer: in,
		stream: stream,
		pcm:    make([]int16, opusFrameSamples),
	}, nil
}

func (s *oggOpusSource) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		n, err := s.stream.Read(s.pcm)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		total := min(n*opusChannels, len(s.pcm))
		s.pending = s.pending[:0]
		for _, v := range s.pcm[:total] {
			s.pending = binary.LittleEndian.AppendUint16(s.pending, uint16(v))
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *oggOpusSource) Format() audio.Format {
	return audio.Format{SampleRate: opusSampleRate, Channels: opusChannels}
}

func (s *oggOpusSource) Close() error {
	streamErr := s.stream.Close()
	if err := s.closer.Close(); err != nil {
		return err
	}
	return streamErr
}
