package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/foxseedlab/lucidia/internal/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFrameSamples = 1600

var errWAVNotRegularFile = errors.New("wav input must be a regular file; stream pipes and FIFOs as pcm or ogg-opus")

type wavSource struct {
	closer  io.Closer
	decoder *wav.Decoder
	format  audio.Format
	buf     *goaudio.IntBuffer
	pending []byte
}

// newWAVSource decodes a 16-bit PCM WAV file. Files must be regular; other
// non-seekable readers are buffered whole.
func newWAVSource(in io.ReadCloser) (audio.Source, error) {
	if f, ok := in.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat wav input: %w", err)
		}
		if !info.Mode().IsRegular() {
			return nil, errWAVNotRegularFile
		}
	}
	rs, ok := in.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read wav input: %w", err)
		}
		rs = bytes.NewReader(b)
	}
	d := wav.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("invalid wav input")
	}
	if d.BitDepth != 16 {
		return nil, fmt.Errorf("wav input must be 16-bit, got %d-bit", d.BitDepth)
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("seek wav data chunk: %w", err)
	}
	format := audio.Format{SampleRate: int(d.SampleRate), Channels: int(d.NumChans)}
	return &wavSource{
		closer:  in,
		decoder: d,
		format:  format,
		buf: &goaudio.IntBuffer{
			Data:   make([]int, wavFrameSamples*format.Channels),
			Format: &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		},
	}, nil
}

func (s *wavSource) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		n, err := s.decoder.PCMBuffer(s.buf)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		s.pending = encodeSamples(s.pending[:0], s.buf.Data[:n])
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *wavSource) Format() audio.Format {
	return s.format
}

func (s *wavSource) Close() error {
	return s.closer.Close()
}

func encodeSamples(dst []byte, samples []int) []byte {
	for _, v := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(clampPCM(int32(v))))
	}
	return dst
}

func clampPCM(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
