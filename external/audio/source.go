package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/foxseedlab/lucidia/internal/audio"
	"github.com/foxseedlab/lucidia/internal/config"
)

const (
	rawPCMSampleRate = 16000
	rawPCMChannels   = 1
)

// NewSourceFactory opens path (or stdin when path is empty) and decodes it
// according to format on every call.
func NewSourceFactory(format, path string, stdin io.Reader) audio.SourceFactory {
	return func() (audio.Source, error) {
		in, err := openInput(path, stdin)
		if err != nil {
			return nil, err
		}
		var src audio.Source
		switch format {
		case config.AudioFormatPCM, "":
			src = newPCMSource(in, audio.Format{SampleRate: rawPCMSampleRate, Channels: rawPCMChannels})
		case config.AudioFormatWAV:
			src, err = newWAVSource(in)
		case config.AudioFormatOggOpus:
			src, err = newOggOpusSource(in)
		default:
			err = fmt.Errorf("unsupported audio format %q", format)
		}
		if err != nil {
			_ = in.Close()
			return nil, err
		}
		return src, nil
	}
}

func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" {
		if stdin == nil {
			return nil, fmt.Errorf("no audio input: AUDIO_SOURCE_PATH is empty and stdin is unavailable")
		}
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio source: %w", err)
	}
	return f, nil
}

type pcmSource struct {
	io.ReadCloser
	format audio.Format
}

func newPCMSource(rc io.ReadCloser, format audio.Format) audio.Source {
	return &pcmSource{ReadCloser: rc, format: format}
}

func (s *pcmSource) Format() audio.Format {
	return s.format
}
