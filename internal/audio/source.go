package audio

import "io"

// Format describes 16-bit little-endian PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// BytesPerSecond is the byte rate of the PCM stream.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * 2
}

// Source yields LINEAR16 PCM. Read returns io.EOF once the input is exhausted.
type Source interface {
	io.ReadCloser
	Format() Format
}

type SourceFactory func() (Source, error)
