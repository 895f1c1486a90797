//go:build !opus

package audio

import (
	"bytes"
	"errors"
	"testing"
)

func TestOggOpusSource_DisabledWithoutTag(t *testing.T) {
	_, err := NewSourceFactory("ogg-opus", "", bytes.NewReader([]byte("OggS")))()
	if !errors.Is(err, errOpusDisabled) {
		t.Fatalf("expected errOpusDisabled, got %v", err)
	}
}
