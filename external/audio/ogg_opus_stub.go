//go:build !opus

package audio

import (
	"errors"
	"io"

	"github.com/foxseedlab/lucidia/internal/audio"
)

var errOpusDisabled = errors.New("ogg-opus input requires a build with -tags opus")

func newOggOpusSource(_ io.ReadCloser) (audio.Source, error) {
	return nil, errOpusDisabled
}
