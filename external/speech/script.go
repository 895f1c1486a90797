package speech

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/foxseedlab/lucidia/internal/speech"
)

// ScriptCapability replays a text file as recognized speech: every non-blank
// line becomes one final utterance, followed by end of input.
type ScriptCapability struct {
	path     string
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

func NewScriptCapability(path string, interval time.Duration) speech.Capability {
	return &ScriptCapability{path: path, interval: interval}
}

func (c *ScriptCapability) StartListening(ctx context.Context, cfg speech.RecognitionConfig, listener speech.Listener) error {
	lines, err := readScript(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	slog.Info("replaying speech script", "path", c.path, "utterances", len(lines), "language", cfg.Language)
	go c.replay(runCtx, gen, cfg, lines, listener)
	return nil
}

func (c *ScriptCapability) replay(ctx context.Context, gen uint64, cfg speech.RecognitionConfig, lines []string, listener speech.Listener) {
	defer c.release(gen)
	for _, line := range lines {
		if c.interval > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.interval):
			}
		}
		if ctx.Err() != nil {
			return
		}
		listener.OnResult(speech.Result{
			IsFinal:      true,
			Alternatives: []speech.Alternative{{Transcript: line, Confidence: 1}},
		})
		if !cfg.Continuous {
			break
		}
	}
	if ctx.Err() != nil {
		return
	}
	listener.OnEnd()
}

func (c *ScriptCapability) release(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen && c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *ScriptCapability) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return speech.ErrNotListening
	}
	c.cancel()
	c.cancel = nil
	return nil
}

func readScript(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open speech script: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read speech script: %w", err)
	}
	return lines, nil
}
