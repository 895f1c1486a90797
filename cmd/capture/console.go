package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/foxseedlab/lucidia/internal/session"
	"github.com/foxseedlab/lucidia/internal/speech"
)

const helpText = `commands:
  start | stop | toggle   control listening
  type <text>             replace the transcript
  clear                   clear the transcript
  submit                  send the transcript for analysis
  reset                   stop listening and clear
  show                    print the current state
  quit                    exit`

type controller interface {
	OnChange(fn func(session.State))
	Snapshot() session.State
	Start(ctx context.Context) error
	Stop() error
	Toggle(ctx context.Context) error
	Clear()
	SetTranscript(text string)
	Reset() error
	Submit(ctx context.Context) (string, error)
	Close() error
}

type console struct {
	ctrl controller
	out  io.Writer

	mu      sync.Mutex
	pending sync.WaitGroup
}

func newConsole(ctrl controller, out io.Writer) *console {
	c := &console{ctrl: ctrl, out: out}
	ctrl.OnChange(c.render)
	return c
}

func (c *console) render(s session.State) {
	c.println(session.FormatStatus(s))
}

func (c *console) println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, text)
}

// run reads commands until quit, EOF or ctx cancellation. Submissions run in
// the background so a newer submit can supersede an older one. quit abandons a
// pending analysis; EOF waits for it.
func (c *console) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer c.pending.Wait()
	c.render(c.ctrl.Snapshot())
	c.println(helpText)

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if quit := c.handle(ctx, line); quit {
				c.report(c.ctrl.Close())
				cancel()
				return nil
			}
		}
	}
}

func (c *console) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch strings.ToLower(cmd) {
	case "":
	case "start":
		c.report(c.ctrl.Start(ctx))
	case "stop":
		c.report(c.ctrl.Stop())
	case "toggle":
		c.report(c.ctrl.Toggle(ctx))
	case "type":
		c.ctrl.SetTranscript(arg)
	case "clear":
		c.ctrl.Clear()
	case "reset":
		c.report(c.ctrl.Reset())
	case "show":
		c.render(c.ctrl.Snapshot())
	case "submit":
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			if ctx.Err() != nil {
				return
			}
			c.submit(ctx)
		}()
	case "help":
		c.println(helpText)
	case "quit", "exit":
		return true
	default:
		c.println(fmt.Sprintf("unknown command %q; type help", cmd))
	}
	return false
}

func (c *console) submit(ctx context.Context) {
	_, err := c.ctrl.Submit(ctx)
	switch {
	case err == nil, errors.Is(err, session.ErrSuperseded):
	case errors.Is(err, session.ErrEmptyTranscript):
		c.println(session.MessageEmptyTranscript)
	default:
		c.println("! " + err.Error())
	}
}

// report prints errors the state view does not already show.
func (c *console) report(err error) {
	if err == nil || errors.Is(err, speech.ErrUnavailable) {
		return
	}
	c.println("! " + err.Error())
}
