// Package console is the line-oriented front end used when no terminal is
// attached. Questions are read one per line; answers are printed as they
// arrive.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/longkey1/ragchat/internal/chat"
	"github.com/longkey1/ragchat/internal/slash"
	"github.com/longkey1/ragchat/internal/transcript"
	"golang.org/x/sync/errgroup"
)

// Console drives a chat.Widget from an input stream
type Console struct {
	widget   *chat.Widget
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	endpoint string
	prompt   bool

	writeTranscript func(string, transcript.Transcript) error

	mu sync.Mutex // serializes writes to out and errOut
}

// Option configures a Console
type Option func(*Console)

// WithPrompt prints a "You> " prompt before each line
func WithPrompt(enabled bool) Option {
	return func(c *Console) {
		c.prompt = enabled
	}
}

// WithEndpoint sets the endpoint shown by /info and stored in exports
func WithEndpoint(endpoint string) Option {
	return func(c *Console) {
		c.endpoint = endpoint
	}
}

// WithTranscriptWriter replaces the function used by /export
func WithTranscriptWriter(fn func(string, transcript.Transcript) error) Option {
	return func(c *Console) {
		c.writeTranscript = fn
	}
}

// New creates a console. Answers go to out; prompts, notices and command
// output go to errOut.
func New(w *chat.Widget, in io.Reader, out, errOut io.Writer, opts ...Option) *Console {
	c := &Console{
		widget:          w,
		in:              in,
		out:             out,
		errOut:          errOut,
		writeTranscript: transcript.Write,
	}
	for _, opt := range opts {
		opt(c)
	}
	w.Store().Subscribe(c.onAppend)
	return c
}

// onAppend prints bot messages. User messages were typed by the user and are
// already on screen.
func (c *Console) onAppend(m chat.Message, _ []chat.Message) {
	if m.Sender != chat.Bot {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s: %s\n", m.Sender, m.Text)
}

func (c *Console) notice(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.errOut, format, args...)
}

// Run reads lines until EOF, /exit or ctx is done. Each question is completed
// in the background so the next line can be read right away. Run returns once
// every outstanding exchange has finished.
func (c *Console) Run(ctx context.Context) error {
	var g errgroup.Group
	defer g.Wait()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if c.prompt {
			c.notice("You> ")
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			select {
			case err := <-readErr:
				if err != nil {
					return fmt.Errorf("input error: %w", err)
				}
			default:
			}
			return nil
		}

		if cmd, isCmd := slash.Parse(line); isCmd {
			if !c.runCommand(cmd) {
				return nil
			}
			continue
		}

		x, ok := c.widget.Begin(line)
		if !ok {
			continue
		}
		g.Go(func() error {
			x.Complete(ctx)
			return nil
		})
	}
}

// runCommand returns false when the console should stop
func (c *Console) runCommand(cmd slash.Command) bool {
	switch cmd.Name {
	case slash.Help:
		c.notice("%s\n", slash.HelpText(false))
	case slash.Info:
		c.notice("%s\n", slash.InfoText(c.widget, c.endpoint))
	case slash.Copy:
		c.notice("/copy is only available in the terminal UI\n")
	case slash.Export:
		if len(cmd.Args) != 1 {
			c.notice("Usage: /export <file.json|file.yaml|file.md>\n")
			break
		}
		if err := c.writeTranscript(cmd.Args[0], transcript.FromWidget(c.widget, c.endpoint)); err != nil {
			c.notice("Export failed: %v\n", err)
			break
		}
		c.notice("Conversation written to %s\n", cmd.Args[0])
	case slash.Exit:
		c.notice("Goodbye!\n")
		return false
	default:
		c.notice("%s\n", slash.UnknownText(cmd))
	}
	return true
}
