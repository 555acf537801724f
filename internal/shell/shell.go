// Package shell implements the interactive command loop over an address book.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/smileynet/rolodex/internal/book"
	"github.com/smileynet/rolodex/internal/logging"
	"github.com/smileynet/rolodex/internal/state"
)

// Sentinel errors for caller-checkable conditions.
var (
	// ErrExit is returned by Execute when the user asks to leave.
	ErrExit = errors.New("shell: exit requested")
	// ErrUsage indicates a command was given the wrong arguments.
	ErrUsage = errors.New("shell: usage")
	// ErrContactNotFound indicates no record has the requested name.
	ErrContactNotFound = errors.New("shell: contact not found")
)

// DefaultPrompt is printed before each command is read.
const DefaultPrompt = "Enter a command: "

// Session dispatches user commands to an address book and its store.
// It is confined to one goroutine.
type Session struct {
	book     *book.Book
	store    state.Store
	logger   *slog.Logger
	pageSize int
	now      func() time.Time
	prompt   string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithPageSize sets the default number of records per listed page.
func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithClock overrides the time source used for birthday calculations.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithPrompt overrides the prompt. An empty prompt disables it.
func WithPrompt(prompt string) Option {
	return func(s *Session) {
		s.prompt = prompt
	}
}

// New creates a Session over b, persisting through store.
func New(b *book.Book, store state.Store, opts ...Option) *Session {
	s := &Session{
		book:     b,
		store:    store,
		logger:   logging.Discard(),
		pageSize: 5,
		now:      time.Now,
		prompt:   DefaultPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book returns the session's address book.
func (s *Session) Book() *book.Book {
	return s.book
}

// Run reads commands from in until exit, end of input, or ctx cancellation.
// Command failures are reported to out and do not stop the loop.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	_, _ = fmt.Fprintln(out, "Welcome to the assistant bot!")
	for {
		if s.prompt != "" {
			_, _ = fmt.Fprint(out, s.prompt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("shell: reading input: %w", err)
					}
				default:
				}
				return nil
			}
			err := s.Execute(out, line)
			if errors.Is(err, ErrExit) {
				return nil
			}
			if err != nil {
				s.logger.Debug("command failed", "line", line, "error", err)
				_, _ = fmt.Fprintf(out, "Error: %s\n", err)
			}
		}
	}
}

// Execute runs a single command line, writing its output to out.
// It returns ErrExit for exit commands.
func (s *Session) Execute(out io.Writer, line string) error {
	name, args := parse(line)
	if name == "" {
		return nil
	}

	cmd, ok := lookup(name)
	if !ok {
		_, _ = fmt.Fprintln(out, "Invalid command.")
		return nil
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}

	s.logger.Debug("executing command", "command", cmd.name, "args", len(args))
	return cmd.run(s, out, args)
}

// parse splits a line into a lower-cased command word and its arguments.
func parse(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
