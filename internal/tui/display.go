package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Display renders pages of contacts.
type Display interface {
	Show(ctx context.Context, pages [][]Entry) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	Input      io.Reader // Key input for the TUI (default: os.Stdin).
	ForcePlain bool      // Force plain text even if TTY.
}

// NewDisplay returns a TUI display when the writer is a TTY, or a plain text
// display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer}
	}
	return &TUIDisplay{w: opts.Writer, in: opts.Input}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay writes every page as text with a page header.
type PlainDisplay struct {
	w io.Writer
}

// Show prints all pages, stopping early if ctx is cancelled.
func (d *PlainDisplay) Show(ctx context.Context, pages [][]Entry) error {
	if len(pages) == 0 {
		_, _ = fmt.Fprintln(d.w, "No contacts saved.")
		return nil
	}
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(d.w, "--- page %d/%d ---\n", i+1, len(pages))
		for _, e := range page {
			_, _ = fmt.Fprintln(d.w, formatEntry(e))
		}
	}
	return nil
}

func formatEntry(e Entry) string {
	s := fmt.Sprintf("%s: %s", e.Name, strings.Join(e.Phones, "; "))
	if e.Birthday != "" {
		s += " (birthday " + e.Birthday + ")"
	}
	return s
}

// TUIDisplay runs an interactive Bubble Tea browser.
// Falls back to PlainDisplay if the program fails to start.
type TUIDisplay struct {
	w  io.Writer
	in io.Reader
}

// Show runs the browser until the user quits or ctx is cancelled.
func (d *TUIDisplay) Show(ctx context.Context, pages [][]Entry) error {
	p := tea.NewProgram(NewModel(pages),
		tea.WithContext(ctx),
		tea.WithOutput(d.w),
		tea.WithInput(d.in),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		plain := &PlainDisplay{w: d.w}
		return plain.Show(ctx, pages)
	}
	return nil
}
