package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/smileynet/rolodex"
	"github.com/smileynet/rolodex/internal/book"
	"github.com/smileynet/rolodex/internal/config"
	"github.com/smileynet/rolodex/internal/contact"
	"github.com/smileynet/rolodex/internal/logging"
	"github.com/smileynet/rolodex/internal/shell"
	"github.com/smileynet/rolodex/internal/state"
	"github.com/smileynet/rolodex/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals holds flags shared by every command.
type Globals struct {
	Config string `help:"Config file layered over the user and project config." type:"path"`
}

// CLI is the top-level command structure for rolodex.
type CLI struct {
	Globals

	Version   kong.VersionFlag `help:"Show version." short:"V"`
	Shell     ShellCmd         `cmd:"" default:"1" help:"Start the interactive assistant (default)."`
	Add       AddCmd           `cmd:"" help:"Add a contact, or add a phone/birthday to an existing one."`
	Find      FindCmd          `cmd:"" help:"Search contacts by phone digits or name."`
	Show      ShowCmd          `cmd:"" help:"Show one contact."`
	List      ListCmd          `cmd:"" help:"List all contacts page by page."`
	Delete    DeleteCmd        `cmd:"" help:"Delete a contact."`
	Birthdays BirthdaysCmd     `cmd:"" help:"List upcoming birthdays."`
	Init      InitCmd          `cmd:"" help:"Write a starter project config."`
}

// errNoContact indicates a one-shot command named a missing contact.
var errNoContact = errors.New("no such contact")

// env bundles what every command needs after setup.
type env struct {
	cfg    *config.Config
	store  state.Store
	logger *slog.Logger
}

// setupError marks failures that happen before any operation runs.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// loadConfig loads layered config from user and project paths, an optional
// explicit file, and env overrides.
func loadConfig(extra string) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/rolodex/config.yaml"),
		".rolodex/config.yaml",
	}
	if extra != "" {
		paths = append(paths, extra)
	}
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves config, logging and the storage backend.
func setup(g *Globals) (*env, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, &setupError{err}
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		return nil, &setupError{err}
	}
	store, err := state.DefaultRegistry().Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, &setupError{err}
	}
	logger.Debug("storage opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
	return &env{cfg: cfg, store: store, logger: logger}, nil
}

// loadBook reads the saved book, or returns an empty one when nothing is saved.
func loadBook(store state.Store) (*book.Book, error) {
	b := book.New()
	snap, found, err := store.Load()
	if err != nil {
		return nil, &setupError{err}
	}
	if !found {
		return b, nil
	}
	if err := b.Import(snap); err != nil {
		return nil, &setupError{err}
	}
	return b, nil
}

// --- Shell command ---

// ShellCmd runs the interactive assistant.
type ShellCmd struct {
	Autosave bool `help:"Load the book on start and save it on exit." default:"true" negatable:""`
}

// Run executes the shell command.
func (c *ShellCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.run(ctx, os.Stdin, os.Stdout, e)
}

// run drives a session over in/out with the given environment.
func (c *ShellCmd) run(ctx context.Context, in io.Reader, out io.Writer, e *env) error {
	b := book.New()
	if c.Autosave {
		loaded, err := loadBook(e.store)
		if err != nil {
			return fmt.Errorf("shell: %w", err)
		}
		b = loaded
	}

	sess := shell.New(b, e.store,
		shell.WithLogger(e.logger),
		shell.WithPageSize(e.cfg.Display.PageSize),
	)
	runErr := sess.Run(ctx, in, out)

	if c.Autosave {
		if err := e.store.Save(b.Export()); err != nil {
			return fmt.Errorf("shell: saving: %w", errors.Join(runErr, err))
		}
		e.logger.Info("address book saved", "records", b.Len())
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("shell: %w", runErr)
	}
	return nil
}

// --- One-shot commands ---

// AddCmd adds or updates a contact.
type AddCmd struct {
	Name     string   `arg:"" help:"Contact name."`
	Phone    []string `help:"Phone number (10 digits). Repeatable." short:"p"`
	Birthday string   `help:"Birthday as YYYY-MM-DD." short:"b"`
}

// Run executes the add command.
func (a *AddCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return a.run(os.Stdout, e.store)
}

// run validates every value before changing the stored book.
func (a *AddCmd) run(w io.Writer, store state.Store) error {
	b, err := loadBook(store)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	var opts []contact.RecordOption
	existing, exists := b.Find(a.Name)
	if exists {
		for _, p := range existing.Phones() {
			opts = append(opts, contact.WithPhones(p.String()))
		}
		if bd, ok := existing.Birthday(); ok {
			opts = append(opts, contact.WithBirthday(bd.String()))
		}
	}
	opts = append(opts, contact.WithPhones(a.Phone...))
	if a.Birthday != "" {
		opts = append(opts, contact.WithBirthday(a.Birthday))
	}

	r, err := contact.NewRecord(a.Name, opts...)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	b.AddRecord(r)

	if err := store.Save(b.Export()); err != nil {
		return fmt.Errorf("add: saving: %w", err)
	}
	if exists {
		_, _ = fmt.Fprintf(w, "Contact updated: %s\n", r)
	} else {
		_, _ = fmt.Fprintf(w, "Contact added: %s\n", r)
	}
	return nil
}

// FindCmd searches contacts by term.
type FindCmd struct {
	Term string `arg:"" help:"Phone digits or part of a name."`
}

// Run executes the find command.
func (f *FindCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	return f.run(os.Stdout, e.store)
}

func (f *FindCmd) run(w io.Writer, store state.Store) error {
	b, err := loadBook(store)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	found := b.FindByTerm(f.Term)
	if len(found) == 0 {
		_, _ = fmt.Fprintln(w, "No contacts found.")
		return nil
	}
	for _, r := range found {
		_, _ = fmt.Fprintln(w, r)
	}
	return nil
}

// ShowCmd prints one contact.
type ShowCmd struct {
	Name string `arg:"" help:"Exact contact name."`
}

// Run executes the show command.
func (s *ShowCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return s.run(os.Stdout, e.store, time.Now())
}

func (s *ShowCmd) run(w io.Writer, store state.Store, now time.Time) error {
	b, err := loadBook(store)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	r, ok := b.Find(s.Name)
	if !ok {
		return fmt.Errorf("show: %w: %s", errNoContact, s.Name)
	}
	_, _ = fmt.Fprintln(w, r)
	if days, ok := r.DaysToBirthday(now); ok {
		_, _ = fmt.Fprintf(w, "Next birthday in %d days.\n", days)
	}
	return nil
}

// ListCmd lists contacts in pages, interactively on a terminal.
type ListCmd struct {
	PageSize int  `help:"Contacts per page (default from config)."`
	Plain    bool `help:"Force plain text output even if stdout is a TTY."`
}

// Run executes the list command.
func (l *ListCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	display := tui.NewDisplay(tui.DisplayOptions{
		Writer:     os.Stdout,
		ForcePlain: l.Plain || e.cfg.Display.Plain,
	})
	return l.run(ctx, display, e.store, e.cfg.Display.PageSize)
}

func (l *ListCmd) run(ctx context.Context, display tui.Display, store state.Store, defaultSize int) error {
	size := defaultSize
	if l.PageSize != 0 {
		size = l.PageSize
	}
	if size < 1 {
		return fmt.Errorf("list: %w: page size must be positive, got %d", shell.ErrUsage, size)
	}

	b, err := loadBook(store)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if err := display.Show(ctx, tui.Paginate(b, size)); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("list: %w", err)
	}
	return nil
}

// DeleteCmd removes a contact.
type DeleteCmd struct {
	Name string `arg:"" help:"Exact contact name."`
}

// Run executes the delete command.
func (d *DeleteCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return d.run(os.Stdout, e.store)
}

func (d *DeleteCmd) run(w io.Writer, store state.Store) error {
	b, err := loadBook(store)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if _, ok := b.Find(d.Name); !ok {
		return fmt.Errorf("delete: %w: %s", errNoContact, d.Name)
	}
	b.Delete(d.Name)
	if err := store.Save(b.Export()); err != nil {
		return fmt.Errorf("delete: saving: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Deleted %s\n", d.Name)
	return nil
}

// BirthdaysCmd lists birthdays in the coming days.
type BirthdaysCmd struct {
	Days int `help:"Look-ahead window in days." default:"7"`
}

// Run executes the birthdays command.
func (c *BirthdaysCmd) Run(g *Globals) error {
	e, err := setup(g)
	if err != nil {
		return fmt.Errorf("birthdays: %w", err)
	}
	return c.run(os.Stdout, e.store, time.Now())
}

func (c *BirthdaysCmd) run(w io.Writer, store state.Store, now time.Time) error {
	if c.Days < 0 {
		return fmt.Errorf("birthdays: %w: days must not be negative, got %d", shell.ErrUsage, c.Days)
	}
	b, err := loadBook(store)
	if err != nil {
		return fmt.Errorf("birthdays: %w", err)
	}
	upcoming := b.UpcomingBirthdays(now, c.Days)
	if len(upcoming) == 0 {
		_, _ = fmt.Fprintf(w, "No birthdays in the next %d days.\n", c.Days)
		return nil
	}
	for _, u := range upcoming {
		when := fmt.Sprintf("in %d days", u.Days)
		if u.Days == 0 {
			when = "today"
		}
		bd, _ := u.Record.Birthday()
		_, _ = fmt.Fprintf(w, "%-20s %s  %s\n", u.Record.Name(), bd, when)
	}
	return nil
}

// --- Init command ---

// InitCmd writes the starter config to the project config path.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

// Run executes the init command. A template in ~/.config/rolodex/templates
// takes precedence over the built-in one.
func (c *InitCmd) Run() error {
	templates := rolodex.OverlayFS(os.ExpandEnv("$HOME/.config/rolodex/templates"), rolodex.Templates)
	return c.run(os.Stdout, templates, ".rolodex/config.yaml")
}

func (c *InitCmd) run(w io.Writer, templates fs.FS, dest string) error {
	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("init: %w: %s already exists (use --force)", shell.ErrUsage, dest)
		}
	}

	data, err := fs.ReadFile(templates, rolodex.ConfigTemplate)
	if err != nil {
		return fmt.Errorf("init: reading template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("init: creating directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("init: writing %s: %w", dest, err)
	}

	_, _ = fmt.Fprintf(w, "Wrote %s\n", dest)
	return nil
}

const (
	exitSuccess   = 0
	exitOperation = 1
	exitSetup     = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	if errors.Is(err, contact.ErrValidation) ||
		errors.Is(err, contact.ErrNotFound) ||
		errors.Is(err, errNoContact) ||
		errors.Is(err, shell.ErrUsage) {
		return exitOperation
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("rolodex"),
		kong.Description("A contact book with phones and birthdays."),
		kong.Bind(&cli.Globals),
		kong.Vars{"version": strings.Join([]string{version, commit, date}, " ")},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
