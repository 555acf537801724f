package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/smileynet/rolodex/internal/contact"
)

// command describes one shell command. maxArgs of -1 means unbounded.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	minArgs int
	maxArgs int
	run     func(s *Session, out io.Writer, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{name: "hello", usage: "hello", help: "greet the bot", run: (*Session).hello},
		{name: "add", usage: "add <name> [phone] [birthday]", help: "add a contact, or add a phone/birthday to an existing one", minArgs: 1, maxArgs: 3, run: (*Session).add},
		{name: "change", usage: "change <name> <old-phone> <new-phone>", help: "replace a contact's phone", minArgs: 3, maxArgs: 3, run: (*Session).change},
		{name: "remove-phone", usage: "remove-phone <name> <phone>", help: "remove a phone from a contact", minArgs: 2, maxArgs: 2, run: (*Session).removePhone},
		{name: "phone", usage: "phone <name>", help: "show a contact's phones", minArgs: 1, maxArgs: 1, run: (*Session).phone},
		{name: "show", usage: "show <name>", help: "show a contact", minArgs: 1, maxArgs: 1, run: (*Session).show},
		{name: "delete", usage: "delete <name>", help: "delete a contact", minArgs: 1, maxArgs: 1, run: (*Session).deleteContact},
		{name: "birthday", usage: "birthday <name> [YYYY-MM-DD]", help: "set a birthday, or show days until it", minArgs: 1, maxArgs: 2, run: (*Session).birthday},
		{name: "birthdays", usage: "birthdays [days]", help: "list birthdays coming up (default 7 days)", maxArgs: 1, run: (*Session).birthdays},
		{name: "find", aliases: []string{"search"}, usage: "find <term>", help: "search names and phones", minArgs: 1, maxArgs: 1, run: (*Session).find},
		{name: "list", aliases: []string{"all"}, usage: "list [page-size]", help: "list all contacts page by page", maxArgs: 1, run: (*Session).list},
		{name: "save", usage: "save", help: "save the address book", run: (*Session).save},
		{name: "load", usage: "load", help: "load the saved address book", run: (*Session).load},
		{name: "help", usage: "help", help: "show this help", run: (*Session).help},
		{name: "exit", aliases: []string{"close", "quit"}, usage: "exit", help: "leave", run: (*Session).exit},
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
		for _, a := range c.aliases {
			if a == name {
				return c, true
			}
		}
	}
	return command{}, false
}

func (s *Session) hello(out io.Writer, _ []string) error {
	_, _ = fmt.Fprintln(out, "How can I help you?")
	return nil
}

func (s *Session) add(out io.Writer, args []string) error {
	name := args[0]
	r, exists := s.book.Find(name)
	if !exists {
		var err error
		r, err = contact.NewRecord(name)
		if err != nil {
			return err
		}
	}

	// Validate everything before touching a stored record.
	if len(args) > 1 {
		if _, err := contact.NewPhone(args[1]); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		if _, err := contact.NewBirthday(args[2]); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		if err := r.AddPhone(args[1]); err != nil {
			return err
		}
	}
	if len(args) > 2 {
		if err := r.SetBirthday(args[2]); err != nil {
			return err
		}
	}

	if exists {
		_, _ = fmt.Fprintln(out, "Contact updated.")
		return nil
	}
	s.book.AddRecord(r)
	_, _ = fmt.Fprintln(out, "Contact added.")
	return nil
}

func (s *Session) change(out io.Writer, args []string) error {
	r, err := s.record(args[0])
	if err != nil {
		return err
	}
	if err := r.EditPhone(args[1], args[2]); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Contact updated.")
	return nil
}

func (s *Session) removePhone(out io.Writer, args []string) error {
	r, err := s.record(args[0])
	if err != nil {
		return err
	}
	r.RemovePhone(args[1])
	_, _ = fmt.Fprintln(out, "Phone removed.")
	return nil
}

func (s *Session) phone(out io.Writer, args []string) error {
	r, err := s.record(args[0])
	if err != nil {
		return err
	}
	phones := r.Phones()
	if len(phones) == 0 {
		_, _ = fmt.Fprintf(out, "%s has no phones.\n", r.Name())
		return nil
	}
	values := make([]string, len(phones))
	for i, p := range phones {
		values[i] = p.String()
	}
	_, _ = fmt.Fprintf(out, "%s: %s\n", r.Name(), strings.Join(values, "; "))
	return nil
}

func (s *Session) show(out io.Writer, args []string) error {
	r, err := s.record(args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, r)
	return nil
}

func (s *Session) deleteContact(out io.Writer, args []string) error {
	if _, ok := s.book.Find(args[0]); !ok {
		_, _ = fmt.Fprintf(out, "No contact named %s.\n", args[0])
		return nil
	}
	s.book.Delete(args[0])
	_, _ = fmt.Fprintln(out, "Contact deleted.")
	return nil
}

func (s *Session) birthday(out io.Writer, args []string) error {
	r, err := s.record(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		if err := r.SetBirthday(args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Birthday added.")
		return nil
	}

	days, ok := r.DaysToBirthday(s.now())
	switch {
	case !ok:
		_, _ = fmt.Fprintf(out, "%s has no birthday set.\n", r.Name())
	case days == 0:
		_, _ = fmt.Fprintf(out, "%s's birthday is today!\n", r.Name())
	default:
		_, _ = fmt.Fprintf(out, "%s's birthday is in %d days.\n", r.Name(), days)
	}
	return nil
}

func (s *Session) birthdays(out io.Writer, args []string) error {
	within := 7
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("%w: birthdays [days]: days must be a non-negative number", ErrUsage)
		}
		within = n
	}

	upcoming := s.book.UpcomingBirthdays(s.now(), within)
	if len(upcoming) == 0 {
		_, _ = fmt.Fprintf(out, "No birthdays in the next %d days.\n", within)
		return nil
	}
	for _, u := range upcoming {
		bd, _ := u.Record.Birthday()
		_, _ = fmt.Fprintf(out, "%s: %s (in %d days)\n", u.Record.Name(), bd, u.Days)
	}
	return nil
}

func (s *Session) find(out io.Writer, args []string) error {
	found := s.book.FindByTerm(args[0])
	if len(found) == 0 {
		_, _ = fmt.Fprintln(out, "No contacts found.")
		return nil
	}
	for _, r := range found {
		_, _ = fmt.Fprintln(out, r)
	}
	return nil
}

func (s *Session) list(out io.Writer, args []string) error {
	size := s.pageSize
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("%w: list [page-size]: page size must be a positive number", ErrUsage)
		}
		size = n
	}

	if s.book.Len() == 0 {
		_, _ = fmt.Fprintln(out, "No contacts saved.")
		return nil
	}
	pages := (s.book.Len() + size - 1) / size
	page := 0
	for chunk := range s.book.Chunks(size) {
		page++
		_, _ = fmt.Fprintf(out, "--- page %d/%d ---\n", page, pages)
		for _, r := range chunk {
			_, _ = fmt.Fprintln(out, r)
		}
	}
	return nil
}

func (s *Session) save(out io.Writer, _ []string) error {
	if err := s.store.Save(s.book.Export()); err != nil {
		s.logger.Warn("save failed", "error", err)
		return err
	}
	s.logger.Info("address book saved", "records", s.book.Len())
	_, _ = fmt.Fprintf(out, "Address book saved (%d contacts).\n", s.book.Len())
	return nil
}

func (s *Session) load(out io.Writer, _ []string) error {
	snap, found, err := s.store.Load()
	if err != nil {
		s.logger.Warn("load failed", "error", err)
		return err
	}
	if !found {
		_, _ = fmt.Fprintln(out, "Nothing to load.")
		return nil
	}
	if err := s.book.Import(snap); err != nil {
		s.logger.Warn("import failed", "error", err)
		return err
	}
	s.logger.Info("address book loaded", "records", s.book.Len())
	_, _ = fmt.Fprintf(out, "Address book loaded (%d contacts).\n", s.book.Len())
	return nil
}

func (s *Session) help(out io.Writer, _ []string) error {
	for _, c := range commands {
		_, _ = fmt.Fprintf(out, "  %-40s %s\n", c.usage, c.help)
	}
	return nil
}

func (s *Session) exit(out io.Writer, _ []string) error {
	_, _ = fmt.Fprintln(out, "Good bye!")
	return ErrExit
}

// record returns the record stored under exactly name.
func (s *Session) record(name string) (*contact.Record, error) {
	r, ok := s.book.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContactNotFound, name)
	}
	return r, nil
}
