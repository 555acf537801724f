package contact

import (
	"fmt"
	"strings"
	"time"
)

// NoBirthday is the day count reported for a record without a birthday.
const NoBirthday = -1

// Record is a named contact with an ordered list of phones and an optional
// birthday. The name is fixed at construction; phones and birthday change
// only through Record's methods so their values stay valid.
type Record struct {
	name     string
	phones   []Phone
	birthday *Birthday
}

// RecordOption configures a Record at construction.
type RecordOption func(*Record) error

// WithBirthday sets the record's birthday. Construction fails if raw is
// not a valid YYYY-MM-DD date.
func WithBirthday(raw string) RecordOption {
	return func(r *Record) error {
		return r.SetBirthday(raw)
	}
}

// WithPhones appends each phone in order.
func WithPhones(raw ...string) RecordOption {
	return func(r *Record) error {
		for _, p := range raw {
			if err := r.AddPhone(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewRecord creates a record with the given name. The name is not validated.
func NewRecord(name string, opts ...RecordOption) (*Record, error) {
	r := &Record{name: name}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name returns the record's name, which is also its address book key.
func (r *Record) Name() string { return r.name }

// Phones returns a copy of the record's phones in insertion order.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// Birthday returns the record's birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// SetBirthday replaces the birthday. On failure the record is unchanged.
func (r *Record) SetBirthday(raw string) error {
	b, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// AddPhone validates raw and appends it. Duplicates are allowed.
func (r *Record) AddPhone(raw string) error {
	p, err := NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone removes every phone equal to value. Removing a phone the
// record does not have is a no-op.
func (r *Record) RemovePhone(value string) {
	kept := r.phones[:0]
	for _, p := range r.phones {
		if p.String() != value {
			kept = append(kept, p)
		}
	}
	clear(r.phones[len(kept):])
	r.phones = kept
}

// EditPhone replaces the first phone equal to old with replacement.
// Returns ErrNotFound if no phone equals old, or ErrValidation if replacement is
// malformed; in both cases the phones are unchanged.
func (r *Record) EditPhone(old, replacement string) error {
	i := r.indexOf(old)
	if i < 0 {
		return fmt.Errorf("%w: %s has no phone %q", ErrNotFound, r.name, old)
	}
	return r.phones[i].Set(replacement)
}

// FindPhone returns the first phone equal to value.
func (r *Record) FindPhone(value string) (Phone, bool) {
	i := r.indexOf(value)
	if i < 0 {
		return Phone{}, false
	}
	return r.phones[i], true
}

// HasPhoneContaining reports whether any phone contains term.
func (r *Record) HasPhoneContaining(term string) bool {
	for _, p := range r.phones {
		if strings.Contains(p.String(), term) {
			return true
		}
	}
	return false
}

// DaysToBirthday returns the days from today until the next birthday.
// Without a birthday it returns (NoBirthday, false).
func (r *Record) DaysToBirthday(today time.Time) (int, bool) {
	if r.birthday == nil {
		return NoBirthday, false
	}
	return r.birthday.DaysUntilNext(today), true
}

func (r *Record) String() string {
	phones := make([]string, len(r.phones))
	for i, p := range r.phones {
		phones[i] = p.String()
	}
	s := fmt.Sprintf("Contact name: %s, phones: %s", r.name, strings.Join(phones, "; "))
	if r.birthday != nil {
		s += ", birthday: " + r.birthday.String()
	}
	return s
}

func (r *Record) indexOf(value string) int {
	for i, p := range r.phones {
		if p.String() == value {
			return i
		}
	}
	return -1
}
