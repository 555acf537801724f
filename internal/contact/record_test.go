package contact

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func phoneStrings(r *Record) []string {
	var out []string
	for _, p := range r.Phones() {
		out = append(out, p.String())
	}
	return out
}

func mustRecord(t *testing.T, name string, opts ...RecordOption) *Record {
	t.Helper()
	r, err := NewRecord(name, opts...)
	if err != nil {
		t.Fatalf("NewRecord(%q) error = %v", name, err)
	}
	return r
}

func TestNewRecord(t *testing.T) {
	r := mustRecord(t, "John")
	if r.Name() != "John" {
		t.Errorf("Name() = %q, want %q", r.Name(), "John")
	}
	if len(r.Phones()) != 0 {
		t.Errorf("Phones() len = %d, want 0", len(r.Phones()))
	}
	if _, ok := r.Birthday(); ok {
		t.Error("Birthday() ok = true, want false")
	}
}

func TestNewRecord_WithBirthday(t *testing.T) {
	r := mustRecord(t, "Jane", WithBirthday("1990-05-17"))
	b, ok := r.Birthday()
	if !ok {
		t.Fatal("Birthday() ok = false, want true")
	}
	if b.String() != "1990-05-17" {
		t.Errorf("Birthday() = %q, want %q", b.String(), "1990-05-17")
	}
}

func TestNewRecord_InvalidBirthday(t *testing.T) {
	r, err := NewRecord("Jane", WithBirthday("1990-02-30"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("NewRecord() error = %v, want ErrValidation", err)
	}
	if r != nil {
		t.Errorf("NewRecord() record = %v, want nil", r)
	}
}

func TestRecord_AddPhone(t *testing.T) {
	r := mustRecord(t, "John")

	if err := r.AddPhone("1234567890"); err != nil {
		t.Fatalf("AddPhone() error = %v", err)
	}
	if err := r.AddPhone("1234567890"); err != nil {
		t.Fatalf("AddPhone(duplicate) error = %v", err)
	}
	if err := r.AddPhone("12345"); !errors.Is(err, ErrValidation) {
		t.Fatalf("AddPhone(invalid) error = %v, want ErrValidation", err)
	}

	want := []string{"1234567890", "1234567890"}
	if got := phoneStrings(r); !slices.Equal(got, want) {
		t.Errorf("phones = %v, want %v", got, want)
	}
}

func TestRecord_PhonesIsCopy(t *testing.T) {
	r := mustRecord(t, "John", WithPhones("1234567890"))

	phones := r.Phones()
	if err := phones[0].Set("0000000000"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got := phoneStrings(r); !slices.Equal(got, []string{"1234567890"}) {
		t.Errorf("phones = %v after mutating copy, want [1234567890]", got)
	}
}

func TestRecord_RemovePhone(t *testing.T) {
	tests := []struct {
		name   string
		phones []string
		remove string
		want   []string
	}{
		{
			name:   "removes all matches",
			phones: []string{"1111111111", "2222222222", "1111111111"},
			remove: "1111111111",
			want:   []string{"2222222222"},
		},
		{
			name:   "missing phone is a no-op",
			phones: []string{"1111111111", "2222222222"},
			remove: "3333333333",
			want:   []string{"1111111111", "2222222222"},
		},
		{
			name:   "empty record",
			remove: "1111111111",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustRecord(t, "John", WithPhones(tt.phones...))
			r.RemovePhone(tt.remove)
			if got := phoneStrings(r); !slices.Equal(got, tt.want) {
				t.Errorf("phones = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecord_EditPhone(t *testing.T) {
	t.Run("edits first match only", func(t *testing.T) {
		r := mustRecord(t, "John", WithPhones("1234567890", "5555555555", "1234567890"))

		if err := r.EditPhone("1234567890", "1112223333"); err != nil {
			t.Fatalf("EditPhone() error = %v", err)
		}

		want := []string{"1112223333", "5555555555", "1234567890"}
		if got := phoneStrings(r); !slices.Equal(got, want) {
			t.Errorf("phones = %v, want %v", got, want)
		}
	})

	t.Run("missing old phone", func(t *testing.T) {
		r := mustRecord(t, "John", WithPhones("1234567890"))

		err := r.EditPhone("0000000000", "1112223333")

		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("EditPhone() error = %v, want ErrNotFound", err)
		}
		if got := phoneStrings(r); !slices.Equal(got, []string{"1234567890"}) {
			t.Errorf("phones = %v, want unchanged", got)
		}
	})

	t.Run("malformed new phone", func(t *testing.T) {
		r := mustRecord(t, "John", WithPhones("1234567890"))

		err := r.EditPhone("1234567890", "111-222")

		if !errors.Is(err, ErrValidation) {
			t.Fatalf("EditPhone() error = %v, want ErrValidation", err)
		}
		if got := phoneStrings(r); !slices.Equal(got, []string{"1234567890"}) {
			t.Errorf("phones = %v, want unchanged", got)
		}
	})
}

func TestRecord_FindPhone(t *testing.T) {
	r := mustRecord(t, "John", WithPhones("1234567890", "5555555555"))

	p, ok := r.FindPhone("5555555555")
	if !ok {
		t.Fatal("FindPhone() ok = false, want true")
	}
	if p.String() != "5555555555" {
		t.Errorf("FindPhone() = %q, want %q", p.String(), "5555555555")
	}

	if _, ok := r.FindPhone("0000000000"); ok {
		t.Error("FindPhone(missing) ok = true, want false")
	}
}

func TestRecord_HasPhoneContaining(t *testing.T) {
	r := mustRecord(t, "John", WithPhones("1234567890", "7575757575"))

	if !r.HasPhoneContaining("757") {
		t.Error("HasPhoneContaining(757) = false, want true")
	}
	if r.HasPhoneContaining("999") {
		t.Error("HasPhoneContaining(999) = true, want false")
	}
}

func TestRecord_DaysToBirthday(t *testing.T) {
	today := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)

	none := mustRecord(t, "John")
	days, ok := none.DaysToBirthday(today)
	if ok || days != NoBirthday {
		t.Errorf("DaysToBirthday() = (%d, %v), want (%d, false)", days, ok, NoBirthday)
	}

	r := mustRecord(t, "Jane", WithBirthday("2020-01-15"))
	days, ok = r.DaysToBirthday(today)
	if !ok {
		t.Fatal("DaysToBirthday() ok = false, want true")
	}
	want := int(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC).Sub(today).Hours() / 24)
	if days != want {
		t.Errorf("DaysToBirthday() = %d, want %d", days, want)
	}
}

func TestRecord_SetBirthdayInvalidKeepsPrevious(t *testing.T) {
	r := mustRecord(t, "Jane", WithBirthday("1990-05-17"))

	if err := r.SetBirthday("not-a-date"); !errors.Is(err, ErrValidation) {
		t.Fatalf("SetBirthday() error = %v, want ErrValidation", err)
	}
	b, _ := r.Birthday()
	if b.String() != "1990-05-17" {
		t.Errorf("Birthday() = %q, want %q", b.String(), "1990-05-17")
	}
}

func TestRecord_String(t *testing.T) {
	r := mustRecord(t, "John", WithPhones("1112223333", "5555555555"))
	want := "Contact name: John, phones: 1112223333; 5555555555"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if err := r.SetBirthday("1990-01-01"); err != nil {
		t.Fatalf("SetBirthday() error = %v", err)
	}
	want += ", birthday: 1990-01-01"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
