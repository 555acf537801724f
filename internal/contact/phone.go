package contact

import "fmt"

// phoneTag accepts exactly ten ASCII digits.
const phoneTag = "required,len=10,number"

// Phone is a ten-digit phone number. Use NewPhone to construct.
type Phone struct {
	field Field[string]
}

// NewPhone validates raw and returns a Phone holding it.
func NewPhone(raw string) (Phone, error) {
	f, err := NewField(raw, phoneRule)
	if err != nil {
		return Phone{}, err
	}
	return Phone{field: f}, nil
}

// MustPhone creates a Phone, panicking on invalid input. Use only in tests.
func MustPhone(raw string) Phone {
	p, err := NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Set replaces the number. On failure p is unchanged.
func (p *Phone) Set(raw string) error {
	if p.field.rule == nil {
		p.field.rule = phoneRule
	}
	return p.field.Set(raw)
}

func (p Phone) String() string { return p.field.Get() }

// Equal reports whether both phones hold the same number.
func (p Phone) Equal(other Phone) bool { return p.String() == other.String() }

func phoneRule(raw string) error {
	if err := checkVar(raw, phoneTag); err != nil {
		return fmt.Errorf("%w: phone %q must be exactly 10 digits", ErrValidation, raw)
	}
	return nil
}
