// Package contact implements the validated contact record model: phone
// numbers, birthdays and the record that owns them.
package contact

// Rule validates a candidate value for a Field.
type Rule[T any] func(T) error

// Field holds a value that always satisfies its rule.
// The zero Field holds the zero value of T and has no rule.
type Field[T any] struct {
	value T
	rule  Rule[T]
}

// NewField validates v against rule and returns a Field holding it.
// A nil rule accepts every value.
func NewField[T any](v T, rule Rule[T]) (Field[T], error) {
	f := Field[T]{rule: rule}
	if err := f.Set(v); err != nil {
		return Field[T]{}, err
	}
	return f, nil
}

// Get returns the stored value.
func (f Field[T]) Get() T {
	return f.value
}

// Set validates v and stores it. On failure the stored value is unchanged.
func (f *Field[T]) Set(v T) error {
	if f.rule != nil {
		if err := f.rule(v); err != nil {
			return err
		}
	}
	f.value = v
	return nil
}
