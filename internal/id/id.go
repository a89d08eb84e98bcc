// Package id provides opaque identifiers tagged with the kind of entity they identify.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Id identifies an entity of kind T. T is never instantiated; it only keeps an
// Id[Stack] from being passed where an Id[Commit] is expected.
type Id[T any] struct {
	uuid uuid.UUID
}

// New returns a fresh random identifier
func New[T any]() Id[T] {
	return Id[T]{uuid: uuid.New()}
}

// Parse parses the canonical string form of an identifier
func Parse[T any](s string) (Id[T], error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Id[T]{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return Id[T]{uuid: u}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests and constants.
func MustParse[T any](s string) Id[T] {
	v, err := Parse[T](s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical uuid form
func (i Id[T]) String() string {
	return i.uuid.String()
}

// IsZero reports whether the identifier was never set
func (i Id[T]) IsZero() bool {
	return i.uuid == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler (used by JSON and TOML)
func (i Id[T]) MarshalText() ([]byte, error) {
	return []byte(i.uuid.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by JSON and TOML)
func (i *Id[T]) UnmarshalText(text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", string(text), err)
	}
	i.uuid = u
	return nil
}
