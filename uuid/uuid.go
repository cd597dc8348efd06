// Package uuid identifies compile sessions. Every problem and log line of
// one compile carries the same session id.
package uuid

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// UUID is comparable and usable as a map key.
type UUID uuid.UUID

var Nil = UUID(uuid.Nil)

// New returns a random (version 4) id.
func New() UUID {
	return UUID(uuid.New())
}

// Parse accepts the canonical hyphenated form, with or without a urn:uuid: prefix.
func Parse(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, errors.Wrapf(err, "invalid session id %q", s)
	}
	return UUID(u), nil
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// Short is the first group of the id, enough to tell sessions apart in
// terminal output.
func (u UUID) Short() string {
	return u.String()[:8]
}

func (u UUID) IsNil() bool {
	return u == Nil
}

func (u UUID) MarshalText() ([]byte, error) {
	return uuid.UUID(u).MarshalText()
}

func (u *UUID) UnmarshalText(data []byte) error {
	if err := (*uuid.UUID)(u).UnmarshalText(data); err != nil {
		return errors.Wrap(err, "invalid session id")
	}
	return nil
}
