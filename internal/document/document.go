// Package document describes the document-manipulation capability the
// booking pipeline drives. Implementations live in other packages.
package document

import (
	"errors"
)

var (
	// ErrNoField is returned when the form has no field with the requested name.
	ErrNoField = errors.New("field is not in the form")
	// ErrNotText is returned when the named field exists but cannot hold text.
	ErrNotText = errors.New("field is not a text field")
)

// Library parses raw template bytes.
type Library interface {
	Load(b []byte) (Handle, error)
}

// Handle is a parsed in-memory document. It is used by one fill only.
type Handle interface {
	Form() (Form, error)
	Save() ([]byte, error)
}

// Form gives access to the interactive fields of a Handle.
type Form interface {
	// TextField returns the field with the fully qualified name.
	TextField(name string) (Field, error)
	// Flatten turns all fields into static page content and removes the form.
	Flatten() error
}

// Field is a text-capable form field.
type Field interface {
	SetText(value string) error
}
