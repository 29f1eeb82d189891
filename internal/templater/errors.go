package templater

import (
	"errors"
	"fmt"
)

// Failure kinds of FillTemplate. Every error it returns matches exactly one of them with errors.Is.
var (
	ErrValidation    = errors.New("event date and booking message are required")
	ErrTemplateFetch = errors.New("template is unavailable")
	ErrMissingField  = errors.New("template is missing required form fields")
	ErrUnexpected    = errors.New("unexpected error during pdf generation")
)

// Kind names.
const (
	KindValidation    = "validation"
	KindTemplateFetch = "template_fetch"
	KindMissingField  = "missing_field"
	KindUnexpected    = "unexpected"
)

type fillError struct {
	kind error
	err  error
}

func newError(kind, err error) error {
	return &fillError{kind: kind, err: err}
}

func (e *fillError) Error() string {
	if e.err == nil {
		return e.kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.kind, e.err)
}

func (e *fillError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// Kind returns the kind name of err. Errors of unknown origin are unexpected.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrTemplateFetch):
		return KindTemplateFetch
	case errors.Is(err, ErrMissingField):
		return KindMissingField
	}
	return KindUnexpected
}
