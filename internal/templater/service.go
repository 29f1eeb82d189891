package templater

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/geoirb/go-booking-pdf/internal/document"
)

type source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type service struct {
	source  source
	library document.Library
	now     func() time.Time

	filenamePrefix string

	logger log.Logger
}

// NewService ...
func NewService(
	source source,
	library document.Library,
	now func() time.Time,

	filenamePrefix string,

	logger log.Logger,
) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		source:         source,
		library:        library,
		now:            now,
		filenamePrefix: filenamePrefix,
		logger:         logger,
	}
}

// FillTemplate fetches and parses a fresh copy of the template, writes the event date,
// today's submission date and the booking message, flattens the form and returns the bytes.
// Nothing is written unless all required fields resolve.
func (s *service) FillTemplate(ctx context.Context, eventDate, bookingMessage string) (result []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, newError(ErrUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	submissionDate := SubmissionDate(s.now())

	eventDate = strings.TrimSpace(eventDate)
	bookingMessage = strings.TrimSpace(bookingMessage)
	if eventDate == "" || bookingMessage == "" {
		return nil, newError(ErrValidation, nil)
	}

	template, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, newError(ErrTemplateFetch, err)
	}
	doc, err := s.library.Load(template)
	if err != nil {
		return nil, newError(ErrTemplateFetch, err)
	}
	form, err := doc.Form()
	if err != nil {
		return nil, newError(ErrTemplateFetch, err)
	}

	values := map[string]string{
		EventDateField:      eventDate,
		SubmissionDateField: submissionDate,
		AnnexureField:       bookingMessage,
	}
	fields := make([]document.Field, 0, len(RequiredFields))
	for _, name := range RequiredFields {
		field, err := form.TextField(name)
		if err != nil {
			if errors.Is(err, document.ErrNoField) || errors.Is(err, document.ErrNotText) {
				return nil, newError(ErrMissingField, err)
			}
			return nil, newError(ErrUnexpected, err)
		}
		fields = append(fields, field)
	}

	for i, field := range fields {
		if err = field.SetText(values[RequiredFields[i]]); err != nil {
			return nil, newError(ErrUnexpected, fmt.Errorf("set %s: %w", RequiredFields[i], err))
		}
	}
	if err = form.Flatten(); err != nil {
		return nil, newError(ErrUnexpected, fmt.Errorf("flatten: %w", err))
	}
	if result, err = doc.Save(); err != nil {
		return nil, newError(ErrUnexpected, fmt.Errorf("save: %w", err))
	}
	return result, nil
}

// FillIn fills template by req.
func (s *service) FillIn(ctx context.Context, req Request) (res Response, err error) {
	logger := log.WithPrefix(s.logger, "method", "FillIn", "uuid", req.UUID)

	res = Response{
		UUID: req.UUID,
	}

	if res.Document, err = s.FillTemplate(ctx, req.EventDate, req.BookingMessage); err != nil {
		switch Kind(err) {
		case KindValidation:
			level.Debug(logger).Log("msg", "invalid request", "err", err)
		case KindUnexpected:
			level.Error(logger).Log("msg", "fill in template", "kind", Kind(err), "err", err)
		default:
			level.Warn(logger).Log("msg", "fill in template", "kind", Kind(err), "err", err)
		}
		return
	}

	res.Filename = Filename(s.filenamePrefix, strings.TrimSpace(req.EventDate))
	level.Info(logger).Log("msg", "filled", "filename", res.Filename, "size", len(res.Document))
	return
}
