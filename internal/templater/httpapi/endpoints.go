package httpapi

import (
	"context"
	"errors"
	"strings"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/google/uuid"

	"github.com/geoirb/go-booking-pdf/internal/draft"
	"github.com/geoirb/go-booking-pdf/internal/templater"
)

var (
	errPreviewFirst = errors.New("please generate a preview first")
	errNoPreview    = errors.New("no preview has been generated")
)

type drafts interface {
	Get(id string) (draft.Draft, error)
	SaveInputs(id, eventDate, bookingMessage string) error
	DismissOnboarding(id string) error
}

type results interface {
	SetLast(id string, result []byte)
	Last(id string) ([]byte, bool)
}

type passwordGate interface {
	Check(password string) (bool, error)
}

func makePreviewEndpoint(svc templater.Service, drafts drafts, results results, logger log.Logger) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(fillRequest)
		res, err := svc.FillIn(ctx, templater.Request{
			UUID:           uuid.New().String(),
			EventDate:      req.EventDate,
			BookingMessage: req.BookingMessage,
		})
		if err != nil {
			return nil, err
		}

		results.SetLast(req.session, res.Document)
		eventDate, bookingMessage := strings.TrimSpace(req.EventDate), strings.TrimSpace(req.BookingMessage)
		if err = drafts.SaveInputs(req.session, eventDate, bookingMessage); err != nil {
			level.Warn(logger).Log("msg", "save draft", "err", err)
		}
		return pdfResponse{
			Filename: res.Filename,
			Document: res.Document,
			Inline:   true,
		}, nil
	}
}

// The download fills the template again, like the preview did.
func makeDownloadEndpoint(svc templater.Service, results results) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(fillRequest)
		if _, isExist := results.Last(req.session); !isExist {
			return nil, errPreviewFirst
		}

		res, err := svc.FillIn(ctx, templater.Request{
			UUID:           uuid.New().String(),
			EventDate:      req.EventDate,
			BookingMessage: req.BookingMessage,
		})
		if err != nil {
			return nil, err
		}
		return pdfResponse{
			Filename: res.Filename,
			Document: res.Document,
		}, nil
	}
}

func makeLastPreviewEndpoint(results results) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		result, isExist := results.Last(request.(sessionRequest).session)
		if !isExist {
			return nil, errNoPreview
		}
		return pdfResponse{
			Filename: "preview.pdf",
			Document: result,
			Inline:   true,
		}, nil
	}
}

func makeDraftEndpoint(drafts drafts) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		d, err := drafts.Get(request.(sessionRequest).session)
		if err != nil {
			return nil, err
		}
		return draftResponse(d), nil
	}
}

func makeDismissOnboardingEndpoint(drafts drafts) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		return nil, drafts.DismissOnboarding(request.(sessionRequest).session)
	}
}

// The unlock only tells the page whether to show the form; no endpoint depends on it.
func makeUnlockEndpoint(gate passwordGate, drafts drafts) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(unlockRequest)
		ok, err := gate.Check(req.Password)
		if err != nil {
			return nil, err
		}

		res := unlockResponse{Unlocked: ok}
		if ok {
			d, err := drafts.Get(req.session)
			if err != nil {
				return nil, err
			}
			res.Draft = (*draftResponse)(&d)
		}
		return res, nil
	}
}
