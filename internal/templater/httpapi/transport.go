// Package httpapi serves the booking page and the fill endpoints over HTTP.
package httpapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/google/uuid"

	"github.com/geoirb/go-booking-pdf/internal/gate"
	"github.com/geoirb/go-booking-pdf/internal/templater"
)

const (
	sessionCookie = "booking_session"
	maxBodySize   = 1 << 20
)

var (
	//go:embed index.html
	indexPage []byte

	errBadRequest = errors.New("malformed request")
)

type sessionKey struct{}

// NewHandler returns the HTTP handler of the booking page.
func NewHandler(
	svc templater.Service,
	drafts drafts,
	results results,
	passwords passwordGate,
	logger log.Logger,
) http.Handler {
	logger = log.WithPrefix(logger, "transport", "http")
	opts := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/preview", httptransport.NewServer(
		makePreviewEndpoint(svc, drafts, results, logger),
		decodeFillRequest,
		encodePDF,
		opts...,
	))
	mux.Handle("GET /api/preview", httptransport.NewServer(
		makeLastPreviewEndpoint(results),
		decodeSessionRequest,
		encodePDF,
		opts...,
	))
	mux.Handle("POST /api/download", httptransport.NewServer(
		makeDownloadEndpoint(svc, results),
		decodeFillRequest,
		encodePDF,
		opts...,
	))
	mux.Handle("GET /api/draft", httptransport.NewServer(
		makeDraftEndpoint(drafts),
		decodeSessionRequest,
		httptransport.EncodeJSONResponse,
		opts...,
	))
	mux.Handle("POST /api/onboarding/dismiss", httptransport.NewServer(
		makeDismissOnboardingEndpoint(drafts),
		decodeSessionRequest,
		encodeNoContent,
		opts...,
	))
	mux.Handle("POST /api/unlock", httptransport.NewServer(
		makeUnlockEndpoint(passwords, drafts),
		decodeUnlockRequest,
		httptransport.EncodeJSONResponse,
		opts...,
	))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexPage)
	})

	return withSession(mux)
}

// withSession puts the session id of the cookie into the request context,
// issuing a new id when the cookie is missing or foreign.
func withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil {
			if _, err = uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func session(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

func decodeSessionRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return sessionRequest{session: session(r.Context())}, nil
}

func decodeFillRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req fillRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	req.session = session(r.Context())
	return req, nil
}

func decodeUnlockRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req unlockRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	req.session = session(r.Context())
	return req, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("%w: %s", errBadRequest, err)
	}
	return nil
}

func encodePDF(_ context.Context, w http.ResponseWriter, response interface{}) error {
	res := response.(pdfResponse)
	disposition := "attachment"
	if res.Inline {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": res.Filename}))
	w.Header().Set("Cache-Control", "no-store")
	_, err := w.Write(res.Document)
	return err
}

func encodeNoContent(_ context.Context, w http.ResponseWriter, _ interface{}) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	status, res := errorStatus(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(res)
}

func errorStatus(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, errorResponse{Message: "Malformed request."}
	case errors.Is(err, gate.ErrEmptyPassword):
		return http.StatusBadRequest, errorResponse{Message: "Please enter a password."}
	case errors.Is(err, errPreviewFirst):
		return http.StatusConflict, errorResponse{Message: "Please generate a preview first."}
	case errors.Is(err, errNoPreview):
		return http.StatusNotFound, errorResponse{Message: "No preview has been generated."}
	}

	kind := templater.Kind(err)
	switch kind {
	case templater.KindValidation:
		return http.StatusBadRequest, errorResponse{Kind: kind, Message: "Please fill in both Event Date and Booking Message."}
	case templater.KindTemplateFetch:
		return http.StatusBadGateway, errorResponse{Kind: kind, Message: "Failed to load template PDF. Please refresh and try again."}
	case templater.KindMissingField:
		return http.StatusInternalServerError, errorResponse{Kind: kind, Message: "Template PDF is missing required form fields."}
	}
	return http.StatusInternalServerError, errorResponse{Kind: kind, Message: "An error occurred during PDF generation."}
}
