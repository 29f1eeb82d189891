package httpapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geoirb/go-booking-pdf/internal/draft"
	"github.com/geoirb/go-booking-pdf/internal/gate"
	"github.com/geoirb/go-booking-pdf/internal/session"
	"github.com/geoirb/go-booking-pdf/internal/templater"
	"github.com/geoirb/go-booking-pdf/internal/templater/httpapi"
)

const (
	testBody     = `{"event_date":" 12 Mar 2025 ","booking_message":"Court 3, 6pm–7pm, 4 players"}`
	testFilename = "NP_CCAB_Booking_12Mar2025.pdf"
	// sha256("booking")
	testHash = "001d057c49888db925f47ba4f0cbb75edf527893381dc5a27d7a965c766508c4"
)

var testDocument = []byte("%PDF-1.7 filled")

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) FillTemplate(ctx context.Context, eventDate, bookingMessage string) ([]byte, error) {
	args := m.Called(ctx, eventDate, bookingMessage)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *serviceMock) FillIn(ctx context.Context, req templater.Request) (templater.Response, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(templater.Response), args.Error(1)
}

func fillInRequest(req templater.Request) bool {
	return req.UUID != "" && req.EventDate == " 12 Mar 2025 " && req.BookingMessage == "Court 3, 6pm–7pm, 4 players"
}

type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func newClient(t *testing.T, svc templater.Service) *client {
	g, err := gate.New(testHash)
	require.NoError(t, err)
	return &client{
		t: t,
		h: httpapi.NewHandler(
			svc,
			draft.NewStore(t.TempDir()),
			session.NewStore(10),
			g,
			log.NewNopLogger(),
		),
	}
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		r.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, r)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "booking_session" {
			c.cookie = cookie
		}
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPreview(t *testing.T) {
	svc := new(serviceMock)
	svc.On("FillIn", mock.Anything, mock.MatchedBy(fillInRequest)).Return(templater.Response{
		Filename: testFilename,
		Document: testDocument,
	}, nil)
	c := newClient(t, svc)

	w := c.do(http.MethodPost, "/api/preview", testBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename=`+testFilename, w.Header().Get("Content-Disposition"))
	assert.Equal(t, testDocument, w.Body.Bytes())
	require.NotNil(t, c.cookie)

	t.Run("last preview", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/preview", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testDocument, w.Body.Bytes())
	})

	t.Run("draft is saved trimmed", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/draft", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"event_date":"12 Mar 2025","booking_message":"Court 3, 6pm–7pm, 4 players","onboarding_dismissed":false}`, w.Body.String())
	})

	t.Run("download", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/download", testBody)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename=`+testFilename, w.Header().Get("Content-Disposition"))
		assert.Equal(t, testDocument, w.Body.Bytes())
		svc.AssertNumberOfCalls(t, "FillIn", 2)
	})
}

func TestFillErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{templater.ErrValidation, http.StatusBadRequest, templater.KindValidation},
		{fmt.Errorf("%w: status 404", templater.ErrTemplateFetch), http.StatusBadGateway, templater.KindTemplateFetch},
		{templater.ErrMissingField, http.StatusInternalServerError, templater.KindMissingField},
		{templater.ErrUnexpected, http.StatusInternalServerError, templater.KindUnexpected},
	}
	for _, test := range tests {
		t.Run(test.kind, func(t *testing.T) {
			svc := new(serviceMock)
			svc.On("FillIn", mock.Anything, mock.Anything).Return(templater.Response{}, test.err)
			c := newClient(t, svc)

			w := c.do(http.MethodPost, "/api/preview", testBody)
			assert.Equal(t, test.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, test.kind, body["kind"])
			assert.NotEmpty(t, body["message"])

			w = c.do(http.MethodGet, "/api/preview", "")
			assert.Equal(t, http.StatusNotFound, w.Code, "failed fills are not kept")
		})
	}
}

func TestMalformedRequest(t *testing.T) {
	svc := new(serviceMock)
	c := newClient(t, svc)

	w := c.do(http.MethodPost, "/api/preview", `{"event_date":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "FillIn", mock.Anything, mock.Anything)
}

func TestDownloadRequiresPreview(t *testing.T) {
	svc := new(serviceMock)
	c := newClient(t, svc)

	w := c.do(http.MethodPost, "/api/download", testBody)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Please generate a preview first.", decode(t, w)["message"])
	svc.AssertNotCalled(t, "FillIn", mock.Anything, mock.Anything)
}

func TestUnlock(t *testing.T) {
	c := newClient(t, new(serviceMock))

	w := c.do(http.MethodPost, "/api/unlock", `{"password":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/api/unlock", `{"password":"wrong"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unlocked":false}`, w.Body.String())

	w = c.do(http.MethodPost, "/api/onboarding/dismiss", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = c.do(http.MethodPost, "/api/unlock", `{"password":"booking"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unlocked":true,"draft":{"event_date":"","booking_message":"","onboarding_dismissed":true}}`, w.Body.String())
}

func TestSessionCookie(t *testing.T) {
	c := newClient(t, new(serviceMock))
	c.cookie = &http.Cookie{Name: "booking_session", Value: "../../etc"}

	c.do(http.MethodGet, "/api/draft", "")
	require.NotNil(t, c.cookie)
	assert.NotEqual(t, "../../etc", c.cookie.Value)

	id := c.cookie.Value
	c.do(http.MethodGet, "/api/draft", "")
	assert.Equal(t, id, c.cookie.Value)
}

func TestIndex(t *testing.T) {
	c := newClient(t, new(serviceMock))

	w := c.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/preview")

	w = c.do(http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
