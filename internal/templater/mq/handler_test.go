package mq_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/geoirb/go-booking-pdf/internal/response"
	"github.com/geoirb/go-booking-pdf/internal/templater"
	"github.com/geoirb/go-booking-pdf/internal/templater/mq"
)

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

type envelope struct {
	IsOk    bool            `json:"is_ok"`
	Payload json.RawMessage `json:"payload"`
}

func handle(t *testing.T, svc templater.Service, message string) envelope {
	t.Helper()
	var published [][]byte
	h := mq.NewFillInHandler(
		svc,
		mq.NewFillInTransport(response.Build),
		func(message []byte) error {
			published = append(published, message)
			return nil
		},
		log.NewNopLogger(),
	)
	h(context.Background(), []byte(message))

	require.Len(t, published, 1)
	var env envelope
	require.NoError(t, json.Unmarshal(published[0], &env))
	return env
}

func TestFillInHandler(t *testing.T) {
	req := templater.Request{
		UUID:           "9b2f",
		EventDate:      "12 Mar 2025",
		BookingMessage: "Court 3",
	}

	t.Run("success", func(t *testing.T) {
		svc := new(serviceMock)
		svc.On("FillIn", mock.Anything, req).Return(templater.Response{
			UUID:     req.UUID,
			Filename: "NP_CCAB_Booking_12Mar2025.pdf",
			Document: []byte("%PDF"),
		}, nil)

		env := handle(t, svc, `{"uuid":"9b2f","event_date":"12 Mar 2025","booking_message":"Court 3"}`)
		assert.True(t, env.IsOk)
		assert.JSONEq(t, `{"uuid":"9b2f","filename":"NP_CCAB_Booking_12Mar2025.pdf","document":"JVBERg=="}`, string(env.Payload))
		svc.AssertExpectations(t)
	})

	t.Run("fill failure", func(t *testing.T) {
		svc := new(serviceMock)
		svc.On("FillIn", mock.Anything, req).Return(templater.Response{UUID: req.UUID}, fmt.Errorf("wrapped: %w", templater.ErrMissingField))

		env := handle(t, svc, `{"uuid":"9b2f","event_date":"12 Mar 2025","booking_message":"Court 3"}`)
		assert.False(t, env.IsOk)
		assert.JSONEq(t, `{"uuid":"9b2f","kind":"missing_field","message":"wrapped: template is missing required form fields"}`, string(env.Payload))
	})

	t.Run("malformed request", func(t *testing.T) {
		svc := new(serviceMock)

		env := handle(t, svc, `{"uuid":`)
		assert.False(t, env.IsOk)
		var payload struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		assert.Equal(t, templater.KindUnexpected, payload.Kind)
		svc.AssertNotCalled(t, "FillIn", mock.Anything, mock.Anything)
	})
}

func TestFillInHandlerPublishError(t *testing.T) {
	svc := new(serviceMock)
	svc.On("FillIn", mock.Anything, mock.Anything).Return(templater.Response{}, templater.ErrValidation)

	calls := 0
	h := mq.NewFillInHandler(
		svc,
		mq.NewFillInTransport(response.Build),
		func([]byte) error {
			calls++
			return errors.New("broker is down")
		},
		log.NewNopLogger(),
	)
	assert.NotPanics(t, func() { h(context.Background(), []byte(`{}`)) })
	assert.Equal(t, 1, calls)
}
