package mq

import (
	"encoding/json"
	"fmt"

	"github.com/geoirb/go-booking-pdf/internal/templater"
)

type builder func(payload interface{}, err error) ([]byte, error)

// FillInTransport ...
type FillInTransport struct {
	builder builder
}

// NewFillInTransport ...
func NewFillInTransport(
	builder builder,
) *FillInTransport {
	return &FillInTransport{
		builder: builder,
	}
}

// DecodeRequest ...
func (t *FillInTransport) DecodeRequest(message []byte) (templater.Request, error) {
	var req request
	if err := json.Unmarshal(message, &req); err != nil {
		return templater.Request{}, fmt.Errorf("decode request: %w", err)
	}
	return templater.Request(req), nil
}

// EncodeResponse ...
func (t *FillInTransport) EncodeResponse(res templater.Response, err error) ([]byte, error) {
	if err != nil {
		return t.builder(failure{
			UUID:    res.UUID,
			Kind:    templater.Kind(err),
			Message: err.Error(),
		}, err)
	}
	return t.builder(response(res), nil)
}
