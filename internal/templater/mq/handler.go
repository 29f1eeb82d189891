package mq

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/geoirb/go-booking-pdf/internal/kafka"
	"github.com/geoirb/go-booking-pdf/internal/templater"
)

type fillInServe struct {
	svc       templater.Service
	transport *FillInTransport
	publish   kafka.Publish

	logger log.Logger
}

func (s *fillInServe) Handle(ctx context.Context, message []byte) {
	var res templater.Response
	req, err := s.transport.DecodeRequest(message)
	if err == nil {
		res, err = s.svc.FillIn(ctx, req)
	} else {
		level.Error(s.logger).Log("msg", "decode request", "err", err)
	}

	out, err := s.transport.EncodeResponse(res, err)
	if err != nil {
		level.Error(s.logger).Log("msg", "encode response", "uuid", res.UUID, "err", err)
		return
	}
	if err = s.publish(out); err != nil {
		level.Error(s.logger).Log("msg", "publish response", "uuid", res.UUID, "err", err)
	}
}

// NewFillInHandler ...
func NewFillInHandler(
	svc templater.Service,
	transport *FillInTransport,
	publish kafka.Publish,
	logger log.Logger,
) kafka.Handler {
	s := &fillInServe{
		svc:       svc,
		transport: transport,
		publish:   publish,
		logger:    log.WithPrefix(logger, "transport", "mq"),
	}

	return s.Handle
}
