package kafka

import (
	"context"
	"errors"
)

var errTopicIsExist = errors.New("topic is already consumed")

// Handler message from mq.
type Handler func(ctx context.Context, message []byte)

// Publish message to mq.
type Publish func(message []byte) error
