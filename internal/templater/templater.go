package templater

import (
	"context"
)

// Service of templater.
type Service interface {
	// FillTemplate fills the booking template and returns the flattened document.
	FillTemplate(ctx context.Context, eventDate, bookingMessage string) ([]byte, error)
	// FillIn serves FillTemplate for a request of a transport.
	FillIn(ctx context.Context, req Request) (res Response, err error)
}
