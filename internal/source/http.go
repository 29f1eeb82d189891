package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

const (
	pdfMediaType = "application/pdf"

	maxTemplateSize = 32 << 20
)

// HTTP fetches the template with a GET request on every fetch.
type HTTP struct {
	url     string
	timeout time.Duration
	client  *http.Client
	maxSize int64

	logger log.Logger
}

// NewHTTP ...
func NewHTTP(
	url string,
	timeout time.Duration,
	client *http.Client,
	logger log.Logger,
) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{
		url:     url,
		timeout: timeout,
		client:  client,
		maxSize: maxTemplateSize,
		logger:  log.WithPrefix(logger, "source", url),
	}
}

// Fetch returns the template bytes. Non-success statuses are errors;
// an unexpected content type is only logged.
func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get template: status %s", resp.Status)
	}

	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err != nil || mediaType != pdfMediaType {
		level.Warn(h.logger).Log("msg", "unexpected template content type", "content_type", resp.Header.Get("Content-Type"))
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, h.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	if int64(len(b)) > h.maxSize {
		return nil, fmt.Errorf("read template: larger than %d bytes", h.maxSize)
	}
	return b, nil
}
