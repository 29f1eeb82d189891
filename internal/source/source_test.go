package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTemplate = []byte("%PDF-1.7 template")

func TestFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template_3.pdf"), testTemplate, 0o600))

	t.Run("fetch", func(t *testing.T) {
		f, err := NewFile(dir, "template_3.pdf")
		require.NoError(t, err)
		assert.Equal(t, dir+"/template_3.pdf", f.Path())

		b, err := f.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testTemplate, b)
	})

	t.Run("missing template", func(t *testing.T) {
		f, err := NewFile(dir, "other.pdf")
		require.NoError(t, err)
		_, err = f.Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := NewFile(filepath.Join(dir, "nope"), "template_3.pdf")
		assert.Error(t, err)
	})
}

func TestHTTP(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/pdf")
			w.Write(testTemplate)
		}))
		defer srv.Close()

		b, err := NewHTTP(srv.URL, time.Second, srv.Client(), log.NewNopLogger()).Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testTemplate, b)
	})

	t.Run("wrong content type is accepted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(testTemplate)
		}))
		defer srv.Close()

		b, err := NewHTTP(srv.URL, time.Second, srv.Client(), log.NewNopLogger()).Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testTemplate, b)
	})

	t.Run("size limit", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write(testTemplate)
		}))
		defer srv.Close()

		h := NewHTTP(srv.URL, time.Second, srv.Client(), log.NewNopLogger())
		h.maxSize = int64(len(testTemplate))
		b, err := h.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testTemplate, b)

		h.maxSize = int64(len(testTemplate)) - 1
		_, err = h.Fetch(context.Background())
		assert.EqualError(t, err, fmt.Sprintf("read template: larger than %d bytes", len(testTemplate)-1))
	})

	t.Run("not found", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		_, err := NewHTTP(srv.URL, time.Second, srv.Client(), log.NewNopLogger()).Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, err := NewHTTP(srv.URL, 50*time.Millisecond, srv.Client(), log.NewNopLogger()).Fetch(context.Background())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
