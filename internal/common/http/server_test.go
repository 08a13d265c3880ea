// internal/common/http/server_test.go
package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	srv := NewServer(":8080", nethttp.NotFoundHandler(), 10*time.Second, 0)

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, maxHeaderWait, srv.ReadHeaderTimeout)
	assert.Equal(t, 10*time.Second, srv.ReadTimeout)
	assert.Zero(t, srv.WriteTimeout)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, nethttp.StatusAccepted, map[string]string{"status": "ok"})

	assert.Equal(t, nethttp.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	t.Run("keeps numbers exact", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodPost, "/", strings.NewReader(`{"population": 1200}`))
		var dst map[string]interface{}
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, 1024, &dst))
		assert.Equal(t, "1200", dst["population"].(interface{ String() string }).String())
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodPost, "/", strings.NewReader(`{"community_name": "`+strings.Repeat("a", 64)+`"}`))
		var dst map[string]interface{}
		assert.Error(t, DecodeJSON(httptest.NewRecorder(), req, 16, &dst))
	})
}
