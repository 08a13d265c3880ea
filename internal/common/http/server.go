// internal/common/http/server.go
package http

import (
	"encoding/json"
	nethttp "net/http"
	"time"
)

const maxHeaderWait = 5 * time.Second

// NewServer builds the API server. Zero timeouts are left unset.
func NewServer(addr string, handler nethttp.Handler, readTimeout, writeTimeout time.Duration) *nethttp.Server {
	return &nethttp.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: maxHeaderWait,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}
}

// WriteJSON encodes body with the given status code.
func WriteJSON(w nethttp.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeJSON decodes at most maxBytes of the request body into dst.
func DecodeJSON(w nethttp.ResponseWriter, r *nethttp.Request, maxBytes int64, dst interface{}) error {
	if maxBytes > 0 {
		r.Body = nethttp.MaxBytesReader(w, r.Body, maxBytes)
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}
