package core

import (
	"context"
	"net/http"
)

// Transport sends a built request and returns the raw response.
// Implementations must send Request.URL and Request.Body unchanged,
// since both are covered by the signature.
// A non-nil error means no usable response was received.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Response is the raw result of one HTTP exchange.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
