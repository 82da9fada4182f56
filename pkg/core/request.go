package core

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"golang.org/x/net/http/httpguts"
)

// Header names set by the builder.
const (
	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"

	MIMEApplicationJSON = "application/json"
)

// CanonicalMessage is the exact string that is signed:
// method, timestamp, path with query and body concatenated without separators.
type CanonicalMessage struct {
	Method        string
	Timestamp     string
	PathWithQuery string
	Body          string
}

func (m CanonicalMessage) String() string {
	return m.Method + m.Timestamp + m.PathWithQuery + m.Body
}

// Signer produces the Authorization header value for a canonical message.
type Signer interface {
	Sign(msg CanonicalMessage) string
}

// Request is a fully assembled, optionally signed request descriptor.
// URL, Body and Message are fixed at build time and must not be modified;
// the signature covers them.
type Request struct {
	Op     Operation
	Method string
	// URL is the absolute URL to send, including the query string.
	URL string
	// PathWithQuery is the part of URL covered by the signature.
	PathWithQuery string
	Headers       map[string]string
	Body          []byte
	// Timestamp is the unix-seconds string shared by the signature and the request.
	Timestamp string
	Message   CanonicalMessage
	State     RequestState
}

// HasBody reports whether the request carries a body.
func (r *Request) HasBody() bool {
	return r.Body != nil
}

// Signed reports whether an Authorization header was attached.
func (r *Request) Signed() bool {
	_, ok := r.Headers[HeaderAuthorization]
	return ok
}

type queryParam struct {
	key   string
	value string
}

// RequestBuilder assembles a Request. Path segments and query parameters
// are emitted in the order they are added. The first error is kept and
// returned by Build; later calls are no-ops.
type RequestBuilder struct {
	op       Operation
	method   string
	base     *url.URL
	segments []string
	query    []queryParam
	headers  map[string]string
	body     []byte
	err      error
}

// NewRequestBuilder starts a request against baseURL, which may carry a
// path prefix such as "/api/2".
func NewRequestBuilder(method, baseURL string) *RequestBuilder {
	b := &RequestBuilder{
		method:  strings.ToUpper(method),
		headers: make(map[string]string),
	}

	if !httpguts.ValidHeaderFieldName(b.method) {
		b.err = NewRequestBuildError("method", fmt.Errorf("invalid method %q", method))
		return b
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		b.err = NewRequestBuildError("base url", fmt.Errorf("%w: %v", ErrInvalidURL, err))
		return b
	}
	if u.Scheme == "" || u.Host == "" || u.RawQuery != "" || u.Fragment != "" {
		b.err = NewRequestBuildError("base url", fmt.Errorf("%w: %q", ErrInvalidURL, baseURL))
		return b
	}
	b.base = u

	return b
}

// Op tags the request with the operation it performs.
func (b *RequestBuilder) Op(op Operation) *RequestBuilder {
	b.op = op
	return b
}

// Operation returns the operation the request is tagged with.
func (b *RequestBuilder) Operation() Operation {
	return b.op
}

// Segment appends one path segment. Segments may not be empty, dot
// segments, or contain '/', '?' or '#'.
func (b *RequestBuilder) Segment(segment string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	if segment == "" || segment == "." || segment == ".." || strings.ContainsAny(segment, "/?#") {
		b.err = NewRequestBuildError("path", fmt.Errorf("%w: %q", ErrInvalidSegment, segment))
		return b
	}
	b.segments = append(b.segments, segment)
	return b
}

// Segments appends several path segments in order.
func (b *RequestBuilder) Segments(segments ...string) *RequestBuilder {
	for _, s := range segments {
		b.Segment(s)
	}
	return b
}

// Query appends a query parameter.
func (b *RequestBuilder) Query(key, value string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.query = append(b.query, queryParam{key: url.QueryEscape(key), value: url.QueryEscape(value)})
	return b
}

// QueryInt appends an integer query parameter.
func (b *RequestBuilder) QueryInt(key string, value int) *RequestBuilder {
	return b.Query(key, strconv.Itoa(value))
}

// QueryList appends a comma-joined parameter keeping the caller's order.
// Each value is escaped on its own so the separating commas stay literal.
// An empty list adds nothing.
func (b *RequestBuilder) QueryList(key string, values []string) *RequestBuilder {
	if b.err != nil || len(values) == 0 {
		return b
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = url.QueryEscape(v)
	}
	b.query = append(b.query, queryParam{key: url.QueryEscape(key), value: strings.Join(escaped, ",")})
	return b
}

// Header sets a request header.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	if !httpguts.ValidHeaderFieldName(key) || !httpguts.ValidHeaderFieldValue(value) {
		b.err = NewRequestBuildError("header", fmt.Errorf("%w: %q", ErrInvalidHeader, key))
		return b
	}
	b.headers[http.CanonicalHeaderKey(key)] = value
	return b
}

// JSONBody serializes v as the request body. The bytes produced here are
// both signed and sent.
func (b *RequestBuilder) JSONBody(v any) *RequestBuilder {
	if b.err != nil {
		return b
	}
	data, err := sonic.Marshal(v)
	if err != nil {
		b.err = NewRequestBuildError("serialize body", err)
		return b
	}
	return b.RawBody(data)
}

// RawBody sets pre-serialized body bytes, which must be valid UTF-8.
func (b *RequestBuilder) RawBody(data []byte) *RequestBuilder {
	if b.err != nil {
		return b
	}
	if !utf8.Valid(data) {
		b.err = NewRequestBuildError("body", ErrInvalidBody)
		return b
	}
	if data == nil {
		data = []byte{}
	}
	b.body = data
	return b
}

// PathWithQuery returns the escaped path and query assembled so far.
func (b *RequestBuilder) PathWithQuery() string {
	if b.base == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(b.base.EscapedPath(), "/"))
	for _, s := range b.segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	if len(b.segments) == 0 && sb.Len() == 0 {
		sb.WriteByte('/')
	}

	for i, q := range b.query {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(q.key)
		sb.WriteByte('=')
		sb.WriteString(q.value)
	}

	return sb.String()
}

// Build finalizes the request. now is read exactly once; the resulting
// timestamp is stored on the request and used in the signed message.
// A nil signer produces an unsigned request for public endpoints.
func (b *RequestBuilder) Build(signer Signer, now time.Time) (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}

	pathWithQuery := b.PathWithQuery()
	timestamp := strconv.FormatInt(now.Unix(), 10)

	req := &Request{
		Op:            b.op,
		Method:        b.method,
		URL:           b.base.Scheme + "://" + b.base.Host + pathWithQuery,
		PathWithQuery: pathWithQuery,
		Headers:       make(map[string]string, len(b.headers)+3),
		Body:          b.body,
		Timestamp:     timestamp,
		Message: CanonicalMessage{
			Method:        b.method,
			Timestamp:     timestamp,
			PathWithQuery: pathWithQuery,
			Body:          string(b.body),
		},
		State: StateBuilt,
	}

	for k, v := range b.headers {
		req.Headers[k] = v
	}
	req.Headers[HeaderAccept] = MIMEApplicationJSON
	if req.HasBody() {
		req.Headers[HeaderContentType] = MIMEApplicationJSON
	}

	if signer != nil {
		auth := signer.Sign(req.Message)
		if !httpguts.ValidHeaderFieldValue(auth) {
			return nil, NewRequestBuildError("authorization", ErrInvalidHeader)
		}
		req.Headers[HeaderAuthorization] = auth
		req.State = StateSigned
	}

	return req, nil
}
