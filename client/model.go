package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrTransport is joined with the native transport error when a request
	// never produced a response (DNS, TLS handshake, connection reset, missing host).
	ErrTransport = errors.New("transport failure")
	// ErrNoStatusCode is returned when the transport hands back a response
	// without a status code.
	ErrNoStatusCode = errors.New("response has no status code")
	// ErrMissingContentType is returned when a body needs a Content-Type
	// header to be encoded but none is usable.
	ErrMissingContentType = errors.New("missing content type")
	// ErrUnsupportedBody is returned when a body cannot be sent as-is under
	// the effective Content-Type.
	ErrUnsupportedBody = errors.New("unsupported body type")
)

// UnexpectedStatusError is returned when the HTTP response status code
// is anything other than 200 OK. Body holds the complete, raw response body.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// Config is the immutable settings bundle a [Client] is built from.
type Config struct {
	// Name identifies the client in logs and traces. It is never sent.
	Name     string            `json:"name" yaml:"name" mapstructure:"name"`
	Endpoint Endpoint          `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	Headers  map[string]string `json:"headers" yaml:"headers" mapstructure:"headers"`
}

// Endpoint describes the remote host and the certificate material
// used to reach it.
type Endpoint struct {
	Host string `json:"host" yaml:"host" mapstructure:"host" validate:"required"`
	Port Port   `json:"port" yaml:"port" mapstructure:"port" validate:"omitempty,numeric"`

	// CA is a PEM encoded certificate bundle trusted as root CAs.
	CA string `json:"ca" yaml:"ca" mapstructure:"ca"`
	// ServerName overrides the name used for certificate verification.
	ServerName string `json:"server_name" yaml:"server_name" mapstructure:"server_name"`
	// Cert and Key are a PEM encoded client certificate pair for mTLS.
	Cert string `json:"cert" yaml:"cert" mapstructure:"cert" validate:"required_with=Key"`
	Key  string `json:"key" yaml:"key" mapstructure:"key" validate:"required_with=Cert"`
}

// Port is an endpoint port. It decodes from either a JSON number or string.
type Port string

func (p *Port) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*p = Port(n.String())
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decoding port: %w", err)
	}
	*p = Port(s)

	return nil
}

// PortNumber converts a numeric port into a [Port].
func PortNumber(p int) Port {
	return Port(strconv.Itoa(p))
}

// Content holds the per-call parameters of a request.
type Content struct {
	// QueryStringParameters is pre-encoded and appended verbatim after '?'.
	QueryStringParameters string
	Headers               map[string]string
	// Body is ignored for GET.
	Body any
}

// HeaderPrecedence decides which side wins when the config and the call
// both set the same header. Names are compared case-insensitively.
type HeaderPrecedence int

const (
	// CallerWins lets call-site headers override config headers.
	CallerWins HeaderPrecedence = iota
	// ConfigWins lets config headers override call-site headers.
	ConfigWins
)

func (p HeaderPrecedence) String() string {
	switch p {
	case CallerWins:
		return "caller-wins"
	case ConfigWins:
		return "config-wins"
	default:
		return "unknown"
	}
}

// requestOptions is the transient request descriptor built for every call.
type requestOptions struct {
	method  string
	host    string
	path    string
	headers http.Header
	payload []byte
}

func (o requestOptions) url() string {
	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(o.host)
	b.WriteString(o.path)

	return b.String()
}
