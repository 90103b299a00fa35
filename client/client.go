package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/restclient/client/throttle"
)

// Client wraps the std-lib *http.Client around an immutable [Config].
// A Client is safe for concurrent use; nothing it holds changes after [New].
type Client struct {
	cfg        Config
	c          *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	requestID  bool
	precedence HeaderPrecedence
}

// New builds a Client for cfg. The config is stored as given: a missing
// host is only reported once a request is executed. New fails on invalid
// options or unparsable endpoint certificate material.
func New(cfg Config, optFns ...Option) (*Client, error) {
	client := &Client{
		cfg:    cfg,
		logger: slog.Default(),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}
	if opts.logger != nil {
		client.logger = opts.logger
	}
	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		tc, err := tlsConfig(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("configuring tls: %w", err)
		}
		transport = defaultTransport(tc)
	}

	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}

	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}

	hc.Transport = transport

	client.c = hc
	client.tracer = opts.tracer
	client.requestID = opts.requestID
	client.precedence = opts.precedence

	return client, nil
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Get issues a GET for resourcePath. content.Body is never sent.
// The response body is returned on 200 OK; any other status yields an
// [*UnexpectedStatusError] carrying the raw body.
func (c *Client) Get(ctx context.Context, resourcePath string, content Content) (string, error) {
	return c.do(ctx, http.MethodGet, resourcePath, content)
}

// Put issues a PUT for resourcePath, sending content.Body encoded per
// the effective Content-Type header.
func (c *Client) Put(ctx context.Context, resourcePath string, content Content) (string, error) {
	return c.do(ctx, http.MethodPut, resourcePath, content)
}

// Post issues a POST for resourcePath, sending content.Body encoded per
// the effective Content-Type header.
func (c *Client) Post(ctx context.Context, resourcePath string, content Content) (string, error) {
	return c.do(ctx, http.MethodPost, resourcePath, content)
}

func (c *Client) do(ctx context.Context, method, resourcePath string, content Content) (string, error) {
	opts, err := c.buildOptions(method, resourcePath, content)
	if err != nil {
		return "", err
	}

	if c.requestID && opts.headers.Get(requestIDHeader) == "" {
		opts.headers.Set(requestIDHeader, newRequestID())
	}

	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.startSpan(ctx, opts)
		defer span.End()

		body, err := c.exec(ctx, opts)
		recordSpan(span, err)

		return body, err
	}

	return c.exec(ctx, opts)
}

// exec runs one request and reads its body to completion before
// deciding on the outcome from the status code.
func (c *Client) exec(ctx context.Context, opts requestOptions) (string, error) {
	var payload io.Reader
	if opts.payload != nil {
		payload = bytes.NewReader(opts.payload)
	}

	req, err := http.NewRequestWithContext(ctx, opts.method, opts.url(), payload)
	if err != nil {
		return "", fmt.Errorf("instantiating request: %w", err)
	}
	req.Header = opts.headers
	if h := req.Header.Get("Host"); h != "" {
		// net/http only writes the Host line from req.Host.
		req.Host = h
		req.Header.Del("Host")
	}

	log := c.logger.With("client", c.cfg.Name, "method", opts.method, "path", opts.path)
	log.Debug("request started")
	start := time.Now()

	resp, err := c.c.Do(req)
	if err != nil {
		return "", fmt.Errorf("exec http do: %w: %w", ErrTransport, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Error("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w: %w", ErrTransport, err)
	}

	log.Debug("request completed", "statusCode", resp.StatusCode, "since", time.Since(start).String())

	switch resp.StatusCode {
	case http.StatusOK:
		return string(b), nil
	case 0:
		return "", ErrNoStatusCode
	default:
		return "", &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Err:        ErrUnexpectedStatusCode,
		}
	}
}

// startSpan opens a client span for the request and injects the trace
// context into its headers.
func (c *Client) startSpan(ctx context.Context, opts requestOptions) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(ctx, "restclient."+opts.method, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("restclient.name", c.cfg.Name),
		attribute.String("http.request.method", opts.method),
		attribute.String("server.address", opts.host),
		attribute.String("url.path", opts.path),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(opts.headers))

	return ctx, span
}

func recordSpan(span trace.Span, err error) {
	if err == nil {
		span.SetAttributes(attribute.Int("http.response.status_code", http.StatusOK))
		return
	}

	var statusErr *UnexpectedStatusError
	if errors.As(err, &statusErr) {
		span.SetAttributes(attribute.Int("http.response.status_code", statusErr.StatusCode))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
