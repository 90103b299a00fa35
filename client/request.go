package client

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// buildOptions derives the request descriptor for one call from the
// client config and the call content. It never mutates either.
func (c *Client) buildOptions(method, resourcePath string, content Content) (requestOptions, error) {
	host, err := endpointHost(c.cfg.Endpoint)
	if err != nil {
		return requestOptions{}, err
	}

	path := resourcePath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if content.QueryStringParameters != "" {
		path = fmt.Sprintf("%s?%s", path, content.QueryStringParameters)
	}

	opts := requestOptions{
		method:  method,
		host:    host,
		path:    path,
		headers: mergeHeaders(c.cfg.Headers, content.Headers, c.precedence),
	}

	if method != http.MethodGet {
		payload, err := transformBody(content.Body, opts.headers)
		if err != nil {
			return requestOptions{}, fmt.Errorf("transforming body: %w", err)
		}
		opts.payload = payload
	}

	return opts, nil
}

// mergeHeaders combines config and call headers into a fresh http.Header.
// The side applied last wins a collision; names are canonicalized, so
// "x-api-key" and "X-Api-Key" are the same header.
func mergeHeaders(config, call map[string]string, precedence HeaderPrecedence) http.Header {
	first, last := config, call
	if precedence == ConfigWins {
		first, last = call, config
	}

	h := make(http.Header, len(config)+len(call))
	for k, v := range first {
		h.Set(k, v)
	}
	for k, v := range last {
		h.Set(k, v)
	}

	return h
}

// endpointHost renders the host[:port] authority for ep. Non-ASCII names
// are converted to their IDNA form. An empty host is passed through and
// left for the transport to reject.
func endpointHost(ep Endpoint) (string, error) {
	host := ep.Host

	if !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("converting host %q: %w", host, err)
		}
		host = ascii
	}

	if ep.Port != "" {
		return net.JoinHostPort(strings.Trim(host, "[]"), string(ep.Port)), nil
	}

	if strings.Contains(host, ":") && net.ParseIP(host) != nil {
		return "[" + host + "]", nil
	}

	return host, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
