package client

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
)

// tlsConfig builds the client TLS settings from the endpoint's certificate
// material. It returns nil when the endpoint carries none.
func tlsConfig(ep Endpoint) (*tls.Config, error) {
	if ep.CA == "" && ep.ServerName == "" && ep.Cert == "" && ep.Key == "" {
		return nil, nil
	}

	cfg := &tls.Config{
		ServerName: ep.ServerName,
		MinVersion: tls.VersionTLS12,
	}

	if ep.CA != "" {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(ep.CA)) {
			return nil, errors.New("parsing endpoint ca: no PEM certificates found")
		}
		cfg.RootCAs = pool
	}

	if (ep.Cert == "") != (ep.Key == "") {
		return nil, errors.New("endpoint cert and key must be provided together")
	}

	if ep.Cert != "" {
		pair, err := tls.X509KeyPair([]byte(ep.Cert), []byte(ep.Key))
		if err != nil {
			return nil, fmt.Errorf("parsing endpoint client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	return cfg, nil
}

// defaultTransport clones [http.DefaultTransport], applies tc and pins
// the transport to HTTP/1.1.
func defaultTransport(tc *tls.Config) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = nil
	t.ForceAttemptHTTP2 = false
	t.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)

	if tc != nil {
		t.TLSClientConfig = tc
	}

	return t
}
