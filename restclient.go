// Package restclient exposes the client builder.
package restclient

import (
	"github.com/adamwoolhether/restclient/client"
)

// New instantiates a *client.Client for cfg with the provided options.
// Without options the client dials cfg.Endpoint over HTTPS with a
// transport cloned from [http.DefaultTransport].
func New(cfg client.Config, opts ...client.Option) (*client.Client, error) {
	return client.New(cfg, opts...)
}
