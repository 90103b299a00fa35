// Package config loads a [client.Config] from a file, an optional .env
// file and the process environment, and validates it.
//
//	cfg, err := config.Load("./config.yml",
//		config.WithEnvPrefix("USERS_API"),
//		config.WithEnvFile(".env"),
//	)
//	if err != nil { ... }
//	c, err := client.New(cfg)
//
// Environment variables override file values. Keys are upper-cased, dots
// become underscores and the prefix is prepended: USERS_API_ENDPOINT_HOST
// overrides endpoint.host.
//
// The endpoint certificate material may also be given as paths with
// endpoint.ca_file, endpoint.cert_file and endpoint.key_file; a file is
// only read when the matching inline value is empty.
//
// Header names read from files lose their case. This is harmless since
// the client canonicalizes header names before sending them.
package config
