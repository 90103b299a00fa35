package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/restclient/client"
)

// envKeys are the scalar keys that can be overridden from the environment.
var envKeys = []string{
	"name",
	"endpoint.host",
	"endpoint.port",
	"endpoint.ca",
	"endpoint.ca_file",
	"endpoint.server_name",
	"endpoint.cert",
	"endpoint.cert_file",
	"endpoint.key",
	"endpoint.key_file",
}

// Option is a functional option for [Load].
type Option func(*loader)

type loader struct {
	envPrefix string
	envFile   string
	skipValid bool
}

// WithEnvPrefix sets the prefix of the environment variables read by [Load].
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.envPrefix = prefix
	}
}

// WithEnvFile loads the given .env file into the environment before
// reading it. Variables already set in the environment are kept.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		l.envFile = path
	}
}

// WithoutValidation returns the loaded config without calling [Validate].
func WithoutValidation() Option {
	return func(l *loader) {
		l.skipValid = true
	}
}

// Load reads a client config from path. The format follows the file
// extension (yaml, yml, json, toml). An empty path reads the environment only.
func Load(path string, opts ...Option) (client.Config, error) {
	var l loader
	for _, opt := range opts {
		opt(&l)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return client.Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil {
			return client.Config{}, fmt.Errorf("loading env file %s: %w", l.envFile, err)
		}
	}

	if l.envPrefix != "" {
		v.SetEnvPrefix(l.envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return client.Config{}, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	var cfg client.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return client.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := resolveFiles(v, &cfg.Endpoint); err != nil {
		return client.Config{}, err
	}

	if l.skipValid {
		return cfg, nil
	}

	if err := Validate(cfg); err != nil {
		return client.Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// resolveFiles fills empty inline certificate fields from their *_file keys.
func resolveFiles(v *viper.Viper, ep *client.Endpoint) error {
	fields := []struct {
		key string
		dst *string
	}{
		{key: "endpoint.ca_file", dst: &ep.CA},
		{key: "endpoint.cert_file", dst: &ep.Cert},
		{key: "endpoint.key_file", dst: &ep.Key},
	}

	var errs []error
	for _, f := range fields {
		path := v.GetString(f.key)
		if path == "" || *f.dst != "" {
			continue
		}

		b, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", f.key, err))
			continue
		}
		*f.dst = string(b)
	}

	return errors.Join(errs...)
}
