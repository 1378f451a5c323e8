// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every variable the encoding task reads.
const EnvPrefix = "ENCODING_TASK_"

// ParseEnv loads configuration from environment variables using the full
// variable names in the target's struct tags.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithPrefix loads configuration whose struct tags omit the shared
// prefix, e.g. `env:"OTEL_ENDPOINT"` read as ENCODING_TASK_OTEL_ENDPOINT.
func ParseEnvWithPrefix(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env %s*: %w", prefix, err)
	}
	return nil
}

// Lookup returns the trimmed value of EnvPrefix+name when it is set and
// non-blank.
func Lookup(name string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
