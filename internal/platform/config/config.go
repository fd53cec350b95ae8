// Package config handles application configuration via environment variables
// and optional YAML profile files
package config

import (
	"os"
	"strconv"
	"strings"

	perr "wikientities/internal/platform/errors"
)

// Conf is a namespaced view over environment variables (e.g., "SUBSET_", "LOG_")
// Use New() for global access, or Prefix("SUBSET_") for module scopes.
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix, e.g. cfg.Prefix("SUBSET_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// key composes the fully-qualified env var name
func (c Conf) key(k string) string { return c.prefix + k }

// Key is the fully-qualified env var name for k, for error fields
func (c Conf) Key(k string) string { return c.key(k) }

// Has reports whether the key is set to a non-blank value
func (c Conf) Has(key string) bool {
	return strings.TrimSpace(os.Getenv(c.key(key))) != ""
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(c.key(key)))
	if v == "" {
		return def
	}
	return v
}

// Int returns the value or def if missing/empty; a value that does not parse is an
// ErrorCodeInvalidArgument error naming the env var
func (c Conf) Int(key string, def int) (int, error) {
	s, ok := c.lookup(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def, c.invalid(key, s, "an integer")
	}
	return v, nil
}

// Int64 is Int for 64-bit values
func (c Conf) Int64(key string, def int64) (int64, error) {
	s, ok := c.lookup(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def, c.invalid(key, s, "an integer")
	}
	return v, nil
}

// Float64 returns the value or def if missing/empty; errors like Int
func (c Conf) Float64(key string, def float64) (float64, error) {
	s, ok := c.lookup(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def, c.invalid(key, s, "a number")
	}
	return v, nil
}

// Bool returns the value or def if missing/empty; errors like Int
func (c Conf) Bool(key string, def bool) (bool, error) {
	s, ok := c.lookup(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def, c.invalid(key, s, "a boolean")
	}
	return v, nil
}

func (c Conf) lookup(key string) (string, bool) {
	s := strings.TrimSpace(os.Getenv(c.key(key)))
	return s, s != ""
}

func (c Conf) invalid(key, value, want string) error {
	return perr.WithField(perr.InvalidArgf("%s=%q is not %s", c.key(key), value, want), c.key(key))
}
