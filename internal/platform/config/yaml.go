package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	perr "wikientities/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes the YAML file at path into out. Unknown keys are rejected
// so a typo in a profile does not silently fall back to a default.
// An empty file leaves out untouched.
func LoadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "read profile %s", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "decode profile %s", path), path)
	}
	return nil
}
