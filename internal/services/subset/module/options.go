package module

import (
	"wikientities/internal/adapters/ingest/entitylist"
	"wikientities/internal/core/subset"
	"wikientities/internal/platform/config"
	perr "wikientities/internal/platform/errors"
)

// Options holds configuration settings for the subset module
type Options struct {
	Input       string
	Output      string
	Compression string
	Profile     string
	Progress    int64
	Thresholds  subset.Thresholds
}

// Defaults are used when nothing else is configured
func Defaults() Options {
	return Options{
		Input:       entitylist.DefaultPath,
		Output:      "-",
		Compression: string(entitylist.CompressionAuto),
		Progress:    1_000_000,
		Thresholds:  subset.Defaults(),
	}
}

// Resolve layers defaults, the YAML threshold profile and SUBSET_* env vars, in that order.
// profile overrides SUBSET_PROFILE when non-empty
func Resolve(cfg config.Conf, profile string) (Options, error) {
	o := Defaults()
	if profile == "" {
		profile = cfg.Prefix("SUBSET_").MayString("PROFILE", "")
	}
	if profile != "" {
		if err := config.LoadYAML(profile, &o.Thresholds); err != nil {
			return o, err
		}
		o.Profile = profile
	}
	return FromConfig(cfg, o)
}

// FromConfig overlays SUBSET_* env vars on base. A value that does not parse is an
// ErrorCodeInvalidArgument error whose field is the env var name
func FromConfig(cfg config.Conf, base Options) (Options, error) {
	sc := cfg.Prefix("SUBSET_")
	o := base
	o.Input = sc.MayString("INPUT", base.Input)
	o.Output = sc.MayString("OUTPUT", base.Output)
	if sc.Has("COMPRESSION") {
		c, err := entitylist.ParseCompression(sc.MayString("COMPRESSION", ""))
		if err != nil {
			return base, perr.WithField(err, sc.Key("COMPRESSION"))
		}
		o.Compression = string(c)
	}

	var err error
	th := &o.Thresholds
	if o.Progress, err = sc.Int64("PROGRESS", base.Progress); err != nil {
		return base, err
	}
	if th.MinLen, err = sc.Int("MINLEN", th.MinLen); err != nil {
		return base, err
	}
	if th.MinCount, err = sc.Int64("MINCOUNT", th.MinCount); err != nil {
		return base, err
	}
	if th.MinTrust, err = sc.Float64("MINTRUST", th.MinTrust); err != nil {
		return base, err
	}
	if th.MinTrustExact, err = sc.Float64("MINTRUSTEXACT", th.MinTrustExact); err != nil {
		return base, err
	}
	if th.ExactOnly, err = sc.Bool("EXACTONLY", th.ExactOnly); err != nil {
		return base, err
	}
	if th.MinContrast, err = sc.Float64("MINCONTRAST", th.MinContrast); err != nil {
		return base, err
	}
	return o, nil
}
