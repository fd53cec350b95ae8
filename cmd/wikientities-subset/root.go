package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wikientities/internal/adapters/ingest/entitylist"
	"wikientities/internal/core/version"
	"wikientities/internal/platform/config"
	"wikientities/internal/platform/logger"
	submod "wikientities/internal/services/subset/module"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type cliFlags struct {
	input         string
	output        string
	compression   string
	profile       string
	progress      int64
	minLen        int
	minCount      int64
	minTrust      float64
	minTrustExact float64
	exactOnly     bool
	minContrast   float64
}

func newRootCmd() *cobra.Command {
	var fl cliFlags
	def := submod.Defaults()

	cmd := &cobra.Command{
		Use:   "wikientities-subset",
		Short: "Filter an entity list by usage, trust and exactness",
		Long: `Reads a tab-separated entity list (gzip, zstd or plain) and prints
phrase<TAB>label for every phrase whose best match is trusted, exact and
clearly ahead of the runner-up.

Settings are layered: defaults, then --profile YAML, then SUBSET_* env vars,
then flags given on the command line.`,
		Args:          cobra.NoArgs,
		Version:       version.Info().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &fl)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fl.input, "input", "i", def.Input, "entity list path, '-' for stdin")
	f.StringVarP(&fl.output, "output", "o", def.Output, "output path, '-' for stdout")
	f.StringVar(&fl.compression, "compression", def.Compression,
		"input codec: "+strings.Join(entitylist.Compressions(), "|"))
	f.StringVar(&fl.profile, "profile", "", "YAML file with threshold overrides")
	f.Int64Var(&fl.progress, "progress", def.Progress, "log progress every N lines (0 disables)")
	f.IntVar(&fl.minLen, "minlen", def.Thresholds.MinLen, "minimum phrase length in characters")
	f.Int64Var(&fl.minCount, "mincount", def.Thresholds.MinCount, "minimum usage count")
	f.Float64Var(&fl.minTrust, "mintrust", def.Thresholds.MinTrust, "minimum trust for non-exact matches")
	f.Float64Var(&fl.minTrustExact, "mintrustexact", def.Thresholds.MinTrustExact, "minimum trust for exact matches")
	f.BoolVar(&fl.exactOnly, "exactonly", def.Thresholds.ExactOnly, "require the best match to be exact")
	f.Float64Var(&fl.minContrast, "mincontrast", def.Thresholds.MinContrast, "required trust margin over the runner-up")

	return cmd
}

func run(cmd *cobra.Command, fl *cliFlags) error {
	lopt := logger.FromEnv()
	if lopt.Service == "" {
		lopt.Service = version.Info().Service
	}
	logger.Init(lopt)

	opts, err := submod.Resolve(config.New(), fl.profile)
	if err != nil {
		return err
	}
	applyFlags(cmd, fl, &opts)

	// writes to a closed stdout return EPIPE instead of killing the process
	signal.Ignore(syscall.SIGPIPE)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRun(ctx, uuid.NewString(), opts.Input)

	log := logger.C(ctx)
	log.Info().
		Str("output", opts.Output).
		Str("profile", opts.Profile).
		Int("minlen", opts.Thresholds.MinLen).
		Int64("mincount", opts.Thresholds.MinCount).
		Float64("mintrust", opts.Thresholds.MinTrust).
		Float64("mintrustexact", opts.Thresholds.MinTrustExact).
		Bool("exactonly", opts.Thresholds.ExactOnly).
		Float64("mincontrast", opts.Thresholds.MinContrast).
		Msg("subset starting")

	m, err := submod.New(opts)
	if err != nil {
		return err
	}
	_, runErr := m.Ports().Runner.Run(ctx)
	if cerr := m.Close(); cerr != nil && runErr == nil {
		runErr = cerr
	}
	return runErr
}

// applyFlags copies only the flags set on the command line, so env and profile
// values survive unless overridden explicitly
func applyFlags(cmd *cobra.Command, fl *cliFlags, o *submod.Options) {
	set := cmd.Flags().Changed
	if set("input") {
		o.Input = fl.input
	}
	if set("output") {
		o.Output = fl.output
	}
	if set("compression") {
		o.Compression = fl.compression
	}
	if set("progress") {
		o.Progress = fl.progress
	}
	th := &o.Thresholds
	if set("minlen") {
		th.MinLen = fl.minLen
	}
	if set("mincount") {
		th.MinCount = fl.minCount
	}
	if set("mintrust") {
		th.MinTrust = fl.minTrust
	}
	if set("mintrustexact") {
		th.MinTrustExact = fl.minTrustExact
	}
	if set("exactonly") {
		th.ExactOnly = fl.exactOnly
	}
	if set("mincontrast") {
		th.MinContrast = fl.minContrast
	}
}
