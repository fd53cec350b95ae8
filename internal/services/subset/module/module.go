// Package module wires the subset service to its input and output adapters
package module

import (
	"errors"

	"wikientities/internal/adapters/emit"
	"wikientities/internal/adapters/ingest/entitylist"
	"wikientities/internal/core/subset"
	"wikientities/internal/services/subset/domain"
	"wikientities/internal/services/subset/service"
)

// Ports exposed by the subset module
type Ports struct {
	Runner domain.RunnerPort
}

// Module owns the opened input and output for one run
type Module struct {
	opts  Options
	src   *entitylist.Reader
	sink  *emit.Writer
	ports Ports
}

// New validates opts, opens input and output, and builds the runner.
// Thresholds are validated before any file is touched
func New(opts Options) (*Module, error) {
	f, err := subset.New(opts.Thresholds)
	if err != nil {
		return nil, err
	}
	codec, err := entitylist.ParseCompression(opts.Compression)
	if err != nil {
		return nil, err
	}

	src, err := entitylist.Open(opts.Input, codec)
	if err != nil {
		return nil, err
	}
	sink, err := emit.Create(opts.Output)
	if err != nil {
		return nil, errors.Join(err, src.Close())
	}

	runner := service.New(
		domain.Ports{Source: src, Sink: sink},
		f,
		service.Config{ProgressEvery: opts.Progress},
	)

	return &Module{
		opts:  opts,
		src:   src,
		sink:  sink,
		ports: Ports{Runner: runner},
	}, nil
}

// Name of the module
func (m *Module) Name() string { return "subset" }

// Ports returns the module ports
func (m *Module) Ports() Ports { return m.ports }

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }

// Close flushes the output and releases both streams.
// A consumer that went away early is not reported
func (m *Module) Close() error {
	serr := m.sink.Close()
	if emit.IsBrokenPipe(serr) {
		serr = nil
	}
	return errors.Join(serr, m.src.Close())
}
