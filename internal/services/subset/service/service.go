// Package service implements the subset runner
package service

import (
	"context"
	"errors"
	"io"

	"wikientities/internal/adapters/emit"
	"wikientities/internal/core/subset"
	perr "wikientities/internal/platform/errors"
	"wikientities/internal/platform/logger"
	"wikientities/internal/services/subset/domain"
)

// Config for the subset service
type Config struct {
	// ProgressEvery logs a progress line every N input lines; 0 disables
	ProgressEvery int64
}

// Service implements domain.RunnerPort
type Service struct {
	Source domain.LineSource
	Sink   domain.Sink
	Filter *subset.Filter
	Cfg    Config
}

// New constructs a new subset service
func New(ports domain.Ports, f *subset.Filter, cfg Config) *Service {
	if cfg.ProgressEvery < 0 {
		cfg.ProgressEvery = 0
	}
	return &Service{
		Source: ports.Source,
		Sink:   ports.Sink,
		Filter: f,
		Cfg:    cfg,
	}
}

// Run streams the source through the filter into the sink.
// Malformed records are logged and skipped; read/write failures end the run.
// A broken pipe on the sink ends the run without an error
func (s *Service) Run(ctx context.Context) (domain.Stats, error) {
	log := logger.C(ctx)
	st := domain.NewStats()

	for {
		if err := ctx.Err(); err != nil {
			return st, perr.Wrap(err, perr.ErrorCodeCanceled, "subset run canceled")
		}

		line, err := s.Source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, asIO(err, "read input")
		}
		st.Lines++

		d := s.Filter.Decide(line)
		if !d.Accepted {
			st.Rejected[d.Reason]++
			if d.Err != nil {
				st.Malformed++
				ev := logger.Diag(ctx).Warn().Err(d.Err).Int64("line", st.Lines).Strs("fields", d.Record.Fields)
				if e, ok := perr.As(d.Err); ok && e.Field() != "" {
					ev = ev.Str("field", e.Field())
				}
				ev.Msg("did not match")
			}
		} else {
			if err := s.Sink.Write(d.Phrase, d.Label); err != nil {
				if emit.IsBrokenPipe(err) {
					st.Truncated = true
					log.Debug().Int64("line", st.Lines).Msg("output closed early")
					return st, nil
				}
				return st, asIO(err, "write output")
			}
			st.Accepted++
		}

		if s.Cfg.ProgressEvery > 0 && st.Lines%s.Cfg.ProgressEvery == 0 {
			log.Info().Int64("lines", st.Lines).Int64("accepted", st.Accepted).Msg("progress")
		}
	}

	if err := s.Sink.Flush(); err != nil {
		if emit.IsBrokenPipe(err) {
			st.Truncated = true
			log.Debug().Int64("line", st.Lines).Msg("output closed early")
			return st, nil
		}
		return st, asIO(err, "flush output")
	}

	log.Info().Object("stats", st).Msg("subset complete")
	return st, nil
}

// asIO keeps project errors as they are and tags foreign ones as I/O failures
func asIO(err error, msg string) error {
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.Wrap(err, perr.ErrorCodeIO, msg)
}
