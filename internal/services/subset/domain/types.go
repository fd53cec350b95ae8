package domain

import (
	"wikientities/internal/core/subset"

	"github.com/rs/zerolog"
)

// Stats summarizes a run
type Stats struct {
	Lines     int64
	Accepted  int64
	Malformed int64
	Rejected  map[subset.Reason]int64
	// Truncated is set when the consumer closed the output early
	Truncated bool
}

// NewStats returns Stats with every reason present at zero
func NewStats() Stats {
	r := make(map[subset.Reason]int64, len(subset.Reasons()))
	for _, reason := range subset.Reasons() {
		r[reason] = 0
	}
	return Stats{Rejected: r}
}

// RejectedTotal sums rejections over all reasons
func (s Stats) RejectedTotal() int64 {
	var n int64
	for _, v := range s.Rejected {
		n += v
	}
	return n
}

// MarshalZerologObject lets Stats be logged with Object()
func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("lines", s.Lines).
		Int64("accepted", s.Accepted).
		Int64("rejected", s.RejectedTotal()).
		Int64("malformed", s.Malformed)
	by := zerolog.Dict()
	for _, reason := range subset.Reasons() {
		by.Int64(string(reason), s.Rejected[reason])
	}
	e.Dict("by_reason", by)
	if s.Truncated {
		e.Bool("truncated", true)
	}
}
