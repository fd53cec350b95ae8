// Package domain defines the ports and types of the subset service
package domain

import "context"

// LineSource yields input lines without terminators; io.EOF ends the stream
type LineSource interface {
	Next() (string, error)
}

// Sink receives accepted phrase/label pairs
type Sink interface {
	Write(phrase, label string) error
	Flush() error
}

// RunnerPort is the external port for a filter run
type RunnerPort interface {
	Run(ctx context.Context) (Stats, error)
}

// Ports are dependencies injected into the subset service
type Ports struct {
	Source LineSource // required
	Sink   Sink       // required
}
