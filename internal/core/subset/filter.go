// Package subset decides which entity records make it into the reduced phrase list
package subset

import (
	"wikientities/internal/core/entities"
	perr "wikientities/internal/platform/errors"
)

// Reason names the check that rejected a record
type Reason string

// Rejection reasons in evaluation order
const (
	ReasonNone       Reason = ""
	ReasonBlank      Reason = "blank"
	ReasonFields     Reason = "fields"
	ReasonUsed       Reason = "used"
	ReasonLength     Reason = "length"
	ReasonAnnotation Reason = "annotation"
	ReasonTrust      Reason = "trust"
	ReasonInexact    Reason = "inexact"
	ReasonContrast   Reason = "contrast"
)

// Reasons lists every rejection reason in evaluation order
func Reasons() []Reason {
	return []Reason{
		ReasonBlank,
		ReasonFields,
		ReasonUsed,
		ReasonLength,
		ReasonAnnotation,
		ReasonTrust,
		ReasonInexact,
		ReasonContrast,
	}
}

// Decision is the outcome for one line.
// Err is set only for records that do not follow the entity grammar
type Decision struct {
	Accepted bool
	Reason   Reason
	Phrase   string
	Label    string
	Record   entities.Record
	Err      error
}

// Filter applies Thresholds to records. It holds no per-record state
type Filter struct {
	th Thresholds
}

// New validates th and returns a Filter
func New(th Thresholds) (*Filter, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Filter{th: th}, nil
}

// Thresholds returns the thresholds in effect
func (f *Filter) Thresholds() Thresholds { return f.th }

// Decide runs the checks in order; the first failing one rejects
func (f *Filter) Decide(line string) Decision {
	if line == "" {
		return reject(ReasonBlank, entities.Record{}, nil)
	}

	rec, err := entities.Split(line)
	if err != nil {
		return reject(ReasonFields, rec, err)
	}

	used, err := rec.UsedCount()
	if err != nil {
		return reject(ReasonFields, rec, err)
	}
	if used < f.th.MinCount {
		return reject(ReasonUsed, rec, nil)
	}

	if entities.PhraseLen(rec.Phrase) < f.th.MinLen {
		return reject(ReasonLength, rec, nil)
	}

	best, err := entities.ParseAnnotation(rec.Best)
	if err != nil {
		return reject(ReasonAnnotation, rec, fieldErr(err, entities.FieldBest))
	}

	minTrust := f.th.MinTrust
	if best.IsExact {
		minTrust = f.th.MinTrustExact
	}
	if best.Trust < minTrust {
		return reject(ReasonTrust, rec, nil)
	}

	if f.th.ExactOnly && !best.IsExact {
		return reject(ReasonInexact, rec, nil)
	}

	if rec.HasRunnerUp {
		second, err := entities.ParseAnnotation(rec.RunnerUp)
		if err != nil {
			return reject(ReasonAnnotation, rec, fieldErr(err, entities.FieldRunnerUp))
		}
		if second.Trust >= best.Trust-f.th.MinContrast {
			return reject(ReasonContrast, rec, nil)
		}
	}

	return Decision{
		Accepted: true,
		Phrase:   rec.Phrase,
		Label:    best.Label,
		Record:   rec,
	}
}

func reject(r Reason, rec entities.Record, err error) Decision {
	return Decision{Reason: r, Phrase: rec.Phrase, Record: rec, Err: err}
}

func fieldErr(err error, field string) error {
	return perr.WithOp(perr.WithField(err, field), "decide")
}
