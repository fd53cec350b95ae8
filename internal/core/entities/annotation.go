package entities

import (
	"regexp"
	"strconv"

	perr "wikientities/internal/platform/errors"
)

// trustPattern anchors on the trailing percentage; the label is everything before
// the first colon-separated integer run
var trustPattern = regexp.MustCompile(`^(.*?):[0-9:]+:([0-9]+):([0-9]+)%$`)

// Annotation is one parsed candidate classification of a phrase
type Annotation struct {
	Label   string
	IsExact bool
	Trust   float64
}

// ParseAnnotation matches s against the trust pattern.
// A non-matching field yields an ErrorCodeMalformed error
func ParseAnnotation(s string) (Annotation, error) {
	m := trustPattern.FindStringSubmatch(s)
	if m == nil {
		return Annotation{}, perr.Malformedf("annotation %q does not match trust pattern", s)
	}
	trust, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Annotation{}, perr.Wrapf(err, perr.ErrorCodeMalformed, "annotation %q has unusable trust", s)
	}
	return Annotation{
		Label:   m[1],
		IsExact: m[2] != "0",
		Trust:   trust,
	}, nil
}
