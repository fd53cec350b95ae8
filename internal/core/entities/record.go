package entities

import (
	"strconv"
	"strings"
	"unicode/utf8"

	perr "wikientities/internal/platform/errors"

	"golang.org/x/text/unicode/norm"
)

// MinFields is phrase, count, used and the best annotation
const MinFields = 4

// Field names used in diagnostics
const (
	FieldPhrase   = "phrase"
	FieldCount    = "count"
	FieldUsed     = "used"
	FieldBest     = "annotation1"
	FieldRunnerUp = "annotation2"
)

var required = [MinFields]string{FieldPhrase, FieldCount, FieldUsed, FieldBest}

// Record is a split input line. Nothing beyond the field split is validated here
type Record struct {
	Phrase   string
	Count    string
	Used     string
	Best     string
	RunnerUp string
	// HasRunnerUp is true whenever a fifth field exists, even an empty one
	HasRunnerUp bool
	Fields      []string
}

// Split breaks a line (without its newline) into a Record.
// Lines with fewer than MinFields tab-separated fields are malformed
func Split(line string) (Record, error) {
	fs := strings.Split(line, "\t")
	if len(fs) < MinFields {
		return Record{Fields: fs}, perr.WithField(
			perr.Malformedf("record has %d fields, want at least %d", len(fs), MinFields),
			required[len(fs)],
		)
	}
	r := Record{
		Phrase: fs[0],
		Count:  fs[1],
		Used:   fs[2],
		Best:   fs[3],
		Fields: fs,
	}
	if len(fs) > MinFields {
		r.RunnerUp = fs[4]
		r.HasRunnerUp = true
	}
	return r, nil
}

// UsedCount parses the used field as a base-10 integer
func (r Record) UsedCount() (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(r.Used), 10, 64)
	if err != nil {
		return 0, perr.WithField(perr.Wrapf(err, perr.ErrorCodeMalformed, "used %q is not an integer", r.Used), FieldUsed)
	}
	return n, nil
}

// PhraseLen counts code points of the NFC form, so a precomposed and a
// decomposed "é" have the same length
func PhraseLen(s string) int {
	if norm.NFC.IsNormalString(s) {
		return utf8.RuneCountInString(s)
	}
	return utf8.RuneCountInString(norm.NFC.String(s))
}
