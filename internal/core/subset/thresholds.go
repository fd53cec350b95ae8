package subset

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "wikientities/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Thresholds are the knobs of the filter. Trust values are percentages
type Thresholds struct {
	// MinLen is the minimum phrase length in characters
	MinLen int `yaml:"minlen" validate:"gte=0"`
	// MinCount is the minimum value of the used field
	MinCount int64 `yaml:"mincount" validate:"gte=0"`
	// MinTrust applies when the best match is not exact
	MinTrust float64 `yaml:"mintrust" validate:"gte=0,lte=100"`
	// MinTrustExact applies when the best match is exact
	MinTrustExact float64 `yaml:"mintrustexact" validate:"gte=0,lte=100"`
	// ExactOnly drops phrases whose best match is not exact
	ExactOnly bool `yaml:"exactonly"`
	// MinContrast is the margin the runner-up must stay below the best trust
	MinContrast float64 `yaml:"mincontrast" validate:"gte=0,lte=100"`
}

// Defaults returns the stock thresholds
func Defaults() Thresholds {
	return Thresholds{
		MinLen:        3,
		MinCount:      50,
		MinTrust:      90,
		MinTrustExact: 80,
		ExactOnly:     true,
		MinContrast:   20,
	}
}

var (
	vOnce  sync.Once
	vInst  *validator.Validate
	vTrans ut.Translator
)

// validate returns the singleton validator with english translations and yaml tag names
func validate() (*validator.Validate, ut.Translator) {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("yaml")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vInst, vTrans = v, trans
	})
	return vInst, vTrans
}

// Validate checks ranges. The returned error is ErrorCodeValidation with the first
// offending threshold as its field
func (t Thresholds) Validate() error {
	v, trans := validate()
	err := v.Struct(t)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return perr.Wrap(err, perr.ErrorCodeValidation, "invalid thresholds")
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fe.Translate(trans))
	}
	return perr.WithField(
		perr.Validationf("invalid thresholds: %s", strings.Join(msgs, "; ")),
		ves[0].Field(),
	)
}
