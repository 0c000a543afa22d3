package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Thresholds are the caller's personal comfort limits. Wind and humidex limits
// are fixed; see WindThresholdMS and HumidexThreshold.
type Thresholds struct {
	HotC   float64 `json:"hot_threshold_c" validate:"gte=15,lte=50"`
	ColdC  float64 `json:"cold_threshold_c" validate:"gte=-20,lte=25"`
	RainMM float64 `json:"rain_threshold_mm" validate:"gte=0,lte=20"`
}

// DefaultThresholds returns the out-of-the-box comfort limits.
func DefaultThresholds() Thresholds {
	return Thresholds{HotC: 30, ColdC: 10, RainMM: 5}
}

var validate = newValidator()

// newValidator reports field names by their JSON tag so error messages match
// the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate returns an error wrapping ErrInvalidThreshold when any threshold is
// outside its accepted range. NaN is always rejected.
func (t Thresholds) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s=%v violates %s=%s", ErrInvalidThreshold, fe.Field(), fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%w: %v", ErrInvalidThreshold, err)
}
