// Package validation checks settings before they are applied to a facade
// configuration.
//
// Struct tags cover single fields; the Validator collects rules that span
// several fields.
//
//	type RetrySettings struct {
//	    Kind     string `mapstructure:"kind" validate:"omitempty,oneof=none backoff polling breaker"`
//	    Attempts int    `mapstructure:"attempts" validate:"gte=0"`
//	}
//	err := validation.Validate(settings)
//
//	v := validation.New()
//	v.Custom(s.Timeout > 0 || s.Kind != "polling", "retry.timeout", "is required for polling")
//	err := v.Validate()
//
// Both report failures as INVALID_CONFIG AppErrors with the offending
// fields listed under the "fields" detail.
package validation
