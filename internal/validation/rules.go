// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/farmaggregator/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// FarmURL validates an absolute http(s) base URL with a host and no query or fragment.
var FarmURL = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false
		}
		return u.Host != "" && u.RawQuery == "" && u.Fragment == ""
	},
	validation.NewError("validation_farm_url", "must be an absolute http or https URL"),
)

// RedirectURI validates an absolute http(s) URL. Unlike FarmURL it may carry a query.
var RedirectURI = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	},
	validation.NewError("validation_redirect_uri", "must be an absolute http or https URL"),
)

// PositiveID validates that an int64 identifier is greater than zero.
var PositiveID = validation.By(func(value interface{}) error {
	id, ok := value.(int64)
	if !ok {
		return validation.NewError("validation_id_type", "must be an integer id")
	}
	if id <= 0 {
		return validation.NewError("validation_positive_id", "must be a positive id")
	}
	return nil
})
