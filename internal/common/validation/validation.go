package validation

import (
	"fmt"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateURL validates URL format
func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}

// ValidateSubmissionInput checks the submission creation payload. Platform
// membership and the shortened-link check live with the Platform type; this
// covers the transport-level field requirements.
func ValidateSubmissionInput(name, email, propertyURL, platform string) *ValidationResult {
	errors := []ValidationError{}

	if strings.TrimSpace(name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "required field missing",
			Code:    "REQUIRED_FIELD_MISSING",
		})
	}
	if strings.TrimSpace(email) == "" {
		errors = append(errors, ValidationError{
			Field:   "email",
			Message: "required field missing",
			Code:    "REQUIRED_FIELD_MISSING",
		})
	} else if !ValidateEmail(email) {
		errors = append(errors, ValidationError{
			Field:   "email",
			Message: "invalid email format",
			Code:    "PATTERN_MISMATCH",
		})
	}
	if strings.TrimSpace(propertyURL) == "" {
		errors = append(errors, ValidationError{
			Field:   "propertyUrl",
			Message: "required field missing",
			Code:    "REQUIRED_FIELD_MISSING",
		})
	} else if !ValidateURL(propertyURL) {
		errors = append(errors, ValidationError{
			Field:   "propertyUrl",
			Message: "invalid URL format",
			Code:    "PATTERN_MISMATCH",
		})
	}
	if strings.TrimSpace(platform) == "" {
		errors = append(errors, ValidationError{
			Field:   "platform",
			Message: "required field missing",
			Code:    "REQUIRED_FIELD_MISSING",
		})
	}

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}
