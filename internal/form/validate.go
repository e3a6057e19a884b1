package form

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	msgNameRequired    = "Name is required."
	msgEmailRequired   = "Email is required."
	msgEmailInvalid    = "Email is not valid."
	msgMessageRequired = "Message is required."
	msgMessageTooShort = "Message must be at least 20 characters long."

	// minMessageLen applies to the raw value, not the trimmed one, so
	// leading whitespace counts toward the minimum.
	minMessageLen = 20
)

var emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[A-Za-z]{2,7}$`)

// ValidateField maps a field and its current raw value to an error message,
// or "" when the value passes. First matching rule wins. Pure and total.
func ValidateField(field Field, value string) string {
	switch field {
	case FieldName:
		if strings.TrimSpace(value) == "" {
			return msgNameRequired
		}
	case FieldEmail:
		if strings.TrimSpace(value) == "" {
			return msgEmailRequired
		}
		if !emailPattern.MatchString(value) {
			return msgEmailInvalid
		}
	case FieldMessage:
		if strings.TrimSpace(value) == "" {
			return msgMessageRequired
		}
		if utf8.RuneCountInString(value) < minMessageLen {
			return msgMessageTooShort
		}
	}
	return ""
}

// ValidateForm runs ValidateField over every field and collects the failures.
func ValidateForm(values Values) Errors {
	errs := Errors{}
	for field, value := range values {
		if msg := ValidateField(field, value); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}
