package services

import (
	"fmt"
	"net/mail"
	"strings"

	"taskkeeper/internal/common"
)

// Explicit validation functions invoked before anything is persisted. Every
// failure wraps common.ErrorValidation so callers can match the class.

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	return name, nil
}

func validateAge(age int64) error {
	if age < 0 {
		return fmt.Errorf("%w: age must not be negative", common.ErrorValidation)
	}
	return nil
}

// normalizeEmail trims and lowercases the address; the stored form is the
// login key and the one the uniqueness constraint sees.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	at := strings.LastIndex(email, "@")
	if !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 7 {
		return fmt.Errorf("%w: password must be at least 7 characters", common.ErrorValidation)
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return fmt.Errorf("%w: password must not contain \"password\"", common.ErrorValidation)
	}
	return nil
}

func validateDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("%w: description is required", common.ErrorValidation)
	}
	return description, nil
}

// checkAllowedFields rejects a partial update wholesale when it names any
// field outside the allowed set. Nothing is applied on failure.
func checkAllowedFields(fields map[string]any, allowed ...string) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", common.ErrorValidation)
	}
	for name := range fields {
		found := false
		for _, a := range allowed {
			if name == a {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: unknown field %q", common.ErrorValidation, name)
		}
	}
	return nil
}

func stringField(fields map[string]any, name string) (string, error) {
	v, ok := fields[name].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", common.ErrorValidation, name)
	}
	return v, nil
}

func boolField(fields map[string]any, name string) (bool, error) {
	v, ok := fields[name].(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean", common.ErrorValidation, name)
	}
	return v, nil
}

// intField accepts the numeric types a decoded JSON body or a direct caller
// may supply.
func intField(fields map[string]any, name string) (int64, error) {
	switch v := fields[name].(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%w: %s must be an integer", common.ErrorValidation, name)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrorValidation, name)
	}
}
