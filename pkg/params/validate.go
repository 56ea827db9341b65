package params

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
)

const (
	minServicePort = 1024
	maxServicePort = 65535

	minProjectIDLength = 6
	maxProjectIDLength = 30
)

var (
	namePattern      = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	projectIDPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`)
)

// ErrInvalidParameter is wrapped by every FieldError.
var ErrInvalidParameter = errors.New("invalid parameter")

// FieldError reports the first parameter that failed validation.
type FieldError struct {
	Field   string
	Value   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrInvalidParameter }

type fieldCheck struct {
	field string
	value func(Parameters) string
	check func(string) string
}

// checks run in this order; Validate stops at the first failure.
var checks = []fieldCheck{
	{ProjectName, func(p Parameters) string { return p.ProjectName }, checkName("Project name")},
	{ServiceName, func(p Parameters) string { return p.ServiceName }, checkName("Service name")},
	{ServicePort, func(p Parameters) string { return p.ServicePort }, checkPort},
	{GCPProjectID, func(p Parameters) string { return p.GCPProjectID }, checkProjectID},
}

// Validate checks project_name, service_name, service_port and
// gcp_project_id in that order and returns a *FieldError for the first
// malformed one. The failure is also logged for the user.
func Validate(p Parameters) error {
	slog.Info("validating template parameters")

	for _, c := range checks {
		v := c.value(p)
		if msg := c.check(v); msg != "" {
			slog.Error(msg, "field", c.field, "value", v)
			return &FieldError{Field: c.field, Value: v, Message: msg}
		}
	}

	slog.Info("all validations passed")
	return nil
}

func checkName(label string) func(string) string {
	return func(v string) string {
		if !namePattern.MatchString(v) {
			return label + " must start with a lowercase letter and contain only lowercase letters, numbers, and hyphens"
		}
		return ""
	}
}

func checkPort(v string) string {
	n, err := strconv.Atoi(v)
	if err != nil {
		return "Service port must be a number"
	}
	if n < minServicePort || n > maxServicePort {
		return fmt.Sprintf("Service port must be between %d and %d", minServicePort, maxServicePort)
	}
	return ""
}

func checkProjectID(v string) string {
	if !projectIDPattern.MatchString(v) {
		return "GCP project ID must start with a lowercase letter, contain only lowercase letters, numbers, and hyphens, and end with a letter or number"
	}
	if len(v) < minProjectIDLength || len(v) > maxProjectIDLength {
		return fmt.Sprintf("GCP project ID must be between %d and %d characters", minProjectIDLength, maxProjectIDLength)
	}
	return ""
}
