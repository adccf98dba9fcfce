package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinThreads = 1
	MaxThreads = 20
)

const dateLayout = "2006-01-02"

func ValidateThreadCount(threads int) error {
	if threads < MinThreads || threads > MaxThreads {
		return fmt.Errorf("thread count must be between %d and %d, got %d", MinThreads, MaxThreads, threads)
	}
	return nil
}

// ValidateID checks that a resource id is a positive integer.
func ValidateID(resource string, id int) error {
	if id <= 0 {
		return fmt.Errorf("%s ID must be a positive integer, got %d", resource, id)
	}
	return nil
}

// ParseID parses and validates a resource id given on the command line.
func ParseID(resource, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID %q: must be a number", resource, raw)
	}
	if err := ValidateID(resource, id); err != nil {
		return 0, err
	}
	return id, nil
}

func ValidateNonEmptyString(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateChoice checks value against a closed set, case-sensitively.
func ValidateChoice(fieldName, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s (must be one of: %s)", fieldName, value, strings.Join(allowed, ", "))
}

// ValidateQuantity checks that value is a positive decimal number.
func ValidateQuantity(fieldName, value string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("%s must be a number, got %q", fieldName, value)
	}
	if f <= 0 {
		return fmt.Errorf("%s must be greater than zero, got %s", fieldName, value)
	}
	return nil
}

// ValidateAmount checks that value is a non-negative decimal number.
func ValidateAmount(fieldName, value string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("%s must be a number, got %q", fieldName, value)
	}
	if f < 0 {
		return fmt.Errorf("%s cannot be negative, got %s", fieldName, value)
	}
	return nil
}

// ValidateDate checks for a YYYY-MM-DD date. Empty is allowed.
func ValidateDate(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return fmt.Errorf("%s must be a date in YYYY-MM-DD format, got %q", fieldName, value)
	}
	return nil
}
