// Package env parses the environment values and assignments hookrun accepts.
package env

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

// ErrInvalidBool is returned when a string cannot be parsed as a boolean.
var ErrInvalidBool = errors.New("invalid boolean value")

// ErrInvalidAssignment is returned for an environment assignment that is not
// of the form KEY=VALUE with a non-empty KEY.
var ErrInvalidAssignment = errors.New("invalid environment assignment")

// ParseBool interprets a string as a boolean.
// It trims leading and trailing whitespace, then lowercases the value
// before matching.
//
// Accepted values (case-insensitive, after trimming):
//   - "true", "yes", "1"  -> true
//   - "false", "no", "0"  -> false
//   - "" (empty)          -> false, nil error
//   - any other non-empty -> false, ErrInvalidBool
func ParseBool(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}

	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBool, value)
	}
}

// LookupBool reads envVar and parses it with ParseBool. The second result is
// false when the variable is unset or empty.
func LookupBool(envVar string) (bool, bool, error) {
	value, ok := os.LookupEnv(envVar)
	if !ok || strings.TrimSpace(value) == "" {
		return false, false, nil
	}
	parsed, err := ParseBool(value)
	if err != nil {
		return false, true, fmt.Errorf("%s: %w", envVar, err)
	}
	return parsed, true, nil
}

const keyValueParts = 2 // Number of parts in a key=value pair.

// CheckAssignments verifies that every entry is KEY=VALUE. The value may be
// empty; the key may not.
func CheckAssignments(assignments []string) error {
	bad, found := lo.Find(assignments, func(item string) bool {
		parts := strings.SplitN(item, "=", keyValueParts)
		return len(parts) != keyValueParts || parts[0] == ""
	})
	if found {
		return fmt.Errorf("%w: %q", ErrInvalidAssignment, bad)
	}
	return nil
}
