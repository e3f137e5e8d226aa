package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

// ErrInvalidConfig wraps the validation errors that make Load fail.
var ErrInvalidConfig = errors.New("invalid configuration")

// Problem is a validation finding tied to a configuration key.
type Problem struct {
	Key     string
	Message string
}

func (p Problem) String() string {
	return p.Key + ": " + p.Message
}

// ValidationResults collects problems that stop a load (Errors) and problems
// that are only reported (Warnings).
type ValidationResults struct {
	Errors   []Problem
	Warnings []Problem
}

// HasErrors returns true if there are validation errors.
func (r ValidationResults) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns nil, or ErrInvalidConfig wrapped with every error.
func (r ValidationResults) Err() error {
	if !r.HasErrors() {
		return nil
	}
	msgs := lo.Map(r.Errors, func(p Problem, _ int) string { return p.String() })
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// WriteWarnings writes one "warning: " line per warning.
func (r ValidationResults) WriteWarnings(w io.Writer) {
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

func (r *ValidationResults) merge(other ValidationResults) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Validate checks the scalar settings and every hook declaration.
func (c *Config) Validate() ValidationResults {
	var result ValidationResults

	if c.Hook.Jobs < 0 {
		result.Errors = append(result.Errors, Problem{
			Key:     JobsKey,
			Message: fmt.Sprintf("must not be negative, got %d", c.Hook.Jobs),
		})
	}

	result.merge(ValidateHooks(c.Entries))

	return result
}
