package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Hook configuration keys. A hook declared in config is identified by a
// friendly name and bound to an event:
//
//	hook:
//	  lint:
//	    event: pre-commit
//	    command: golangci-lint run
const (
	HookSection  = "hook"
	EventField   = "event"
	CommandField = "command"

	// JobsKey is the scalar key holding the default number of parallel hooks.
	JobsKey = HookSection + ".jobs"
)

// knownGitHooks is the set of events git itself runs hooks for.
//
//nolint:gochecknoglobals // package-level lookup table
var knownGitHooks = map[string]bool{
	"applypatch-msg":        true,
	"pre-applypatch":        true,
	"post-applypatch":       true,
	"pre-commit":            true,
	"pre-merge-commit":      true,
	"prepare-commit-msg":    true,
	"commit-msg":            true,
	"post-commit":           true,
	"pre-rebase":            true,
	"post-checkout":         true,
	"post-merge":            true,
	"pre-push":              true,
	"pre-receive":           true,
	"update":                true,
	"proc-receive":          true,
	"post-receive":          true,
	"post-update":           true,
	"reference-transaction": true,
	"push-to-checkout":      true,
	"pre-auto-gc":           true,
	"post-rewrite":          true,
	"sendemail-validate":    true,
	"fsmonitor-watchman":    true,
	"p4-pre-submit":         true,
	"p4-changelist":         true,
	"p4-prepare-changelist": true,
	"p4-post-changelist":    true,
	"post-index-change":     true,
}

// IsKnownGitHook reports whether git runs hooks for event.
func IsKnownGitHook(event string) bool {
	return knownGitHooks[event]
}

// KnownGitHookNames returns every event git runs hooks for, in sorted order.
func KnownGitHookNames() []string {
	names := lo.Keys(knownGitHooks)
	sort.Strings(names)
	return names
}

// EventNames returns the distinct events hooks are declared for, in sorted
// order.
func (e *Entries) EventNames() []string {
	events := lo.Uniq(lo.FilterMap(e.All(), func(entry Entry, _ int) (string, bool) {
		if _, ok := hookName(entry.Key, EventField); !ok || entry.Value == "" {
			return "", false
		}
		return entry.Value, true
	}))
	sort.Strings(events)
	return events
}

// HookKey returns the configuration key for a field of a named hook.
func HookKey(name, field string) string {
	return HookSection + "." + name + "." + field
}

// hookName extracts <name> from keys of the form "hook.<name>.<field>".
func hookName(key, field string) (string, bool) {
	rest, ok := strings.CutPrefix(key, HookSection+".")
	if !ok {
		return "", false
	}
	name, ok := strings.CutSuffix(rest, "."+field)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// EventHooks returns the friendly names of hooks whose "hook.<name>.event"
// value equals event, once per matching key, in encounter order.
// Matching is exact and case-sensitive.
func (e *Entries) EventHooks(event string) []string {
	return lo.FilterMap(e.All(), func(entry Entry, _ int) (string, bool) {
		name, ok := hookName(entry.Key, EventField)
		if !ok || entry.Value != event {
			return "", false
		}
		return name, true
	})
}

// HookCommand returns the command configured for a named hook.
func (e *Entries) HookCommand(name string) (string, bool) {
	return e.Get(HookKey(name, CommandField))
}

// DeclaredHooks returns every friendly name that has an event or command
// field, in sorted order.
func (e *Entries) DeclaredHooks() []string {
	names := lo.Uniq(lo.FilterMap(e.All(), func(entry Entry, _ int) (string, bool) {
		if name, ok := hookName(entry.Key, EventField); ok {
			return name, true
		}
		return hookName(entry.Key, CommandField)
	}))
	sort.Strings(names)
	return names
}

// ValidateHooks checks hook declarations and returns any errors or warnings.
func ValidateHooks(entries *Entries) ValidationResults {
	var result ValidationResults

	for _, name := range entries.DeclaredHooks() {
		event, hasEvent := entries.Get(HookKey(name, EventField))
		command, hasCommand := entries.HookCommand(name)

		if hasEvent && strings.TrimSpace(event) == "" {
			result.Errors = append(result.Errors, Problem{
				Key:     HookKey(name, EventField),
				Message: "event name cannot be empty",
			})
		}

		// An event without a command only fails when the event fires.
		if hasEvent && !hasCommand {
			result.Warnings = append(result.Warnings, Problem{
				Key:     HookKey(name, CommandField),
				Message: fmt.Sprintf("hook %q is bound to %q but has no command", name, event),
			})
		}

		if hasCommand && strings.TrimSpace(command) == "" {
			result.Errors = append(result.Errors, Problem{
				Key:     HookKey(name, CommandField),
				Message: "command cannot be empty",
			})
		}
	}

	return result
}
