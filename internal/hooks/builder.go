package hooks

import (
	"log/slog"

	"github.com/yaklabco/hookrun/internal/log"
)

// BuildList collects the hooks for event: configured hooks in declaration
// order, each placed where it was last declared, followed by the executable
// hook from the hooks directory if there is one.
func (r *Runtime) BuildList(event string) *List {
	list := NewList()
	for _, name := range r.entries().EventHooks(event) {
		list.AppendOrMoveToTail(name)
	}
	if path, ok := r.Resolver().Find(event); ok {
		list.SetDefault(path)
	}

	slog.Debug("hook list built",
		slog.String(log.Event, event),
		slog.String(log.HooksDir, r.HooksDir),
		slog.Any(log.Hook, list.Names()))
	return list
}
