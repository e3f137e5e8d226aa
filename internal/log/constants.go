package log

// Attribute keys shared by slog records.
const (
	Args     = "args"
	Cmd      = "cmd"
	Dir      = "dir"
	Error    = "error"
	Event    = "event"
	Exited   = "exited"
	Hook     = "hook"
	HooksDir = "hooks_dir"
	Jobs     = "jobs"
	Label    = "label"
	Path     = "path"
	Running  = "running"
	RunID    = "run_id"
	Status   = "status"
	Stdin    = "stdin"
	Ungroup  = "ungroup"
)
