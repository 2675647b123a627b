package runner

// State is the configuration state of the Runner.
type State int32

const (
	// StateIdle means no request is configuring a run.
	StateIdle State = iota
	// StateConfiguring means a request is resetting and filling the run configuration.
	StateConfiguring
	// StateDispatched means the run was handed to the engine and is starting.
	StateDispatched
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfiguring:
		return "configuring"
	case StateDispatched:
		return "dispatched"
	default:
		return "unknown"
	}
}
