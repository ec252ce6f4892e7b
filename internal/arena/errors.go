package arena

import "errors"

var (
	// ErrNotFound reports an unknown agent, event or history point id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition reports a state machine violation: starting a
	// non-pending event or resolving a non-active one.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrInvalidArgument reports malformed input such as a winning side other
	// than YES/NO or an empty update payload.
	ErrInvalidArgument = errors.New("invalid argument")
)
