package wizard

import "errors"

var (
	// ErrAborted signals the user aborted input (Ctrl+C).
	ErrAborted = errors.New("wizard: aborted")
	// ErrMissingPrerequisite is returned when a step runs before the steps it depends on.
	ErrMissingPrerequisite = errors.New("wizard: previous step incomplete")
)
