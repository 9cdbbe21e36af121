package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSource is returned when a browser is built without a page source.
	ErrNoSource = errors.New("tui: page source is required")
	// ErrInvalidChoice is returned when the driver reports an option index
	// outside the offered menu.
	ErrInvalidChoice = errors.New("tui: invalid menu choice")
)
