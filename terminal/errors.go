package terminal

import "errors"

var (
	// ErrNotTerminal is returned by Init when stdin is not attached to a tty
	ErrNotTerminal = errors.New("stdin is not a terminal")
	// ErrNotInitialized is returned by output calls made before Init
	ErrNotInitialized = errors.New("terminal not initialized")
	// ErrFinalized is returned by output calls made after Fini
	ErrFinalized = errors.New("terminal already finalized")
)
