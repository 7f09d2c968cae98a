package tools

import (
	"errors"
	"fmt"
)

var (
	ErrMissingURL  = errors.New("URL parameter is required")
	ErrUnknownTool = errors.New("unknown tool")
)

// UnknownToolError is returned by Service.Call for names that aren't tools.
// It matches ErrUnknownTool with errors.Is.
type UnknownToolError struct {
	Name string
	// closest tool name, empty when nothing is close enough
	Suggestion string
}

func (e UnknownToolError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("Unknown method: %s", e.Name)
	}
	return fmt.Sprintf("Unknown method: %s (did you mean %s?)", e.Name, e.Suggestion)
}

func (e UnknownToolError) Unwrap() error {
	return ErrUnknownTool
}
