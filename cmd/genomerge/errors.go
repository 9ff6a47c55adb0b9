package main

import (
	"fmt"
	"os"
)

// UsageError reports a malformed invocation.
type UsageError struct {
	Message string
}

// Error implements the error interface
func (e *UsageError) Error() string {
	return e.Message
}

// MissingInputError reports an input path that does not exist.
type MissingInputError struct {
	Path string
}

// Error implements the error interface
func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input file '%s' does not exist", e.Path)
}

// Is implements errors.Is support
func (e *MissingInputError) Is(target error) bool {
	return target == os.ErrNotExist
}
