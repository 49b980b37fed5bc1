// Package errors provides sentinel errors and error types for chessboard-go.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrOutOfRange indicates a square coordinate outside [0,7].
	ErrOutOfRange = errors.New("square out of range")

	// ErrMalformedSave indicates persisted board text failed validation.
	ErrMalformedSave = errors.New("malformed save")

	// ErrIllegalMove indicates a move outside the piece's candidate set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidSquare indicates a square string that could not be parsed.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidName indicates a save name that cannot be mapped to a file.
	ErrInvalidName = errors.New("invalid save name")

	// ErrSaveNotFound indicates no save exists under the requested name.
	ErrSaveNotFound = errors.New("save not found")

	// ErrGameNotFound indicates an unknown game session id.
	ErrGameNotFound = errors.New("game not found")

	// ErrGameLimit indicates the configured session cap has been reached.
	ErrGameLimit = errors.New("too many open games")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SquareError wraps a range failure with the operation and the offending
// coordinates. It unwraps to ErrOutOfRange.
type SquareError struct {
	Op  string // The board operation, e.g. "get" or "set"
	Row int
	Col int
}

// Error returns a formatted error message.
func (e *SquareError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("(%d,%d): %v", e.Row, e.Col, ErrOutOfRange)
	}
	return fmt.Sprintf("%s (%d,%d): %v", e.Op, e.Row, e.Col, ErrOutOfRange)
}

// Unwrap returns ErrOutOfRange so errors.Is() matches the sentinel.
func (e *SquareError) Unwrap() error {
	return ErrOutOfRange
}

// ParseError represents a parsing error with file location context.
// It's used for save file parsing errors.
type ParseError struct {
	Err      error  // The underlying error
	File     string // Source file name
	Line     int    // Line number (1-based)
	Column   int    // Token number within the line (1-based)
	Expected string // What was expected (for syntax errors)
	Got      string // What was found instead
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	// Add file location
	loc := e.File
	if e.Line > 0 {
		if loc != "" {
			loc += ":"
		} else {
			loc = "line "
		}
		loc += fmt.Sprintf("%d", e.Line)
		if e.Column > 0 {
			loc += fmt.Sprintf(":%d", e.Column)
		}
	}
	if loc != "" {
		parts = append(parts, loc)
	}

	// Add expected/got context
	if e.Expected != "" && e.Got != "" {
		parts = append(parts, fmt.Sprintf("expected %s, got %s", e.Expected, e.Got))
	} else if e.Expected != "" {
		parts = append(parts, fmt.Sprintf("expected %s", e.Expected))
	} else if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %s", e.Got))
	}

	// Add underlying error
	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}

	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's chain matches target.
// It forwards to the standard library so callers need only one import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
