// Package errors provides structured error types for reelcheck operations.
package errors

import (
	"errors"
	"fmt"
)

// Kind represents the category of an error.
type Kind int

const (
	// KindRetrieval represents share-link retrieval failures.
	KindRetrieval Kind = iota
	// KindProbe represents metadata probe failures.
	KindProbe
	// KindDecode represents per-frame decode failures.
	KindDecode
	// KindOCRUnavailable represents a missing or unreachable OCR engine.
	KindOCRUnavailable
	// KindTimeout represents an exceeded job wall-clock budget.
	KindTimeout
	// KindCommand represents external command execution errors.
	KindCommand
	// KindJSONParse represents JSON parsing errors.
	KindJSONParse
	// KindNoVideoStream represents a probed file without a video stream.
	KindNoVideoStream
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindRetrieval:
		return "Retrieval error"
	case KindProbe:
		return "Probe error"
	case KindDecode:
		return "Decode error"
	case KindOCRUnavailable:
		return "OCR unavailable"
	case KindTimeout:
		return "Timeout"
	case KindCommand:
		return "Command error"
	case KindJSONParse:
		return "JSON parse error"
	case KindNoVideoStream:
		return "No video stream"
	case KindConfig:
		return "Configuration error"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// Stage identifies the pipeline stage an error originated from.
type Stage string

const (
	StageRetrieval Stage = "retrieval"
	StageTechnical Stage = "technical"
	StageContent   Stage = "content"
	StageReport    Stage = "report"
)

// Recoverable reports whether an error of this kind aborts only the unit of
// work it occurred in rather than the whole job. Decode errors skip one frame.
func (k Kind) Recoverable() bool {
	return k == KindDecode
}

// Error is the main error type for reelcheck operations.
type Error struct {
	Kind       Kind
	Stage      Stage
	Message    string
	Underlying error
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// NewRetrievalError creates a fatal retrieval error.
func NewRetrievalError(message string, underlying error) *Error {
	return &Error{Kind: KindRetrieval, Stage: StageRetrieval, Message: message, Underlying: underlying}
}

// NewProbeError creates a fatal metadata probe error.
func NewProbeError(message string, underlying error) *Error {
	return &Error{Kind: KindProbe, Stage: StageTechnical, Message: message, Underlying: underlying}
}

// NewDecodeError creates a recoverable per-frame decode error.
func NewDecodeError(timestamp float64, underlying error) *Error {
	return &Error{
		Kind:       KindDecode,
		Stage:      StageContent,
		Message:    fmt.Sprintf("failed to decode frame at %.2fs", timestamp),
		Underlying: underlying,
	}
}

// NewOCRUnavailableError creates an error for a missing OCR engine.
// It is fatal for the content stage only.
func NewOCRUnavailableError(message string, underlying error) *Error {
	return &Error{Kind: KindOCRUnavailable, Stage: StageContent, Message: message, Underlying: underlying}
}

// NewTimeoutError creates a whole-job timeout error.
func NewTimeoutError(stage Stage, underlying error) *Error {
	return &Error{Kind: KindTimeout, Stage: stage, Message: "analysis exceeded time budget", Underlying: underlying}
}

// NewJSONParseError creates a JSON parsing error.
func NewJSONParseError(message string, underlying error) *Error {
	return &Error{Kind: KindJSONParse, Message: message, Underlying: underlying}
}

// NewNoVideoStreamError creates an error for files without a video stream.
func NewNoVideoStreamError(path string) *Error {
	return &Error{
		Kind:    KindNoVideoStream,
		Stage:   StageTechnical,
		Message: fmt.Sprintf("no video stream found in %s", path),
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

// NewCancelledError creates an error for a cancelled job.
func NewCancelledError(stage Stage, underlying error) *Error {
	return &Error{Kind: KindCancelled, Stage: stage, Message: "operation cancelled", Underlying: underlying}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandWait means waiting for the command failed.
	CommandWait
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandWait:
		return fmt.Sprintf("failed to wait for %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *Error {
	cmdErr := &CommandError{Command: cmd, Kind: CommandStart, Underlying: err}
	return &Error{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandFailedError creates an error for a non-zero command exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *Error {
	cmdErr := &CommandError{Command: cmd, Kind: CommandFailed, ExitCode: exitCode, Stderr: stderr}
	return &Error{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}
