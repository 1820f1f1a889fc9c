package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures that reach the user as a notification.
type ErrorKind string

const (
	KindTimeout      ErrorKind = "timeout"
	KindNetwork      ErrorKind = "network"
	KindServer       ErrorKind = "server"
	KindNoArtifact   ErrorKind = "no_artifact"
	KindFetchFailed  ErrorKind = "fetch_failed"
	KindExportFailed ErrorKind = "export_failed"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrTimeout      = errors.New("request timed out")
	ErrNetwork      = errors.New("network error")
	ErrServer       = errors.New("server error")
	ErrNoArtifact   = errors.New("no artifact")
	ErrFetchFailed  = errors.New("fetch failed")
	ErrExportFailed = errors.New("export failed")
)

var sentinels = map[ErrorKind]error{
	KindTimeout:      ErrTimeout,
	KindNetwork:      ErrNetwork,
	KindServer:       ErrServer,
	KindNoArtifact:   ErrNoArtifact,
	KindFetchFailed:  ErrFetchFailed,
	KindExportFailed: ErrExportFailed,
}

// Error is a classified failure from the generation client or the export
// handler.
type Error struct {
	Kind    ErrorKind
	Op      string // e.g. "generate case study"
	Message string // Server-provided message, if any
	Status  int    // HTTP status for server errors
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = sentinels[e.Kind].Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// UserMessage turns an error into the single notification shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch e.Kind {
	case KindTimeout:
		return "Request timed out. Generation is taking longer than expected. Please try again."
	case KindNetwork:
		return "Unable to connect to the generation service. Please check that the server is running."
	case KindServer:
		if e.Message != "" {
			return e.Message
		}
		if e.Status != 0 {
			return fmt.Sprintf("Server error: %d", e.Status)
		}
		return "The generation service returned an unreadable response."
	case KindNoArtifact:
		return "Nothing to export yet. Generate an artifact first."
	case KindFetchFailed:
		return "Failed to download the image."
	case KindExportFailed:
		if e.Message != "" {
			return "Export failed: " + e.Message
		}
		return "Export failed."
	}
	return e.Error()
}
