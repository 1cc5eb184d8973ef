package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	// Duration probe failures.
	KindNotFound           Kind = "not_found"
	KindMalformedContainer Kind = "malformed_container"
	KindUnsupported        Kind = "unsupported"

	// Render controller failures.
	KindAlreadyRunning Kind = "already_running"
	KindInvalidInputs  Kind = "invalid_inputs"
	KindSpawnFailed    Kind = "spawn_failed"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindNotFound:
		return "File not found or not readable."
	case KindMalformedContainer:
		return "The video file header could not be read."
	case KindUnsupported:
		return "The video file does not record its duration."
	case KindAlreadyRunning:
		return "A render is already running."
	case KindInvalidInputs:
		return "Video, subtitle and output paths are all required."
	case KindSpawnFailed:
		return "Could not start ffmpeg. Check that it is installed and on PATH."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func NotFound(err error) error {
	return New(KindNotFound, "", err)
}

func MalformedContainer(err error) error {
	return New(KindMalformedContainer, "", err)
}

func Unsupported(err error) error {
	return New(KindUnsupported, "", err)
}

func AlreadyRunning() error {
	return New(KindAlreadyRunning, "", nil)
}

func InvalidInputs(safeMessage string) error {
	return New(KindInvalidInputs, safeMessage, nil)
}

func SpawnFailed(err error) error {
	return New(KindSpawnFailed, "", err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// IsProbeFailure reports whether err came from the duration probe.
// Probe failures never block a render.
func IsProbeFailure(err error) bool {
	kind, ok := KindOf(err)
	if !ok {
		return false
	}
	return kind == KindNotFound || kind == KindMalformedContainer || kind == KindUnsupported
}
