package entity

import "fmt"

type ErrorKind string

const (
	KindInvalidInput    ErrorKind = "InvalidInput"
	KindTimeout         ErrorKind = "Timeout"
	KindElementNotFound ErrorKind = "ElementNotFound"
	KindNavigationError ErrorKind = "NavigationError"
	KindParseError      ErrorKind = "ParseError"
	KindUnknown         ErrorKind = "Unknown"
)

func (k ErrorKind) String() string {
	return string(k)
}

// ActionError is the failure descriptor of an action or a task run.
// Artifact is the path of the diagnostic screenshot, empty when none was saved.
type ActionError struct {
	Kind     ErrorKind
	Message  string
	Artifact string

	cause error
}

func NewActionError(kind ErrorKind, message string, cause error) *ActionError {
	if kind == "" {
		kind = KindUnknown
	}
	return &ActionError{
		Kind:    kind,
		Message: message,
		cause:   cause,
	}
}

func (e *ActionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ActionError) Unwrap() error {
	return e.cause
}

// WithArtifact returns a copy of e that references the given diagnostic file.
func (e *ActionError) WithArtifact(path string) *ActionError {
	cp := *e
	cp.Artifact = path
	return &cp
}
