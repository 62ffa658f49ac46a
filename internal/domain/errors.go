package domain

import (
	"errors"
	"fmt"

	"github.com/mouse-blink/pyintroduce/internal/domain/syntax"
	m "github.com/mouse-blink/pyintroduce/internal/model"
)

// ErrorKind classifies why an introduction could not be performed.
type ErrorKind string

const (
	KindNoValidExpression         ErrorKind = "NoValidExpressionAtSelection"
	KindReadOnlyTarget            ErrorKind = "ReadOnlyTarget"
	KindUnsupportedPartialLiteral ErrorKind = "UnsupportedPartialLiteralSelection"
	KindStaleTreeReference        ErrorKind = "StaleTreeReference"
	KindIntroduceInProgress       ErrorKind = "IntroduceInProgress"
	KindInvalidInitPlace          ErrorKind = "InvalidInitPlace"
	KindNoAcceptableName          ErrorKind = "NoAcceptableName"
	KindMalformedResult           ErrorKind = "MalformedResult"
	KindNoPendingChoice           ErrorKind = "NoPendingChoice"
)

// IntroduceError is returned for every recoverable refactoring failure. It
// matches any other IntroduceError of the same kind under errors.Is.
type IntroduceError struct {
	Kind    ErrorKind
	Message string
	Path    m.Path
	Offset  int
	Cause   error
}

func (e *IntroduceError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}

	if e.Path != "" {
		msg = fmt.Sprintf("%s@%d: %s", e.Path, e.Offset, msg)
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *IntroduceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an IntroduceError of the same kind.
func (e *IntroduceError) Is(target error) bool {
	var t *IntroduceError
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNoValidExpression         = &IntroduceError{Kind: KindNoValidExpression}
	ErrReadOnlyTarget            = &IntroduceError{Kind: KindReadOnlyTarget}
	ErrUnsupportedPartialLiteral = &IntroduceError{Kind: KindUnsupportedPartialLiteral}
	ErrStaleTreeReference        = &IntroduceError{Kind: KindStaleTreeReference}
	ErrIntroduceInProgress       = &IntroduceError{Kind: KindIntroduceInProgress}
	ErrInvalidInitPlace          = &IntroduceError{Kind: KindInvalidInitPlace}
	ErrNoAcceptableName          = &IntroduceError{Kind: KindNoAcceptableName}
	ErrMalformedResult           = &IntroduceError{Kind: KindMalformedResult}
	ErrNoPendingChoice           = &IntroduceError{Kind: KindNoPendingChoice}
)

func newError(kind ErrorKind, format string, args ...any) *IntroduceError {
	return &IntroduceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// treeError maps a tree failure into an IntroduceError. Stale handles become
// StaleTreeReference; anything else is a malformed result.
func treeError(err error) error {
	if err == nil {
		return nil
	}

	var ie *IntroduceError
	if errors.As(err, &ie) {
		return err
	}

	if errors.Is(err, syntax.ErrStale) || errors.Is(err, syntax.ErrDetached) {
		return &IntroduceError{Kind: KindStaleTreeReference, Message: "tree node was invalidated", Cause: err}
	}

	return &IntroduceError{Kind: KindMalformedResult, Message: "tree edit failed", Cause: err}
}
