package script

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/script/ast"
)

// SecurityError is returned when a resource path resolves outside of the
// permitted root. It always aborts the compile.
type SecurityError struct {
	Path string
	Root string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("path %q escapes the project root %q", e.Path, e.Root)
}

// UnsupportedError reports a line that matches no statement form.
type UnsupportedError struct {
	Text   string
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported statement %q: %s", e.Text, e.Reason)
	}
	return fmt.Sprintf("unsupported statement %q", e.Text)
}

func unsupported(text, format string, args ...interface{}) error {
	return &UnsupportedError{Text: text, Reason: fmt.Sprintf(format, args...)}
}

// Severity grades a Problem.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Problem is a recoverable error or a warning collected during a compile.
// Line is 1-based, 0 when the problem is not tied to a line.
type Problem struct {
	Line     int
	Severity Severity
	Err      error
}

func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", p.Line, p.Severity, p.Err)
	}
	return fmt.Sprintf("%s: %v", p.Severity, p.Err)
}

// IsFatal reports whether err must abort the whole compile.
func IsFatal(err error) bool {
	_, ok := errors.Cause(err).(*SecurityError)
	return ok
}

// IsParseError reports whether err was caused by a malformed expression.
func IsParseError(err error) bool {
	_, ok := errors.Cause(err).(*ast.ParseError)
	return ok
}

// IsUnsupported reports whether err was caused by an unrecognized statement.
func IsUnsupported(err error) bool {
	_, ok := errors.Cause(err).(*UnsupportedError)
	return ok
}
