package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrDivideByZero   = NewError("divide by zero")
	ErrOperandType    = NewError("invalid operand type")
	ErrArgCount       = NewError("argument count mismatch")
	ErrNotCallable    = NewError("not callable")
	ErrUnknownMember  = NewError("unknown property or method")
	ErrIndexRange     = NewError("index out of range")
	ErrExprCompile    = NewError("expression compilation failed")
	ErrExprEvaluate   = NewError("expression evaluation failed")
	ErrDuplicateName  = NewError("name already registered")
	ErrInvalidPattern = NewError("invalid date pattern")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same message, so that
// values derived from a sentinel with Wrap or With still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Attrs returns the structured attributes attached to the error.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// ParseError reports malformed expression text, such as an unterminated
// string literal or unbalanced brackets.
type ParseError struct {
	Expr   string // The complete expression being evaluated
	Offset int    // Byte offset of the problem in Expr, or -1 if unknown
	Reason string
}

func newParseError(expr string, offset int, reason string) *ParseError {
	return &ParseError{Expr: expr, Offset: offset, Reason: reason}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString("parse error")

	if e.Offset >= 0 {
		sb.WriteString(" at offset ")
		sb.WriteString(strconv.Itoa(e.Offset))
	}

	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	sb.WriteString(" in ")
	sb.WriteString(strconv.Quote(e.Expr))

	if e.Offset >= 0 && e.Offset <= len(e.Expr) {
		sb.WriteString("\n  ")
		sb.WriteString(e.Expr)
		sb.WriteString("\n  ")
		sb.WriteString(strings.Repeat(" ", e.Offset))
		sb.WriteByte('^')
	}

	return sb.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Reason),
		slog.String("expr", e.Expr),
		slog.Int("offset", e.Offset),
	)
}

// ResolutionError reports a name that could not be resolved: an unknown
// static class or function, or a property or method missing from a value.
type ResolutionError struct {
	Expr        string   // The complete expression being evaluated
	Name        string   // The unresolved name
	Type        string   // Runtime type of the receiver, empty for statics
	Suggestions []string // Similar registered names, best match first
	Err         error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	var sb strings.Builder

	sb.WriteString("cannot resolve ")
	sb.WriteString(strconv.Quote(e.Name))

	if e.Type != "" {
		sb.WriteString(" on ")
		sb.WriteString(e.Type)
	}

	if e.Expr != "" && e.Expr != e.Name {
		sb.WriteString(" in ")
		sb.WriteString(strconv.Quote(e.Expr))
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString(" (did you mean ")
		sb.WriteString(strings.Join(e.Suggestions, ", "))
		sb.WriteString("?)")
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ResolutionError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *ResolutionError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", e.Name),
		slog.String("expr", e.Expr),
	}

	if e.Type != "" {
		attrs = append(attrs, slog.String("type", e.Type))
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	if len(e.Suggestions) > 0 {
		attrs = append(attrs, slog.Any("suggestions", e.Suggestions))
	}

	return slog.GroupValue(attrs...)
}
