package error

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrorCategory classifies errors by who is expected to act on them.
type ErrorCategory int

const (
	// ErrCategoryUser covers invalid input from the caller: bad reader
	// configuration, a negative skip, a statement rejected by validation.
	ErrCategoryUser ErrorCategory = iota

	// ErrCategoryTransient covers failures that may succeed on retry, such as an
	// interrupted read from a pipe or network filesystem.
	ErrCategoryTransient

	// ErrCategorySystem covers environment problems: missing files, permission
	// errors, a source that fails to read.
	ErrCategorySystem

	// ErrCategoryData covers malformed input data, e.g. invalid UTF-8.
	ErrCategoryData
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryUser:
		return "user"
	case ErrCategoryTransient:
		return "transient"
	case ErrCategorySystem:
		return "system"
	case ErrCategoryData:
		return "data"
	default:
		return "unknown"
	}
}

// Error codes shared across packages.
const (
	CodeInvalidWindowConfig = "INVALID_WINDOW_CONFIG"
	CodeNegativeSkip        = "NEGATIVE_SKIP"
	CodeSourceReadFailed    = "SOURCE_READ_FAILED"
	CodeFileOpenFailed      = "FILE_OPEN_FAILED"
	CodeStatementInvalid    = "STATEMENT_INVALID"
)

// Error is a structured error carrying the operation and component that
// produced it.
type Error struct {
	// Code is a stable identifier such as INVALID_WINDOW_CONFIG.
	Code string

	Category ErrorCategory

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail describes this particular instance, e.g. the offending value.
	Detail string

	// Hint suggests how the caller might fix the problem.
	Hint string

	// Operation names what was being done: "NewReader", "NextToken", "SplitFile".
	Operation string

	// Component names where it happened: "Window", "Lexer", "Splitter", "CLI".
	Component string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is captured by New and Wrap.
	Stack []uintptr
}

// New creates a new Error with the specified code, category, and message.
func New(category ErrorCategory, code, message string) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Message:  message,
		Stack:    captureStack(),
	}
}

// Wrap wraps err with a code and the operation/component context. If err is
// already an *Error, the missing context is filled in and the same value is
// returned. Wrap(nil, ...) returns nil.
func Wrap(err error, code, operation, component string) *Error {
	if err == nil {
		return nil
	}

	if e, ok := err.(*Error); ok {
		if e.Operation == "" {
			e.Operation = operation
		}
		if e.Component == "" {
			e.Component = component
		}
		return e
	}

	return &Error{
		Code:      code,
		Category:  ErrCategorySystem,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
		Stack:     captureStack(),
	}
}

// WithDetail sets Detail and returns the receiver for chaining.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithHint sets Hint and returns the receiver for chaining.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// captureStack skips captureStack, New/Wrap and runtime.Callers itself.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

// Error formats as:
// [CODE] Message: Detail (operation: Operation, component: Component) caused by: cause
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s", e.Operation))
		if e.Component != "" {
			b.WriteString(fmt.Sprintf(", component: %s", e.Component))
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause so errors.Is and errors.As can see it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// FormatStack returns a human-readable stack trace.
func (e *Error) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n",
			f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}
