// Package errors provides the error definitions shared by remedy's I/O
// layers: loading analysis documents, rendering and validating plans,
// and serving plans over HTTP. The planning core itself never fails; it
// reports problems such as dependency cycles as diagnostics on the plan.
//
// # Error Types
//
// Domain-specific errors:
//   - InputError: an analysis document could not be read or decoded
//   - PlanError: a plan failed validation or could not be produced
//
// Semantic errors:
//   - NotFoundError: a file or task could not be found
//   - ValidationError: a field of the input or configuration is invalid
//
// # Usage
//
//	err := errors.NewInputError("decode failed", cause).WithPath("scan.yaml").WithFormat("yaml")
//
//	if errors.Is(err, errors.ErrInvalidInput) { ... }
//
//	var inputErr *errors.InputError
//	if errors.As(err, &inputErr) { ... }
//
// # Error Classification
//
// IsUserFacing reports whether an error message can be shown to the user
// as is. GetSeverity maps an error to a Severity for logging.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions so callers need only this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidInput indicates that an analysis document failed decoding or validation.
	ErrInvalidInput = New("invalid input")
	// ErrUnsupportedFormat indicates an input or output format remedy does not handle.
	ErrUnsupportedFormat = New("unsupported format")
	// ErrDependencyCycle indicates a circular dependency between tasks.
	ErrDependencyCycle = New("dependency cycle detected")
	// ErrPlanInvalid indicates that a plan failed validation.
	ErrPlanInvalid = New("plan is invalid")
	// ErrNotFound indicates that a file or task could not be found.
	ErrNotFound = New("not found")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// RemedyError is implemented by every typed error in this package.
type RemedyError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity {
	return e.severity
}

func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// format renders "<kind> [k=v, ...]: message: cause".
func (e *baseError) format(kind string, parts []string) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// InputError represents a failure to read or decode an analysis document.
// It always matches ErrInvalidInput.
//
// Example:
//
//	err := errors.NewInputError("decode failed", cause).WithPath("scan.json").WithFormat("json")
//	fmt.Println(err) // "input error [path=scan.json, format=json]: decode failed: ..."
type InputError struct {
	baseError
	Path   string
	Format string
}

// NewInputError creates a new InputError.
func NewInputError(message string, cause error) *InputError {
	return &InputError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the document path to the error context.
func (e *InputError) WithPath(path string) *InputError {
	e.Path = path
	return e
}

// WithFormat adds the document format to the error context.
func (e *InputError) WithFormat(format string) *InputError {
	e.Format = format
	return e
}

// Error returns the formatted error message.
func (e *InputError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Format != "" {
		parts = append(parts, fmt.Sprintf("format=%s", e.Format))
	}
	return e.format("input error", parts)
}

// Is checks if this error matches the target.
func (e *InputError) Is(target error) bool {
	if _, ok := target.(*InputError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// PlanError represents a plan that failed validation or could not be built.
//
// Example:
//
//	err := errors.NewPlanError("order violated", errors.ErrPlanInvalid).WithTaskID("task-3").WithPhase(2)
type PlanError struct {
	baseError
	TaskID string
	Phase  int
}

// NewPlanError creates a new PlanError.
func NewPlanError(message string, cause error) *PlanError {
	return &PlanError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithTaskID adds a task id to the error context.
func (e *PlanError) WithTaskID(id string) *PlanError {
	e.TaskID = id
	return e
}

// WithPhase adds a phase number to the error context. Zero means unset.
func (e *PlanError) WithPhase(phase int) *PlanError {
	e.Phase = phase
	return e
}

// WithSeverity sets the error severity.
func (e *PlanError) WithSeverity(s Severity) *PlanError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *PlanError) Error() string {
	var parts []string
	if e.TaskID != "" {
		parts = append(parts, fmt.Sprintf("task=%s", e.TaskID))
	}
	if e.Phase > 0 {
		parts = append(parts, fmt.Sprintf("phase=%d", e.Phase))
	}
	return e.format("plan error", parts)
}

// Is checks if this error matches the target.
func (e *PlanError) Is(target error) bool {
	if _, ok := target.(*PlanError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("input", "scan.json")
//	fmt.Println(err) // "input 'scan.json' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents an invalid field in a document or in the
// configuration. It always matches ErrInvalidInput.
//
// Example:
//
//	err := errors.NewValidationError("must be one of critical high medium low").
//		WithField("issues[3].severity").WithValue("urgent")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return e.format("validation error", parts)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end
// users: any error from this package, or a sentinel from this package
// wrapped with context.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var remedyErr RemedyError
	if As(err, &remedyErr) {
		return remedyErr.IsUserFacing()
	}

	for _, sentinel := range []error{ErrInvalidInput, ErrUnsupportedFormat, ErrPlanInvalid, ErrNotFound} {
		if Is(err, sentinel) {
			return true
		}
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement RemedyError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var remedyErr RemedyError
	if As(err, &remedyErr) {
		return remedyErr.Severity()
	}

	return SeverityError
}

// ValidationErrors collects every ValidationError in err, including those
// joined with errors.Join.
func ValidationErrors(err error) []*ValidationError {
	switch e := err.(type) {
	case nil:
		return nil
	case *ValidationError:
		return []*ValidationError{e}
	case interface{ Unwrap() []error }:
		var out []*ValidationError
		for _, inner := range e.Unwrap() {
			out = append(out, ValidationErrors(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return ValidationErrors(e.Unwrap())
	default:
		return nil
	}
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
// Unlike fmt.Errorf with %w, this returns nil for a nil error.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to write plan")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to load %s", path)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
