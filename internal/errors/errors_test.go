package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// InputError Tests
// -----------------------------------------------------------------------------

func TestInputError_Error(t *testing.T) {
	cause := errors.New("unexpected EOF")
	tests := []struct {
		name string
		err  *InputError
		want string
	}{
		{
			name: "no context",
			err:  NewInputError("decode failed", nil),
			want: "input error: decode failed",
		},
		{
			name: "path only",
			err:  NewInputError("decode failed", cause).WithPath("scan.json"),
			want: "input error [path=scan.json]: decode failed: unexpected EOF",
		},
		{
			name: "path and format",
			err:  NewInputError("decode failed", cause).WithPath("scan.yaml").WithFormat("yaml"),
			want: "input error [path=scan.yaml, format=yaml]: decode failed: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInputError_Is(t *testing.T) {
	err := NewInputError("open failed", fs.ErrNotExist).WithPath("missing.json")

	if !Is(err, ErrInvalidInput) {
		t.Error("InputError should match ErrInvalidInput")
	}
	if !Is(err, fs.ErrNotExist) {
		t.Error("InputError should match its cause")
	}
	if Is(err, ErrPlanInvalid) {
		t.Error("InputError should not match ErrPlanInvalid")
	}

	wrapped := fmt.Errorf("plan command: %w", err)
	var inputErr *InputError
	if !As(wrapped, &inputErr) || inputErr.Path != "missing.json" {
		t.Errorf("As() did not recover the InputError, got %v", inputErr)
	}
}

// -----------------------------------------------------------------------------
// PlanError Tests
// -----------------------------------------------------------------------------

func TestPlanError(t *testing.T) {
	err := NewPlanError("task ordered before dependency", ErrPlanInvalid).
		WithTaskID("task-3").
		WithPhase(2).
		WithSeverity(SeverityCritical)

	want := "plan error [task=task-3, phase=2]: task ordered before dependency: plan is invalid"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrPlanInvalid) {
		t.Error("PlanError should match its cause")
	}
	if !Is(err, &PlanError{}) {
		t.Error("PlanError should match the PlanError type")
	}
	if GetSeverity(err) != SeverityCritical {
		t.Errorf("GetSeverity() = %v, want critical", GetSeverity(err))
	}
}

func TestPlanError_PhaseUnset(t *testing.T) {
	err := NewPlanError("cycle", ErrDependencyCycle).WithTaskID("a")
	want := "plan error [task=a]: cycle: dependency cycle detected"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("input", "scan.json")
	if got := err.Error(); got != "input 'scan.json' not found" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want warning", err.Severity())
	}

	withCause := NewNotFoundError("task", "t-9").WithCause(fs.ErrNotExist)
	if !Is(withCause, fs.ErrNotExist) {
		t.Error("NotFoundError should match its cause")
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "message only",
			err:  NewValidationError("document is empty"),
			want: "validation error: document is empty",
		},
		{
			name: "field and value",
			err:  NewValidationError("must be one of critical high medium low").WithField("issues[0].severity").WithValue("urgent"),
			want: "validation error [field=issues[0].severity, value=urgent]: must be one of critical high medium low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	err := NewValidationError("bad").WithField("x")
	if !Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
	if !Is(fmt.Errorf("ctx: %w", err), &ValidationError{}) {
		t.Error("wrapped ValidationError should match the ValidationError type")
	}
}

func TestValidationErrors(t *testing.T) {
	a := NewValidationError("a").WithField("a")
	b := NewValidationError("b").WithField("b")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{"plain error", errors.New("boom"), nil},
		{"single", a, []string{"a"}},
		{"joined", Join(a, b), []string{"a", "b"}},
		{"joined behind input error", NewInputError("invalid", Join(a, b)), []string{"a", "b"}},
		{"wrapped join", Wrap(Join(a, errors.New("x"), b), "ctx"), []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidationErrors(tt.err)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, v := range got {
				if v.Field != tt.want[i] {
					t.Errorf("[%d].Field = %q, want %q", i, v.Field, tt.want[i])
				}
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("internal"), false},
		{"input error", NewInputError("x", nil), true},
		{"validation error", NewValidationError("x"), true},
		{"wrapped sentinel", Wrap(ErrUnsupportedFormat, "format xml"), true},
		{"wrapped plan error", fmt.Errorf("ctx: %w", NewPlanError("x", nil)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"plain", errors.New("x"), SeverityError},
		{"validation", NewValidationError("x"), SeverityWarning},
		{"input", NewInputError("x", nil), SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Wrap Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	if Wrap(nil, "ctx") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "ctx %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}

	err := Wrapf(ErrNotFound, "load %s", "scan.json")
	if err.Error() != "load scan.json: not found" {
		t.Errorf("Wrapf() = %q", err.Error())
	}
	if !Is(err, ErrNotFound) {
		t.Error("Wrapf should preserve the chain")
	}
}
