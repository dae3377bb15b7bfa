package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDuplicateFieldIDError(t *testing.T) {
	err := &DuplicateFieldIDError{Scope: "struct User", Field: "age", ID: 2}
	want := `duplicate field id 2 on "age" in struct User`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrDuplicateID) {
		t.Error("DuplicateFieldIDError should unwrap to ErrDuplicateID")
	}
}

func TestAllocationExhaustedError(t *testing.T) {
	err := &AllocationExhaustedError{Scope: "struct Big", Field: "overflow"}
	if !errors.Is(err, ErrAllocationExhausted) {
		t.Error("AllocationExhaustedError should unwrap to ErrAllocationExhausted")
	}
}

func TestInterfaceFieldErrors(t *testing.T) {
	hasID := &InterfaceFieldHasIDError{Interface: "Shape", Field: "area", ID: 1}
	if !errors.Is(hasID, ErrInterfaceField) {
		t.Error("InterfaceFieldHasIDError should unwrap to ErrInterfaceField")
	}

	mismatch := &InterfaceFieldMismatchError{
		Message:   "Circle",
		Interface: "Shape",
		Fields:    []string{"area", "perimeter"},
	}
	want := "message Circle does not satisfy interface Shape: missing or mismatched fields area, perimeter"
	if got := mismatch.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(mismatch, ErrInterfaceField) {
		t.Error("InterfaceFieldMismatchError should unwrap to ErrInterfaceField")
	}
}

func TestMalformedUnionError(t *testing.T) {
	tests := []struct {
		name    string
		err     *MalformedUnionError
		wantMsg string
	}{
		{
			name:    "named",
			err:     &MalformedUnionError{Name: "Color", Count: 2},
			wantMsg: `declaration "Color" has 2 variants set, want exactly 1`,
		},
		{
			name:    "unnamed",
			err:     &MalformedUnionError{Count: 0},
			wantMsg: "declaration has 0 variants set, want exactly 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrMalformedUnion) {
				t.Error("MalformedUnionError should unwrap to ErrMalformedUnion")
			}
		})
	}
}

func TestCircularIncludeError(t *testing.T) {
	err := &CircularIncludeError{Chain: []string{"a", "b", "a"}}
	want := "circular include: a -> b -> a"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrCircularInclude) {
		t.Error("CircularIncludeError should unwrap to ErrCircularInclude")
	}
}

func TestNameConflictError(t *testing.T) {
	err := &NameConflictError{Name: "shared", FirstPath: "a/shared.tidl", OtherPath: "b/shared.tidl"}
	if !errors.Is(err, ErrNameConflict) {
		t.Error("NameConflictError should unwrap to ErrNameConflict")
	}
}

func TestLoaderError(t *testing.T) {
	underlying := fmt.Errorf("file does not exist")
	err := &LoaderError{Ref: "shared.tidl", Chain: []string{"root", "mid"}, Err: underlying}
	want := `load include "shared.tidl" (via root -> mid): file does not exist`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, underlying) {
		t.Error("LoaderError should unwrap to its underlying error")
	}
	if !errors.Is(err, ErrLoaderFailure) {
		t.Error("LoaderError with a cause should still unwrap to ErrLoaderFailure")
	}

	bare := &LoaderError{Ref: "missing.tidl"}
	if !errors.Is(bare, ErrLoaderFailure) {
		t.Error("LoaderError without cause should unwrap to ErrLoaderFailure")
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{Path: "user.tidl", Line: 3, Column: 7, Message: "unexpected token"}
	want := "user.tidl:3:7: unexpected token"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ParseError without cause should unwrap to ErrInvalidInput")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := errors.New("base")
	wrapped := Wrap(base, "context")
	if wrapped.Error() != "context: base" {
		t.Errorf("Wrap() = %q, want %q", wrapped.Error(), "context: base")
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base")
	}

	wrappedf := Wrapf(base, "op %s", "resolve")
	if wrappedf.Error() != "op resolve: base" {
		t.Errorf("Wrapf() = %q, want %q", wrappedf.Error(), "op resolve: base")
	}
}
