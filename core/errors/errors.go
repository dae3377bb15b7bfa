// Package errors provides standardized error types and helpers for the tidl codebase.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrDuplicateID indicates a field or enum identifier collision
	ErrDuplicateID = errors.New("duplicate identifier")
	// ErrAllocationExhausted indicates the implicit field-id space ran out
	ErrAllocationExhausted = errors.New("field id allocation exhausted")
	// ErrInterfaceField indicates an interface field rule violation
	ErrInterfaceField = errors.New("interface field violation")
	// ErrMalformedUnion indicates a declaration union with zero or multiple variants set
	ErrMalformedUnion = errors.New("malformed declaration union")
	// ErrCircularInclude indicates an include cycle in a program graph
	ErrCircularInclude = errors.New("circular include")
	// ErrNameConflict indicates two includes claim one program name with different content
	ErrNameConflict = errors.New("program name conflict")
	// ErrLoaderFailure indicates the include loader could not produce a program
	ErrLoaderFailure = errors.New("loader failure")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// DuplicateFieldIDError reports a field id declared twice within one field list.
type DuplicateFieldIDError struct {
	Scope string // Containing message, function, or enum name
	Field string // Field name declaring the colliding id
	ID    int32  // The colliding id
}

func (e *DuplicateFieldIDError) Error() string {
	return fmt.Sprintf("duplicate field id %d on %q in %s", e.ID, e.Field, e.Scope)
}

func (e *DuplicateFieldIDError) Unwrap() error {
	return ErrDuplicateID
}

// AllocationExhaustedError reports that implicit field-id assignment ran below 1.
type AllocationExhaustedError struct {
	Scope string // Containing message or function name
	Field string // Field that could not be assigned an id
}

func (e *AllocationExhaustedError) Error() string {
	return fmt.Sprintf("no field id left for %q in %s", e.Field, e.Scope)
}

func (e *AllocationExhaustedError) Unwrap() error {
	return ErrAllocationExhausted
}

// InterfaceFieldHasIDError reports an explicit field id on an interface declaration.
type InterfaceFieldHasIDError struct {
	Interface string // Interface name
	Field     string // Field carrying the explicit id
	ID        int32  // The declared id
}

func (e *InterfaceFieldHasIDError) Error() string {
	return fmt.Sprintf("interface %s field %q must not declare field id %d", e.Interface, e.Field, e.ID)
}

func (e *InterfaceFieldHasIDError) Unwrap() error {
	return ErrInterfaceField
}

// InterfaceFieldMismatchError reports fields required by an implemented
// interface that are missing or differently typed on the implementing message.
type InterfaceFieldMismatchError struct {
	Message   string   // Implementing message name
	Interface string   // Interface named by the implements clause
	Fields    []string // Missing or mismatched field names
}

func (e *InterfaceFieldMismatchError) Error() string {
	return fmt.Sprintf("message %s does not satisfy interface %s: missing or mismatched fields %s",
		e.Message, e.Interface, strings.Join(e.Fields, ", "))
}

func (e *InterfaceFieldMismatchError) Unwrap() error {
	return ErrInterfaceField
}

// MalformedUnionError reports a declaration union with zero or more than one variant set.
type MalformedUnionError struct {
	Name  string // Name of the declaration, if any variant carries one
	Count int    // Number of variants set
}

func (e *MalformedUnionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("declaration %q has %d variants set, want exactly 1", e.Name, e.Count)
	}
	return fmt.Sprintf("declaration has %d variants set, want exactly 1", e.Count)
}

func (e *MalformedUnionError) Unwrap() error {
	return ErrMalformedUnion
}

// CircularIncludeError reports an include cycle, with the chain of program
// names that closed it.
type CircularIncludeError struct {
	Chain []string // Program names from the root to the repeated program
}

func (e *CircularIncludeError) Error() string {
	return fmt.Sprintf("circular include: %s", strings.Join(e.Chain, " -> "))
}

func (e *CircularIncludeError) Unwrap() error {
	return ErrCircularInclude
}

// NameConflictError reports two include references that claim the same
// program name but resolve to different content.
type NameConflictError struct {
	Name      string // Conflicting program name
	FirstPath string // Path the name was first resolved from
	OtherPath string // Path of the conflicting reference
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("program name %q resolved from both %s and %s with different content",
		e.Name, e.FirstPath, e.OtherPath)
}

func (e *NameConflictError) Unwrap() error {
	return ErrNameConflict
}

// LoaderError reports a failure to load an include reference.
type LoaderError struct {
	Ref   string   // Include reference as written in the source
	Chain []string // Program names from the root to the failing include
	Err   error    // Underlying error
}

func (e *LoaderError) Error() string {
	if len(e.Chain) > 0 {
		return fmt.Sprintf("load include %q (via %s): %v", e.Ref, strings.Join(e.Chain, " -> "), e.Err)
	}
	return fmt.Sprintf("load include %q: %v", e.Ref, e.Err)
}

// Unwrap exposes both the sentinel and the underlying error, so
// errors.Is(err, ErrLoaderFailure) holds regardless of the cause.
func (e *LoaderError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLoaderFailure}
	}
	return []error{ErrLoaderFailure, e.Err}
}

// ParseError represents a parsing error with source position context.
type ParseError struct {
	Path    string // File path, if applicable
	Line    int    // 1-based line, 0 when unknown
	Column  int    // 1-based column, 0 when unknown
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	default:
		return e.Message
	}
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
