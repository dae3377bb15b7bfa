package idl

import (
	"fmt"

	errs "github.com/tidl-lang/tidl/core/errors"
)

// Field identifier bounds.
const (
	// ConstFieldID is the fixed field id for const declarations. Consts
	// bypass allocation entirely.
	ConstFieldID int32 = 0

	// MaxFieldID is the largest assignable field id, and the starting
	// cursor for implicit assignment.
	MaxFieldID int32 = 65535
)

// AssignFieldIDs assigns ids to every field in the list that lacks an
// explicit one, matching legacy textual-IDL semantics where an un-keyed
// field's id is inferred from position.
//
// Explicit ids (ID > 0) are validated first: each must lie in
// [1, MaxFieldID] and be unique within the list. Implicit fields (ID == 0)
// are then assigned in source order from a cursor starting at MaxFieldID,
// decrementing and skipping any id already claimed. Running below 1 is a
// fatal AllocationExhaustedError; it cannot happen for realistic inputs but
// is a reported error path, not undefined behavior.
//
// scope names the containing message or function for error reporting.
func AssignFieldIDs(scope string, fields []*FieldType) error {
	used := make(map[int32]bool, len(fields))
	for _, f := range fields {
		if f.ID == 0 {
			continue
		}
		if f.ID < 0 || f.ID > MaxFieldID {
			return fmt.Errorf("field %q in %s: id %d out of range [1, %d]: %w",
				f.Name, scope, f.ID, MaxFieldID, errs.ErrInvalidInput)
		}
		if used[f.ID] {
			return &errs.DuplicateFieldIDError{Scope: scope, Field: f.Name, ID: f.ID}
		}
		used[f.ID] = true
	}

	cursor := MaxFieldID
	for _, f := range fields {
		if f.ID != 0 {
			continue
		}
		for cursor >= 1 && used[cursor] {
			cursor--
		}
		if cursor < 1 {
			return &errs.AllocationExhaustedError{Scope: scope, Field: f.Name}
		}
		f.ID = cursor
		used[cursor] = true
		cursor--
	}
	return nil
}
