package idl

import (
	"fmt"

	errs "github.com/tidl-lang/tidl/core/errors"
)

// ValidationError represents a structural violation with model-path context.
type ValidationError struct {
	Path    string // Model path, e.g. "program.declarations[2].fields[0]"
	Message string // Human-readable description
	Err     error  // Underlying typed error, if any
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return errs.ErrInvalidInput
}

// newValidationError creates a new ValidationError.
func newValidationError(path, message string) error {
	return &ValidationError{Path: path, Message: message}
}

// wrapValidationError attaches a model path to a typed error.
func wrapValidationError(path string, err error) error {
	return &ValidationError{Path: path, Message: err.Error(), Err: err}
}

// ValidateProgram validates a ProgramType and returns all structural
// violations found, never stopping at the first. A malformed declaration
// union is reported as exactly one error for that declaration; its contents
// are not inspected further.
func ValidateProgram(p *ProgramType) []error {
	var errors []error

	if p.Name == "" {
		errors = append(errors, newValidationError("program", "program name is required"))
	}

	seen := make(map[string]bool)
	for i, d := range p.Declarations {
		path := fmt.Sprintf("program.declarations[%d]", i)

		if err := d.Check(); err != nil {
			errors = append(errors, wrapValidationError(path, err))
			continue
		}

		kind, decl := d.Kind()
		name := decl.DeclName()
		if name == "" {
			errors = append(errors, newValidationError(path, "declaration name is required"))
		} else if seen[name] {
			errors = append(errors, newValidationError(path,
				fmt.Sprintf("duplicate declaration name %q", name)))
		} else {
			seen[name] = true
		}

		switch kind {
		case KindEnum:
			errors = append(errors, validateEnum(path, d.Enum)...)
		case KindTypedef:
			errors = append(errors, validateTypedef(path, d.Typedef)...)
		case KindMessage:
			errors = append(errors, validateMessage(path, d.Message, p)...)
		case KindService:
			errors = append(errors, validateService(path, d.Service)...)
		case KindConst:
			errors = append(errors, validateConst(path, d.Const)...)
		}
	}

	return errors
}

// validateEnum checks value-name and explicit-id uniqueness within one enum.
func validateEnum(path string, e *EnumType) []error {
	var errors []error

	names := make(map[string]bool, len(e.Values))
	ids := make(map[int32]string, len(e.Values))
	for i, v := range e.Values {
		vpath := fmt.Sprintf("%s.values[%d]", path, i)
		if v.Name == "" {
			errors = append(errors, newValidationError(vpath, "enum value name is required"))
			continue
		}
		if names[v.Name] {
			errors = append(errors, newValidationError(vpath,
				fmt.Sprintf("duplicate enum value name %q in %s", v.Name, e.Name)))
		}
		names[v.Name] = true

		if v.Value != nil {
			if prev, ok := ids[*v.Value]; ok {
				errors = append(errors, newValidationError(vpath,
					fmt.Sprintf("enum value %q reuses id %d of %q", v.Name, *v.Value, prev)))
			} else {
				ids[*v.Value] = v.Name
			}
		}
	}
	return errors
}

func validateTypedef(path string, t *TypedefType) []error {
	var errors []error
	if t.Type == "" {
		errors = append(errors, newValidationError(path, "typedef type is required"))
	}
	return errors
}

// validateMessage applies the per-variant rules. It receives the whole
// program because the implements check resolves the interface name against
// every declaration in scope.
func validateMessage(path string, m *MessageType, p *ProgramType) []error {
	var errors []error

	if m.Variant != "" && !m.Variant.IsValid() {
		errors = append(errors, newValidationError(path,
			fmt.Sprintf("invalid message variant %q", m.Variant)))
	}

	scope := fmt.Sprintf("%s %s", variantNoun(m.Variant), m.Name)
	if m.Variant == VariantInterface {
		// Interfaces are never instantiated, so their fields carry no ids.
		for i, f := range m.Fields {
			if f.ID != 0 {
				errors = append(errors, wrapValidationError(
					fmt.Sprintf("%s.fields[%d]", path, i),
					&errs.InterfaceFieldHasIDError{Interface: m.Name, Field: f.Name, ID: f.ID}))
			}
		}
	} else {
		errors = append(errors, validateFieldIDs(path, scope, m.Fields)...)
	}

	if m.Implementing != "" {
		errors = append(errors, validateImplements(path, m, p)...)
	}

	return errors
}

// validateFieldIDs checks that every field id is assigned, in range, and
// unique within the list.
func validateFieldIDs(path, scope string, fields []*FieldType) []error {
	var errors []error

	ids := make(map[int32]bool, len(fields))
	for i, f := range fields {
		fpath := fmt.Sprintf("%s.fields[%d]", path, i)
		if f.ID < 1 || f.ID > MaxFieldID {
			errors = append(errors, newValidationError(fpath,
				fmt.Sprintf("field %q has id %d outside [1, %d]", f.Name, f.ID, MaxFieldID)))
			continue
		}
		if ids[f.ID] {
			errors = append(errors, wrapValidationError(fpath,
				&errs.DuplicateFieldIDError{Scope: scope, Field: f.Name, ID: f.ID}))
		}
		ids[f.ID] = true
	}
	return errors
}

// validateImplements checks the implements clause: the named declaration
// must be an interface-variant message, and the implementing message must
// carry every interface field with a matching name and type.
func validateImplements(path string, m *MessageType, p *ProgramType) []error {
	iface := p.Message(m.Implementing)
	if iface == nil {
		return []error{newValidationError(path,
			fmt.Sprintf("message %s implements unknown interface %q", m.Name, m.Implementing))}
	}
	if iface.Variant != VariantInterface {
		return []error{newValidationError(path,
			fmt.Sprintf("message %s implements %q, which is a %s, not an interface",
				m.Name, m.Implementing, variantNoun(iface.Variant)))}
	}

	var missing []string
	for _, want := range iface.Fields {
		got := m.Field(want.Name)
		if got == nil || got.Type != want.Type {
			missing = append(missing, want.Name)
		}
	}
	if len(missing) > 0 {
		return []error{wrapValidationError(path, &errs.InterfaceFieldMismatchError{
			Message:   m.Name,
			Interface: m.Implementing,
			Fields:    missing,
		})}
	}
	return nil
}

// validateService checks function-name uniqueness and each function's
// parameter and exception field lists.
func validateService(path string, s *ServiceType) []error {
	var errors []error

	names := make(map[string]bool, len(s.Functions))
	for i, fn := range s.Functions {
		fpath := fmt.Sprintf("%s.functions[%d]", path, i)
		if fn.Name == "" {
			errors = append(errors, newValidationError(fpath, "function name is required"))
		} else if names[fn.Name] {
			errors = append(errors, newValidationError(fpath,
				fmt.Sprintf("duplicate function name %q in service %s", fn.Name, s.Name)))
		} else {
			names[fn.Name] = true
		}

		scope := fmt.Sprintf("function %s.%s", s.Name, fn.Name)
		errors = append(errors, validateFieldIDs(fpath+".params", scope, fn.Params)...)
		errors = append(errors, validateFieldIDs(fpath+".exceptions", scope, fn.Exceptions)...)
	}
	return errors
}

func validateConst(path string, c *ConstType) []error {
	var errors []error
	if c.Type == "" {
		errors = append(errors, newValidationError(path, "const type is required"))
	}
	if c.Value == "" {
		errors = append(errors, newValidationError(path, "const value is required"))
	}
	return errors
}

// variantNoun returns the lower-case noun for a variant, for error messages.
func variantNoun(v MessageVariant) string {
	switch v {
	case VariantUnion:
		return "union"
	case VariantException:
		return "exception"
	case VariantInterface:
		return "interface"
	default:
		return "struct"
	}
}
