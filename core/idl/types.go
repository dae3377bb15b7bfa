package idl

// types.go - Consolidated meta-model type definitions
// This file contains all core schema types used throughout tidl.
// Tools should import these types from core/idl rather than defining their own.

import "sort"

// Requirement represents the requiredness of a field.
type Requirement string

// Requirement constants.
const (
	RequirementDefault  Requirement = "DEFAULT"
	RequirementOptional Requirement = "OPTIONAL"
	RequirementRequired Requirement = "REQUIRED"
)

// validRequirements is the set of valid requirement values.
var validRequirements = map[Requirement]bool{
	RequirementDefault:  true,
	RequirementOptional: true,
	RequirementRequired: true,
}

// IsValid returns true if the requirement is valid.
func (r Requirement) IsValid() bool {
	return validRequirements[r]
}

// MessageVariant represents the kind of a message declaration.
type MessageVariant string

// Message variant constants.
const (
	VariantStruct    MessageVariant = "STRUCT"
	VariantUnion     MessageVariant = "UNION"
	VariantException MessageVariant = "EXCEPTION"
	VariantInterface MessageVariant = "INTERFACE"
)

// validVariants is the set of valid message variants.
var validVariants = map[MessageVariant]bool{
	VariantStruct:    true,
	VariantUnion:     true,
	VariantException: true,
	VariantInterface: true,
}

// IsValid returns true if the message variant is valid.
func (v MessageVariant) IsValid() bool {
	return validVariants[v]
}

// Decl is the base capability shared by every declaration entity.
type Decl interface {
	// DeclName returns the entity's name.
	DeclName() string

	// Doc returns the documentation attached by the parser, if any.
	Doc() string
}

// EnumValue represents a single named value within an enum.
type EnumValue struct {
	// Documentation is the comment text attached to this value (optional).
	Documentation string `json:"documentation,omitempty"`

	// Name is the value's identifier, unique within its enum.
	Name string `json:"name"`

	// Value is the explicit numeric id, if one was declared.
	Value *int32 `json:"value,omitempty"`

	// Annotations contains free-form metadata attached to this value.
	Annotations Annotations `json:"annotations,omitempty"`
}

// DeclName returns the enum value's name.
func (v *EnumValue) DeclName() string { return v.Name }

// Doc returns the enum value's documentation.
func (v *EnumValue) Doc() string { return v.Documentation }

// EnumType represents an enum declaration.
type EnumType struct {
	// Documentation is the comment text attached to this enum (optional).
	Documentation string `json:"documentation,omitempty"`

	// Name is the enum's identifier.
	Name string `json:"name"`

	// Values contains the enum's values in source order.
	Values []*EnumValue `json:"values,omitempty"`

	// Annotations contains free-form metadata attached to this enum.
	Annotations Annotations `json:"annotations,omitempty"`
}

// DeclName returns the enum's name.
func (e *EnumType) DeclName() string { return e.Name }

// Doc returns the enum's documentation.
func (e *EnumType) Doc() string { return e.Documentation }

// TypedefType represents a typedef declaration aliasing a type reference.
type TypedefType struct {
	// Documentation is the comment text attached to this typedef (optional).
	Documentation string `json:"documentation,omitempty"`

	// Type is the aliased type reference as written in source.
	Type string `json:"type"`

	// Name is the new type name.
	Name string `json:"name"`
}

// DeclName returns the typedef's name.
func (t *TypedefType) DeclName() string { return t.Name }

// Doc returns the typedef's documentation.
func (t *TypedefType) Doc() string { return t.Documentation }

// FieldType represents a field within a message, or a parameter or thrown
// exception within a function.
type FieldType struct {
	// Documentation is the comment text attached to this field (optional).
	Documentation string `json:"documentation,omitempty"`

	// ID is the numeric field identifier. Zero means unassigned; explicit
	// and allocator-assigned ids are in [1, 65535]. Interface fields keep
	// zero because interfaces are never instantiated.
	ID int32 `json:"id"`

	// Requirement is the field's requiredness.
	Requirement Requirement `json:"requirement"`

	// Type is the field's type reference as written in source.
	Type string `json:"type"`

	// Name is the field's identifier.
	Name string `json:"name"`

	// Default is the default value literal, if one was declared. Nil means
	// no default; a pointer to the empty string is a declared `= ""`.
	Default *string `json:"default,omitempty"`

	// Annotations contains free-form metadata attached to this field.
	Annotations Annotations `json:"annotations,omitempty"`
}

// DeclName returns the field's name.
func (f *FieldType) DeclName() string { return f.Name }

// Doc returns the field's documentation.
func (f *FieldType) Doc() string { return f.Documentation }

// MessageType represents a struct, union, exception, or interface declaration.
type MessageType struct {
	// Documentation is the comment text attached to this message (optional).
	Documentation string `json:"documentation,omitempty"`

	// Variant is the message kind.
	Variant MessageVariant `json:"variant"`

	// Name is the message's identifier.
	Name string `json:"name"`

	// Fields contains the message's fields in source order.
	Fields []*FieldType `json:"fields,omitempty"`

	// Implementing names the interface this message implements (optional).
	Implementing string `json:"implementing,omitempty"`

	// Annotations contains free-form metadata attached to this message.
	Annotations Annotations `json:"annotations,omitempty"`
}

// DeclName returns the message's name.
func (m *MessageType) DeclName() string { return m.Name }

// Doc returns the message's documentation.
func (m *MessageType) Doc() string { return m.Documentation }

// Field returns the field with the given name, or nil if absent.
func (m *MessageType) Field(name string) *FieldType {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FunctionType represents a single function within a service.
type FunctionType struct {
	// Documentation is the comment text attached to this function (optional).
	Documentation string `json:"documentation,omitempty"`

	// OneWay is true for fire-and-forget functions with no response.
	OneWay bool `json:"one_way,omitempty"`

	// ReturnType is the function's return type reference; empty means void.
	ReturnType string `json:"return_type,omitempty"`

	// Name is the function's identifier, unique within its service.
	Name string `json:"name"`

	// Params contains the function's parameters in source order.
	Params []*FieldType `json:"params,omitempty"`

	// Exceptions contains the function's declared thrown exceptions.
	Exceptions []*FieldType `json:"exceptions,omitempty"`

	// Annotations contains free-form metadata attached to this function.
	Annotations Annotations `json:"annotations,omitempty"`
}

// DeclName returns the function's name.
func (f *FunctionType) DeclName() string { return f.Name }

// Doc returns the function's documentation.
func (f *FunctionType) Doc() string { return f.Documentation }

// ServiceType represents a service declaration.
type ServiceType struct {
	// Documentation is the comment text attached to this service (optional).
	Documentation string `json:"documentation,omitempty"`

	// Name is the service's identifier.
	Name string `json:"name"`

	// Extends names the base service this service extends (optional).
	Extends string `json:"extends,omitempty"`

	// Functions contains the service's functions in source order.
	Functions []*FunctionType `json:"functions,omitempty"`

	// Annotations contains free-form metadata attached to this service.
	Annotations Annotations `json:"annotations,omitempty"`
}

// DeclName returns the service's name.
func (s *ServiceType) DeclName() string { return s.Name }

// Doc returns the service's documentation.
func (s *ServiceType) Doc() string { return s.Documentation }

// Function returns the function with the given name, or nil if absent.
func (s *ServiceType) Function(name string) *FunctionType {
	for _, f := range s.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ConstType represents a const declaration.
type ConstType struct {
	// Documentation is the comment text attached to this const (optional).
	Documentation string `json:"documentation,omitempty"`

	// Type is the const's type reference as written in source.
	Type string `json:"type"`

	// Name is the const's identifier.
	Name string `json:"name"`

	// Value is the const's value literal.
	Value string `json:"value"`

	// Annotations contains free-form metadata attached to this const.
	Annotations Annotations `json:"annotations,omitempty"`
}

// DeclName returns the const's name.
func (c *ConstType) DeclName() string { return c.Name }

// Doc returns the const's documentation.
func (c *ConstType) Doc() string { return c.Documentation }

// ProgramType represents one parsed source file.
type ProgramType struct {
	// Documentation is the file-level comment text (optional).
	Documentation string `json:"documentation,omitempty"`

	// Name is the program name, derived from the file name by the parser.
	Name string `json:"program_name"`

	// Includes maps included program names to the reference written in source.
	Includes map[string]string `json:"includes,omitempty"`

	// Namespaces maps target-language names to namespace identifiers.
	Namespaces map[string]string `json:"namespaces,omitempty"`

	// Declarations contains the program's declarations in source order.
	Declarations []*Declaration `json:"declarations,omitempty"`
}

// DeclName returns the program's name.
func (p *ProgramType) DeclName() string { return p.Name }

// Doc returns the program's documentation.
func (p *ProgramType) Doc() string { return p.Documentation }

// IncludeNames returns the included program names in ascending order.
func (p *ProgramType) IncludeNames() []string {
	names := make([]string, 0, len(p.Includes))
	for name := range p.Includes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NamespaceLanguages returns the namespace language keys in ascending order.
func (p *ProgramType) NamespaceLanguages() []string {
	langs := make([]string, 0, len(p.Namespaces))
	for lang := range p.Namespaces {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Message returns the message declaration with the given name, or nil.
func (p *ProgramType) Message(name string) *MessageType {
	for _, d := range p.Declarations {
		if d.Message != nil && d.Message.Name == name {
			return d.Message
		}
	}
	return nil
}
