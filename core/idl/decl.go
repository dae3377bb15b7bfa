package idl

import (
	errs "github.com/tidl-lang/tidl/core/errors"
)

// DeclKind identifies which variant of a Declaration is set.
type DeclKind string

// Declaration kind constants.
const (
	KindEnum    DeclKind = "ENUM"
	KindTypedef DeclKind = "TYPEDEF"
	KindMessage DeclKind = "MESSAGE"
	KindService DeclKind = "SERVICE"
	KindConst   DeclKind = "CONST"
)

// Declaration is a discriminated union over the five top-level declaration
// kinds. Exactly one variant pointer must be set; construction goes through
// the New*Decl functions, and ValidateProgram reports any zero-set or
// multiple-set state as malformed.
type Declaration struct {
	Enum    *EnumType    `json:"decl_enum,omitempty"`
	Typedef *TypedefType `json:"decl_typedef,omitempty"`
	Message *MessageType `json:"decl_message,omitempty"`
	Service *ServiceType `json:"decl_service,omitempty"`
	Const   *ConstType   `json:"decl_const,omitempty"`
}

// NewEnumDecl wraps an enum in a Declaration.
func NewEnumDecl(e *EnumType) *Declaration { return &Declaration{Enum: e} }

// NewTypedefDecl wraps a typedef in a Declaration.
func NewTypedefDecl(t *TypedefType) *Declaration { return &Declaration{Typedef: t} }

// NewMessageDecl wraps a message in a Declaration.
func NewMessageDecl(m *MessageType) *Declaration { return &Declaration{Message: m} }

// NewServiceDecl wraps a service in a Declaration.
func NewServiceDecl(s *ServiceType) *Declaration { return &Declaration{Service: s} }

// NewConstDecl wraps a const in a Declaration.
func NewConstDecl(c *ConstType) *Declaration { return &Declaration{Const: c} }

// variants returns the set variant entities, in discriminant order.
func (d *Declaration) variants() []Decl {
	var set []Decl
	if d.Enum != nil {
		set = append(set, d.Enum)
	}
	if d.Typedef != nil {
		set = append(set, d.Typedef)
	}
	if d.Message != nil {
		set = append(set, d.Message)
	}
	if d.Service != nil {
		set = append(set, d.Service)
	}
	if d.Const != nil {
		set = append(set, d.Const)
	}
	return set
}

// Check verifies the exactly-one-set invariant, returning a
// MalformedUnionError when it is violated.
func (d *Declaration) Check() error {
	set := d.variants()
	if len(set) == 1 {
		return nil
	}
	name := ""
	if len(set) > 0 {
		name = set[0].DeclName()
	}
	return &errs.MalformedUnionError{Name: name, Count: len(set)}
}

// Kind returns the discriminant and the set entity. It returns "" and nil
// when the union is malformed; callers wanting the reason use Check.
func (d *Declaration) Kind() (DeclKind, Decl) {
	if d.Check() != nil {
		return "", nil
	}
	switch {
	case d.Enum != nil:
		return KindEnum, d.Enum
	case d.Typedef != nil:
		return KindTypedef, d.Typedef
	case d.Message != nil:
		return KindMessage, d.Message
	case d.Service != nil:
		return KindService, d.Service
	default:
		return KindConst, d.Const
	}
}

// Name returns the name of the set entity, or "" when the union is malformed.
func (d *Declaration) Name() string {
	_, decl := d.Kind()
	if decl == nil {
		return ""
	}
	return decl.DeclName()
}
