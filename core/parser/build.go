package parser

import (
	"fmt"

	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/core/idl"
)

// build lowers a parsed document into the meta-model, attaching
// documentation and assigning field ids.
func build(name string, doc *document, lines []string) (*idl.ProgramType, error) {
	p := &idl.ProgramType{
		Name:          name,
		Documentation: programDoc(lines),
	}

	for _, stmt := range doc.Stmts {
		switch {
		case stmt.Namespace != nil:
			if p.Namespaces == nil {
				p.Namespaces = make(map[string]string)
			}
			p.Namespaces[stmt.Namespace.Lang] = stmt.Namespace.Name

		case stmt.Include != nil:
			if p.Includes == nil {
				p.Includes = make(map[string]string)
			}
			p.Includes[ProgramName(stmt.Include.Ref)] = stmt.Include.Ref

		case stmt.Typedef != nil:
			p.Declarations = append(p.Declarations, idl.NewTypedefDecl(&idl.TypedefType{
				Documentation: docAt(lines, stmt.Typedef.Pos.Line),
				Type:          stmt.Typedef.Type.String(),
				Name:          stmt.Typedef.Name,
			}))

		case stmt.Enum != nil:
			p.Declarations = append(p.Declarations, idl.NewEnumDecl(buildEnum(stmt.Enum, lines)))

		case stmt.Message != nil:
			m, err := buildMessage(stmt.Message, lines)
			if err != nil {
				return nil, err
			}
			p.Declarations = append(p.Declarations, idl.NewMessageDecl(m))

		case stmt.Service != nil:
			s, err := buildService(stmt.Service, lines)
			if err != nil {
				return nil, err
			}
			p.Declarations = append(p.Declarations, idl.NewServiceDecl(s))

		case stmt.Const != nil:
			p.Declarations = append(p.Declarations, idl.NewConstDecl(&idl.ConstType{
				Documentation: docAt(lines, stmt.Const.Pos.Line),
				Type:          stmt.Const.Type.String(),
				Name:          stmt.Const.Name,
				Value:         stmt.Const.Value.String(),
				Annotations:   buildAnnotations(stmt.Const.Annots),
			}))
		}
	}

	return p, nil
}

func buildEnum(e *enumStmt, lines []string) *idl.EnumType {
	out := &idl.EnumType{
		Documentation: docAt(lines, e.Pos.Line),
		Name:          e.Name,
		Annotations:   buildAnnotations(e.Annots),
	}
	for _, v := range e.Values {
		doc := ""
		if v.Pos.Line != e.Pos.Line {
			doc = docAt(lines, v.Pos.Line)
		}
		out.Values = append(out.Values, &idl.EnumValue{
			Documentation: doc,
			Name:          v.Name,
			Value:         v.Value,
			Annotations:   buildAnnotations(v.Annots),
		})
	}
	return out
}

func buildMessage(m *messageStmt, lines []string) (*idl.MessageType, error) {
	out := &idl.MessageType{
		Documentation: docAt(lines, m.Pos.Line),
		Variant:       messageVariant(m.Variant),
		Name:          m.Name,
		Implementing:  m.Implements,
		Annotations:   buildAnnotations(m.Annots),
	}
	fields, err := buildFields(variantScope(out), m.Fields, lines, m.Pos.Line)
	if err != nil {
		return nil, err
	}
	out.Fields = fields

	// Interface fields are never allocated ids; explicit ids are kept so
	// validation can reject them by name.
	if out.Variant != idl.VariantInterface {
		if err := idl.AssignFieldIDs(variantScope(out), out.Fields); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func buildService(s *serviceStmt, lines []string) (*idl.ServiceType, error) {
	out := &idl.ServiceType{
		Documentation: docAt(lines, s.Pos.Line),
		Name:          s.Name,
		Extends:       s.Extends,
		Annotations:   buildAnnotations(s.Annots),
	}
	for _, fn := range s.Funcs {
		ret := fn.Return.String()
		if ret == "void" {
			ret = ""
		}
		scope := "function " + s.Name + "." + fn.Name
		params, err := buildFields(scope, fn.Params, lines, fn.Pos.Line)
		if err != nil {
			return nil, err
		}
		throws, err := buildFields(scope, fn.Throws, lines, fn.Pos.Line)
		if err != nil {
			return nil, err
		}
		f := &idl.FunctionType{
			Documentation: docAt(lines, fn.Pos.Line),
			OneWay:        fn.OneWay,
			ReturnType:    ret,
			Name:          fn.Name,
			Params:        params,
			Exceptions:    throws,
			Annotations:   buildAnnotations(fn.Annots),
		}
		if err := idl.AssignFieldIDs(scope, f.Params); err != nil {
			return nil, err
		}
		if err := idl.AssignFieldIDs(scope, f.Exceptions); err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, f)
	}
	return out, nil
}

// buildFields lowers field definitions. ownerLine is the line the owning
// statement starts on; a field sitting on that same line takes no
// documentation, so an owner's doc comment never leaks onto its first
// inline field or parameter.
//
// Explicit ids must be positive. The model encodes "no explicit id" as
// ID == 0, so a written non-positive key has to be rejected here, while
// key presence is still known; letting 0 through would silently turn the
// field into an implicit one.
func buildFields(scope string, defs []*fieldDef, lines []string, ownerLine int) ([]*idl.FieldType, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	out := make([]*idl.FieldType, 0, len(defs))
	for _, d := range defs {
		if d.ID != nil && *d.ID < 1 {
			return nil, fmt.Errorf("field %q in %s: explicit id %d must be positive: %w",
				d.Name, scope, *d.ID, errs.ErrInvalidInput)
		}
		doc := ""
		if d.Pos.Line != ownerLine {
			doc = docAt(lines, d.Pos.Line)
		}
		f := &idl.FieldType{
			Documentation: doc,
			Requirement:   requirement(d.Req),
			Type:          d.Type.String(),
			Name:          d.Name,
			Annotations:   buildAnnotations(d.Annots),
		}
		if d.ID != nil {
			f.ID = *d.ID
		}
		if d.Default != nil {
			v := d.Default.String()
			f.Default = &v
		}
		out = append(out, f)
	}
	return out, nil
}

func buildAnnotations(list *annotList) idl.Annotations {
	if list == nil || len(list.Pairs) == 0 {
		return nil
	}
	out := make(idl.Annotations, len(list.Pairs))
	for _, pair := range list.Pairs {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

func requirement(req string) idl.Requirement {
	switch req {
	case "required":
		return idl.RequirementRequired
	case "optional":
		return idl.RequirementOptional
	default:
		return idl.RequirementDefault
	}
}

func messageVariant(kw string) idl.MessageVariant {
	switch kw {
	case "union":
		return idl.VariantUnion
	case "exception":
		return idl.VariantException
	case "interface":
		return idl.VariantInterface
	default:
		return idl.VariantStruct
	}
}

func variantScope(m *idl.MessageType) string {
	switch m.Variant {
	case idl.VariantUnion:
		return "union " + m.Name
	case idl.VariantException:
		return "exception " + m.Name
	default:
		return "struct " + m.Name
	}
}
