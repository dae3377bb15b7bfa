// Package printer renders a program back to canonical tidl source.
//
// The output is deterministic: namespaces, includes, and annotation keys
// emit in ascending order, declarations in model order. Re-parsing the
// rendered text yields a structurally equal program, which is what tools
// like tidl fmt rely on.
package printer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidl-lang/tidl/core/idl"
)

// Render emits the canonical textual form of a program.
func Render(p *idl.ProgramType) string {
	var b strings.Builder

	if p.Documentation != "" {
		writeDoc(&b, "", p.Documentation)
		b.WriteString("\n")
	}

	for _, lang := range p.NamespaceLanguages() {
		fmt.Fprintf(&b, "namespace %s %s\n", lang, p.Namespaces[lang])
	}
	if len(p.Namespaces) > 0 {
		b.WriteString("\n")
	}

	for _, name := range p.IncludeNames() {
		fmt.Fprintf(&b, "include %q\n", p.Includes[name])
	}
	if len(p.Includes) > 0 {
		b.WriteString("\n")
	}

	for i, d := range p.Declarations {
		if i > 0 {
			b.WriteString("\n")
		}
		renderDeclaration(&b, d)
	}

	return b.String()
}

func renderDeclaration(b *strings.Builder, d *idl.Declaration) {
	switch kind, _ := d.Kind(); kind {
	case idl.KindEnum:
		renderEnum(b, d.Enum)
	case idl.KindTypedef:
		writeDoc(b, "", d.Typedef.Documentation)
		fmt.Fprintf(b, "typedef %s %s\n", d.Typedef.Type, d.Typedef.Name)
	case idl.KindMessage:
		renderMessage(b, d.Message)
	case idl.KindService:
		renderService(b, d.Service)
	case idl.KindConst:
		c := d.Const
		writeDoc(b, "", c.Documentation)
		fmt.Fprintf(b, "const %s %s = %s%s\n", c.Type, c.Name, literalToken(c.Value), annots(c.Annotations))
	}
}

func renderEnum(b *strings.Builder, e *idl.EnumType) {
	writeDoc(b, "", e.Documentation)
	fmt.Fprintf(b, "enum %s {\n", e.Name)
	for _, v := range e.Values {
		writeDoc(b, "  ", v.Documentation)
		b.WriteString("  " + v.Name)
		if v.Value != nil {
			fmt.Fprintf(b, " = %d", *v.Value)
		}
		b.WriteString(annots(v.Annotations) + ",\n")
	}
	b.WriteString("}" + annots(e.Annotations) + "\n")
}

func renderMessage(b *strings.Builder, m *idl.MessageType) {
	writeDoc(b, "", m.Documentation)
	b.WriteString(variantKeyword(m.Variant) + " " + m.Name)
	if m.Implementing != "" {
		b.WriteString(" implements " + m.Implementing)
	}
	b.WriteString(" {\n")
	for _, f := range m.Fields {
		writeDoc(b, "  ", f.Documentation)
		b.WriteString("  " + fieldText(f, m.Variant == idl.VariantInterface) + "\n")
	}
	b.WriteString("}" + annots(m.Annotations) + "\n")
}

func renderService(b *strings.Builder, s *idl.ServiceType) {
	writeDoc(b, "", s.Documentation)
	b.WriteString("service " + s.Name)
	if s.Extends != "" {
		b.WriteString(" extends " + s.Extends)
	}
	b.WriteString(" {\n")
	for _, fn := range s.Functions {
		writeDoc(b, "  ", fn.Documentation)
		b.WriteString("  " + functionText(fn) + "\n")
	}
	b.WriteString("}" + annots(s.Annotations) + "\n")
}

func functionText(fn *idl.FunctionType) string {
	var b strings.Builder
	if fn.OneWay {
		b.WriteString("oneway ")
	}
	ret := fn.ReturnType
	if ret == "" {
		ret = "void"
	}
	b.WriteString(ret + " " + fn.Name + "(")
	for i, p := range fn.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fieldText(p, false))
	}
	b.WriteString(")")
	if len(fn.Exceptions) > 0 {
		b.WriteString(" throws (")
		for i, e := range fn.Exceptions {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fieldText(e, false))
		}
		b.WriteString(")")
	}
	return b.String() + annots(fn.Annotations)
}

// fieldText renders one field. Interface fields carry no ids, so the key
// prefix is omitted for them.
func fieldText(f *idl.FieldType, iface bool) string {
	var b strings.Builder
	if !iface {
		fmt.Fprintf(&b, "%d: ", f.ID)
	}
	switch f.Requirement {
	case idl.RequirementRequired:
		b.WriteString("required ")
	case idl.RequirementOptional:
		b.WriteString("optional ")
	}
	b.WriteString(f.Type + " " + f.Name)
	if f.Default != nil {
		b.WriteString(" = " + literalToken(*f.Default))
	}
	return b.String() + annots(f.Annotations)
}

// annots renders an annotation suffix with keys in ascending order, or ""
// for an empty container.
func annots(a idl.Annotations) string {
	if len(a) == 0 {
		return ""
	}
	parts := make([]string, 0, len(a))
	a.Each(func(k, v string) {
		parts = append(parts, fmt.Sprintf("%s = %q", k, v))
	})
	return " (" + strings.Join(parts, ", ") + ")"
}

// writeDoc renders documentation as line comments at the given indent.
func writeDoc(b *strings.Builder, indent, doc string) {
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			b.WriteString(indent + "//\n")
			continue
		}
		b.WriteString(indent + "// " + line + "\n")
	}
}

var bareLiteral = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*|[-+]?\d+(\.\d+([eE][-+]?\d+)?)?)$`)

// literalToken renders a stored literal: identifiers and numbers stay bare,
// everything else is quoted so the emitted text re-parses to the same value.
func literalToken(s string) string {
	if bareLiteral.MatchString(s) {
		return s
	}
	return strconv.Quote(s)
}

func variantKeyword(v idl.MessageVariant) string {
	switch v {
	case idl.VariantUnion:
		return "union"
	case idl.VariantException:
		return "exception"
	case idl.VariantInterface:
		return "interface"
	default:
		return "struct"
	}
}
