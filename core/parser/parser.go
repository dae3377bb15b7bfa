// Package parser turns tidl source text into the core/idl meta-model.
//
// The grammar is built with participle. Comments are elided by the lexer;
// documentation is recovered afterwards from the raw source lines using
// each statement's recorded position, so the comment-attachment contract
// (consecutive line comments concatenate, an immediately-preceding block
// comment replaces them) operates on the text itself.
package parser

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/core/idl"
)

// idlLexer defines the token rules for tidl source.
var idlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "BlockComment", Pattern: `(?s)/\*.*?\*/`},
	{Name: "LineComment", Pattern: `(//|#)[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Float", Pattern: `[-+]?\d+\.\d+([eE][-+]?\d+)?`},
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Punct", Pattern: `[{}()<>,;:=]`},
})

// document is the grammar root: any number of top-level statements.
type document struct {
	Stmts []*statement `@@*`
}

// statement is one top-level statement, dispatched on its leading keyword.
type statement struct {
	Namespace *namespaceStmt `  @@`
	Include   *includeStmt   `| @@`
	Typedef   *typedefStmt   `| @@`
	Enum      *enumStmt      `| @@`
	Message   *messageStmt   `| @@`
	Service   *serviceStmt   `| @@`
	Const     *constStmt     `| @@`
}

type namespaceStmt struct {
	Pos  lexer.Position
	Lang string `"namespace" @Ident`
	Name string `@Ident`
}

type includeStmt struct {
	Pos lexer.Position
	Ref string `"include" @String`
}

type typedefStmt struct {
	Pos  lexer.Position
	Type *typeRef `"typedef" @@`
	Name string   `@Ident`
}

type enumStmt struct {
	Pos    lexer.Position
	Name   string       `"enum" @Ident`
	Values []*enumValue `"{" @@* "}"`
	Annots *annotList   `@@?`
}

type enumValue struct {
	Pos    lexer.Position
	Name   string     `@Ident`
	Value  *int32     `( "=" @Int )?`
	Annots *annotList `@@? ( "," | ";" )?`
}

type messageStmt struct {
	Pos        lexer.Position
	Variant    string      `@( "struct" | "union" | "exception" | "interface" )`
	Name       string      `@Ident`
	Implements string      `( "implements" @Ident )?`
	Fields     []*fieldDef `"{" @@* "}"`
	Annots     *annotList  `@@?`
}

type fieldDef struct {
	Pos     lexer.Position
	ID      *int32     `( @Int ":" )?`
	Req     string     `@( "required" | "optional" )?`
	Type    *typeRef   `@@`
	Name    string     `@Ident`
	Default *literal   `( "=" @@ )?`
	Annots  *annotList `@@? ( "," | ";" )?`
}

type serviceStmt struct {
	Pos     lexer.Position
	Name    string         `"service" @Ident`
	Extends string         `( "extends" @Ident )?`
	Funcs   []*functionDef `"{" @@* "}"`
	Annots  *annotList     `@@?`
}

type functionDef struct {
	Pos    lexer.Position
	OneWay bool        `@"oneway"?`
	Return *typeRef    `@@`
	Name   string      `@Ident`
	Params []*fieldDef `"(" @@* ")"`
	Throws []*fieldDef `( "throws" "(" @@* ")" )?`
	Annots *annotList  `@@? ( "," | ";" )?`
}

type constStmt struct {
	Pos    lexer.Position
	Type   *typeRef   `"const" @@`
	Name   string     `@Ident`
	Value  *literal   `"=" @@`
	Annots *annotList `@@?`
}

// typeRef is a possibly parameterized type reference like map<string, i32>.
type typeRef struct {
	Name string     `@Ident`
	Args []*typeRef `( "<" @@ ( "," @@ )* ">" )?`
}

// String renders the reference the way the model stores it.
func (t *typeRef) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// literal is a scalar literal or identifier reference.
type literal struct {
	Str   *string `  @String`
	Float *string `| @Float`
	Int   *string `| @Int`
	Ident *string `| @Ident`
}

// String returns the literal's text.
func (l *literal) String() string {
	switch {
	case l.Str != nil:
		return *l.Str
	case l.Float != nil:
		return *l.Float
	case l.Int != nil:
		return *l.Int
	case l.Ident != nil:
		return *l.Ident
	default:
		return ""
	}
}

// annotList is a trailing (key = "value", ...) annotation suffix.
type annotList struct {
	Pairs []*annotPair `"(" @@ ( "," @@ )* ","? ")"`
}

type annotPair struct {
	Key   string `@Ident "="`
	Value string `@String`
}

// docParser is the participle parser for tidl documents.
var docParser = participle.MustBuild[document](
	participle.Lexer(idlLexer),
	participle.Elide("Whitespace", "LineComment", "BlockComment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse parses tidl source read from path. The program name is the file's
// base name without its extension.
func Parse(path string, src []byte) (*idl.ProgramType, error) {
	return parse(path, ProgramName(path), string(src))
}

// ParseString parses tidl source held in memory under the given program name.
func ParseString(name, src string) (*idl.ProgramType, error) {
	return parse(name, name, src)
}

func parse(path, name, src string) (*idl.ProgramType, error) {
	doc, err := docParser.ParseString(path, src)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			return nil, &errs.ParseError{
				Path:    path,
				Line:    pos.Line,
				Column:  pos.Column,
				Message: perr.Message(),
				Err:     err,
			}
		}
		return nil, &errs.ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return build(name, doc, SplitLines(src))
}

// ProgramName derives the program name from a file path or include
// reference: the base name with any extension removed.
func ProgramName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SplitLines splits source text into verbatim lines without terminators.
func SplitLines(src string) []string {
	return strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
}
