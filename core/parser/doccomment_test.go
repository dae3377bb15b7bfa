package parser

import "testing"

func TestDocAtLineComments(t *testing.T) {
	lines := []string{
		"// First line.",
		"//   Second line.   ",
		"struct S {}",
	}
	want := "First line.\nSecond line."
	if got := docAt(lines, 3); got != want {
		t.Errorf("docAt = %q, want %q", got, want)
	}
}

func TestDocAtHashComments(t *testing.T) {
	lines := []string{
		"# Counted in seconds.",
		"const i32 TIMEOUT = 30",
	}
	if got := docAt(lines, 2); got != "Counted in seconds." {
		t.Errorf("docAt = %q", got)
	}
}

func TestDocAtStopsAtBlankLine(t *testing.T) {
	lines := []string{
		"// Unrelated banner.",
		"",
		"// Actual doc.",
		"struct S {}",
	}
	if got := docAt(lines, 4); got != "Actual doc." {
		t.Errorf("docAt = %q, want %q", got, "Actual doc.")
	}
}

func TestDocAtBlockComment(t *testing.T) {
	lines := []string{
		"/*",
		" * Stores one user.",
		" *   Indented detail stays.",
		" */",
		"struct User {}",
	}
	want := "Stores one user.\n  Indented detail stays."
	if got := docAt(lines, 5); got != want {
		t.Errorf("docAt = %q, want %q", got, want)
	}
}

func TestDocAtBlockReplacesLineComments(t *testing.T) {
	// A block comment immediately preceding the statement wins wholesale
	// over line comments above it.
	lines := []string{
		"// Stale note.",
		"/* Current doc. */",
		"struct S {}",
	}
	if got := docAt(lines, 3); got != "Current doc." {
		t.Errorf("docAt = %q, want %q", got, "Current doc.")
	}
}

func TestDocAtLineCommentsAfterBlock(t *testing.T) {
	// Line comments between the block and the statement mean the block is
	// not immediately preceding, so the line comments win.
	lines := []string{
		"/* Old block. */",
		"// New doc.",
		"struct S {}",
	}
	if got := docAt(lines, 3); got != "New doc." {
		t.Errorf("docAt = %q, want %q", got, "New doc.")
	}
}

func TestDocAtNoComment(t *testing.T) {
	lines := []string{
		"const i32 A = 1",
		"const i32 B = 2",
	}
	if got := docAt(lines, 2); got != "" {
		t.Errorf("docAt = %q, want empty", got)
	}
	if got := docAt(lines, 1); got != "" {
		t.Errorf("docAt on first line = %q, want empty", got)
	}
}

func TestProgramDocBlock(t *testing.T) {
	lines := []string{
		"/* Service definitions for the user subsystem. */",
		"",
		"struct User {}",
	}
	if got := programDoc(lines); got != "Service definitions for the user subsystem." {
		t.Errorf("programDoc = %q", got)
	}
}

func TestProgramDocLineRun(t *testing.T) {
	lines := []string{
		"// User subsystem.",
		"// Version 2.",
		"",
		"struct User {}",
	}
	if got := programDoc(lines); got != "User subsystem.\nVersion 2." {
		t.Errorf("programDoc = %q", got)
	}
}

func TestProgramDocAttachedToStatementInstead(t *testing.T) {
	// Without a separating blank line the comment belongs to the first
	// statement, not the program.
	lines := []string{
		"// Belongs to User.",
		"struct User {}",
	}
	if got := programDoc(lines); got != "" {
		t.Errorf("programDoc = %q, want empty", got)
	}
}

func TestProgramDocParsedEndToEnd(t *testing.T) {
	p := mustParse(t, `// The shared program.

// Only for Timestamp.
typedef i64 Timestamp
`)
	if p.Documentation != "The shared program." {
		t.Errorf("program Documentation = %q", p.Documentation)
	}
	if got := p.Declarations[0].Typedef.Documentation; got != "Only for Timestamp." {
		t.Errorf("typedef Documentation = %q", got)
	}
}
