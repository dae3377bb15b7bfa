package parser

import "strings"

// docAt recovers the documentation for a statement starting at the 1-based
// stmtLine. Consecutive line comments immediately above the statement are
// concatenated with newlines, each line trimmed; a block comment ending
// immediately above the statement replaces any line comments wholesale.
func docAt(lines []string, stmtLine int) string {
	i := stmtLine - 2 // index of the line above the statement
	if i < 0 || i >= len(lines) {
		return ""
	}
	if strings.HasSuffix(strings.TrimSpace(lines[i]), "*/") {
		return blockDoc(lines, i)
	}

	var comments []string
	for ; i >= 0; i-- {
		text, ok := lineCommentText(lines[i])
		if !ok {
			break
		}
		comments = append([]string{text}, comments...)
	}
	return strings.Join(comments, "\n")
}

// lineCommentText returns the trimmed text of a pure line-comment line.
func lineCommentText(line string) (string, bool) {
	t := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(t, "//"):
		return strings.TrimSpace(t[2:]), true
	case strings.HasPrefix(t, "#"):
		return strings.TrimSpace(t[1:]), true
	default:
		return "", false
	}
}

// blockDoc extracts a block comment whose closing marker sits on the line
// with index end. Each content line loses its leading whitespace and,
// when present, the leading "*" plus one following space.
func blockDoc(lines []string, end int) string {
	start := end
	for start >= 0 && !strings.Contains(lines[start], "/*") {
		start--
	}
	if start < 0 {
		return ""
	}

	raw := strings.Join(lines[start:end+1], "\n")
	raw = raw[strings.Index(raw, "/*")+2:]
	raw = raw[:strings.LastIndex(raw, "*/")]

	var out []string
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.TrimLeft(ln, " \t")
		if strings.HasPrefix(ln, "*") {
			ln = strings.TrimPrefix(ln[1:], " ")
		}
		out = append(out, ln)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// programDoc extracts file-level documentation: a comment block starting on
// the first line and separated from what follows by a blank line. Anything
// else belongs to the first statement instead.
func programDoc(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	end := -1 // index of the last comment line of the leading block
	first := strings.TrimSpace(lines[0])
	switch {
	case strings.HasPrefix(first, "/*"):
		for i, ln := range lines {
			if strings.HasSuffix(strings.TrimSpace(ln), "*/") {
				end = i
				break
			}
		}
	case strings.HasPrefix(first, "//"), strings.HasPrefix(first, "#"):
		for i := 0; i < len(lines); i++ {
			if _, ok := lineCommentText(lines[i]); !ok {
				break
			}
			end = i
		}
	}

	if end < 0 || end+1 >= len(lines) || strings.TrimSpace(lines[end+1]) != "" {
		return ""
	}
	return docAt(lines, end+2)
}
