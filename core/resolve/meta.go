package resolve

import (
	"sort"

	"github.com/tidl-lang/tidl/core/idl"
)

// ProgramMeta is a resolved program together with its raw source and its
// resolved include subgraph. A ProgramMeta owns its Program and FileLines;
// entries in Includes are shared with every other ProgramMeta that includes
// the same program, never duplicated. The graph is immutable once
// resolution returns.
type ProgramMeta struct {
	// FilePath is the path the program was loaded from; empty for a root
	// resolved from an in-memory ProgramType.
	FilePath string `json:"file_path,omitempty"`

	// FileLines contains the verbatim source lines.
	FileLines []string `json:"file_lines,omitempty"`

	// Program is the parsed program model.
	Program *idl.ProgramType `json:"program"`

	// Includes maps included program names to their shared ProgramMeta.
	Includes map[string]*ProgramMeta `json:"includes,omitempty"`
}

// Name returns the program name.
func (m *ProgramMeta) Name() string {
	if m.Program == nil {
		return ""
	}
	return m.Program.Name
}

// Include returns the resolved include with the given program name, or nil.
func (m *ProgramMeta) Include(name string) *ProgramMeta {
	return m.Includes[name]
}

// Flatten returns every distinct program in the graph, the receiver
// included, ordered by program name. Shared programs appear once.
func (m *ProgramMeta) Flatten() []*ProgramMeta {
	byName := make(map[string]*ProgramMeta)
	m.collect(byName)

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*ProgramMeta, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out
}

func (m *ProgramMeta) collect(byName map[string]*ProgramMeta) {
	if _, ok := byName[m.Name()]; ok {
		return
	}
	byName[m.Name()] = m
	for _, inc := range m.Includes {
		inc.collect(byName)
	}
}
