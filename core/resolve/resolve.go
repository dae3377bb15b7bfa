// Package resolve builds the transitive include graph of a tidl program.
//
// Resolution walks a root program's includes depth-first through a
// caller-supplied Loader, deduplicating by program name so that a program
// included from several places resolves to one shared ProgramMeta instance.
// The resulting graph is a DAG; cycles abort resolution with a
// CircularIncludeError naming the chain that closed the cycle.
//
// Independent include subtrees resolve concurrently. A mutex-guarded
// registry holds one in-flight computation per program name; concurrent
// requesters for the same name join that computation instead of invoking
// the loader twice.
package resolve

import (
	"context"

	"github.com/tidl-lang/tidl/core/idl"
)

// LoadResult is what a Loader produces for one include reference.
type LoadResult struct {
	// Path is the resolved file path.
	Path string

	// Program is the parsed program.
	Program *idl.ProgramType

	// Lines contains the verbatim source lines.
	Lines []string
}

// Loader resolves an include reference, as written in the source includes
// map, into a parsed program. Implementations perform the actual file
// access and parsing; resolution propagates their failures without retry.
type Loader interface {
	Load(ctx context.Context, ref string) (*LoadResult, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, ref string) (*LoadResult, error)

// Load calls fn.
func (fn LoaderFunc) Load(ctx context.Context, ref string) (*LoadResult, error) {
	return fn(ctx, ref)
}

// Resolve builds the full include graph for an already-parsed root program.
// The root's ProgramMeta carries no file path or source lines; use
// ResolveRef when the root should be loaded like any include.
func Resolve(ctx context.Context, root *idl.ProgramType, loader Loader) (*ProgramMeta, error) {
	r := newResolver(loader)
	return r.resolveRoot(ctx, &LoadResult{Program: root})
}

// ResolveRef loads the root program through the loader and then builds its
// include graph, so the root ProgramMeta has a path and source lines too.
func ResolveRef(ctx context.Context, ref string, loader Loader) (*ProgramMeta, error) {
	r := newResolver(loader)
	res, err := loader.Load(ctx, ref)
	if err != nil {
		return nil, wrapLoaderErr(ref, nil, err)
	}
	return r.resolveRoot(ctx, res)
}
