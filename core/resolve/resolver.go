package resolve

import (
	"context"
	"fmt"
	"sync"

	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/core/idl"
)

// resolver holds the state of one top-level resolution call.
//
// Resolution runs in two phases. The first loads the transitive include
// closure: one in-flight load per program name, all loads concurrent,
// later requesters joining the existing load instead of re-entering the
// loader. The second phase assembles the ProgramMeta graph from the loaded
// programs with a plain depth-first walk over program names, using a
// visiting set to reject cycles with the exact include chain. Keeping the
// graph walk sequential means a cycle can never deadlock two loads waiting
// on each other; the loader I/O is the part worth parallelizing.
type resolver struct {
	loader Loader

	mu       sync.Mutex
	loads    map[string]*load
	firstErr error
	wg       sync.WaitGroup
}

// load is the single in-flight (or finished) load for one program name.
type load struct {
	ref         string // include reference the name was first requested with
	res         *LoadResult
	fingerprint string
	err         error
	done        chan struct{}
}

func newResolver(loader Loader) *resolver {
	return &resolver{
		loader: loader,
		loads:  make(map[string]*load),
	}
}

func wrapLoaderErr(ref string, chain []string, err error) error {
	return &errs.LoaderError{Ref: ref, Chain: chain, Err: err}
}

// resolveRoot resolves the include graph below an already-loaded root.
func (r *resolver) resolveRoot(ctx context.Context, root *LoadResult) (*ProgramMeta, error) {
	if root.Program == nil || root.Program.Name == "" {
		return nil, fmt.Errorf("root program has no name: %w", errs.ErrInvalidInput)
	}
	name := root.Program.Name

	// Seed the registry with the root so an include chain leading back to
	// it is recognized, then load the closure.
	rootLoad := &load{
		ref:         root.Path,
		res:         root,
		fingerprint: idl.Fingerprint(root.Lines),
		done:        make(chan struct{}),
	}
	close(rootLoad.done)
	r.loads[name] = rootLoad

	r.requestIncludes(ctx, root.Program, []string{name})
	r.wg.Wait()

	r.mu.Lock()
	err := r.firstErr
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	a := &assembler{
		loads:     r.loads,
		visiting:  make(map[string]bool),
		completed: make(map[string]*ProgramMeta),
	}
	return a.assemble(name, nil)
}

// requestIncludes schedules a load for every include of p. chain is the
// include chain from the root to p, inclusive, for error reporting.
func (r *resolver) requestIncludes(ctx context.Context, p *idl.ProgramType, chain []string) {
	for _, name := range p.IncludeNames() {
		r.request(ctx, name, p.Includes[name], chain)
	}
}

// request joins or starts the load for one program name.
func (r *resolver) request(ctx context.Context, name, ref string, chain []string) {
	r.mu.Lock()
	l, ok := r.loads[name]
	if ok {
		r.mu.Unlock()
		if l.ref != ref {
			// A different reference claims an already-requested name;
			// verify both carry the same content.
			r.spawn(func() { r.verify(ctx, l, name, ref, chain) })
		}
		return
	}

	l = &load{ref: ref, done: make(chan struct{})}
	r.loads[name] = l
	r.mu.Unlock()

	r.spawn(func() { r.run(ctx, l, name, ref, chain) })
}

func (r *resolver) spawn(fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn()
	}()
}

// run performs the single load for name and schedules its includes.
func (r *resolver) run(ctx context.Context, l *load, name, ref string, chain []string) {
	defer close(l.done)

	res, err := r.loader.Load(ctx, ref)
	if err != nil {
		l.err = wrapLoaderErr(ref, chain, err)
		r.setErr(l.err)
		return
	}
	if res.Program == nil || res.Program.Name != name {
		got := ""
		if res.Program != nil {
			got = res.Program.Name
		}
		l.err = wrapLoaderErr(ref, chain,
			fmt.Errorf("loader returned program %q, want %q", got, name))
		r.setErr(l.err)
		return
	}

	l.res = res
	l.fingerprint = idl.Fingerprint(res.Lines)
	r.requestIncludes(ctx, res.Program, appendChain(chain, name))
}

// verify re-loads a conflicting reference and compares content. Identical
// content shares the already-loaded program; structurally different content
// is a name conflict, never a silent merge. Textually identical sources
// short-circuit on the line fingerprint; otherwise the canonical program
// hashes decide, so a root resolved from memory (no source lines) still
// verifies correctly.
func (r *resolver) verify(ctx context.Context, l *load, name, ref string, chain []string) {
	select {
	case <-l.done:
	case <-ctx.Done():
		r.setErr(ctx.Err())
		return
	}
	if l.err != nil {
		return
	}

	res, err := r.loader.Load(ctx, ref)
	if err != nil {
		r.setErr(wrapLoaderErr(ref, chain, err))
		return
	}
	if res.Program == nil {
		r.setErr(wrapLoaderErr(ref, chain, fmt.Errorf("loader returned no program")))
		return
	}
	if len(res.Lines) > 0 && idl.Fingerprint(res.Lines) == l.fingerprint {
		return
	}

	wantHash, err := idl.HashProgram(l.res.Program)
	if err != nil {
		r.setErr(err)
		return
	}
	gotHash, err := idl.HashProgram(res.Program)
	if err != nil {
		r.setErr(err)
		return
	}
	if wantHash != gotHash {
		r.setErr(&errs.NameConflictError{
			Name:      name,
			FirstPath: l.res.Path,
			OtherPath: res.Path,
		})
	}
}

func (r *resolver) setErr(err error) {
	r.mu.Lock()
	if r.firstErr == nil {
		r.firstErr = err
	}
	r.mu.Unlock()
}

// appendChain clones before appending so sibling goroutines never share a
// backing array.
func appendChain(chain []string, name string) []string {
	out := make([]string, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, name)
}

// assembler builds the shared ProgramMeta graph from loaded programs.
type assembler struct {
	loads     map[string]*load
	visiting  map[string]bool
	completed map[string]*ProgramMeta
}

// assemble returns the single ProgramMeta for name, creating it on first
// visit and sharing it afterwards. chain holds the names from the root to
// the current program's includer.
func (a *assembler) assemble(name string, chain []string) (*ProgramMeta, error) {
	if m, ok := a.completed[name]; ok {
		return m, nil
	}
	if a.visiting[name] {
		return nil, &errs.CircularIncludeError{Chain: appendChain(chain, name)}
	}
	a.visiting[name] = true

	l := a.loads[name]
	p := l.res.Program

	var includes map[string]*ProgramMeta
	if len(p.Includes) > 0 {
		includes = make(map[string]*ProgramMeta, len(p.Includes))
		for _, inc := range p.IncludeNames() {
			child, err := a.assemble(inc, appendChain(chain, name))
			if err != nil {
				return nil, err
			}
			includes[inc] = child
		}
	}

	meta := &ProgramMeta{
		FilePath:  l.res.Path,
		FileLines: l.res.Lines,
		Program:   p,
		Includes:  includes,
	}
	delete(a.visiting, name)
	a.completed[name] = meta
	return meta, nil
}
