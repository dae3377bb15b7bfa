// Package loader loads tidl programs from the filesystem for include
// resolution, with an in-memory LRU cache and an optional persistent
// SQLite store keyed by source fingerprint.
package loader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidl-lang/tidl/core/cache"
	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/core/idl"
	"github.com/tidl-lang/tidl/core/parser"
	"github.com/tidl-lang/tidl/core/resolve"
	"github.com/tidl-lang/tidl/internal/logging"
	"github.com/tidl-lang/tidl/internal/store"
)

// DefaultExtension is appended to include references written without one.
const DefaultExtension = ".tidl"

// Options configures a filesystem loader.
type Options struct {
	// SearchPaths are the directories tried in order for each include
	// reference. Empty means the current directory only.
	SearchPaths []string

	// FS overrides the filesystem, mainly for tests. Nil means the OS
	// filesystem, with absolute paths allowed.
	FS fs.FS

	// Cache holds parsed programs in memory. Nil disables it.
	Cache *cache.ProgramCache

	// Store persists parsed programs across runs. Nil disables it.
	Store *store.Store
}

// FSLoader resolves include references against search paths and parses the
// files they name. It implements resolve.Loader.
type FSLoader struct {
	opts Options
}

// New creates a filesystem loader.
func New(opts Options) *FSLoader {
	if len(opts.SearchPaths) == 0 {
		opts.SearchPaths = []string{"."}
	}
	return &FSLoader{opts: opts}
}

// Load resolves ref against the search paths and returns the parsed
// program. The reference may carry an extension or not; "user" and
// "user.tidl" name the same file.
func (l *FSLoader) Load(ctx context.Context, ref string) (*resolve.LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := l.locate(ref)
	if err != nil {
		return nil, err
	}
	return l.LoadPath(ctx, path)
}

// LoadPath parses the file at an already-resolved path, consulting the
// memory cache and the persistent store before parsing.
func (l *FSLoader) LoadPath(ctx context.Context, path string) (*resolve.LoadResult, error) {
	start := time.Now()

	src, err := l.readFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "read %s", path)
	}
	lines := parser.SplitLines(string(src))
	fp := idl.Fingerprint(lines)

	if l.opts.Cache != nil {
		if ent, ok := l.opts.Cache.Get(path); ok && idl.Fingerprint(ent.Lines) == fp {
			logging.ProgramLoaded(ctx, ent.Program.Name, path, true, time.Since(start))
			return &resolve.LoadResult{Path: path, Program: ent.Program, Lines: ent.Lines}, nil
		}
	}

	if l.opts.Store != nil {
		prog, ok, err := l.opts.Store.Get(ctx, fp, parser.ProgramName(path))
		if err != nil {
			logging.WarnContext(ctx, "program store read failed", "path", path, "error", err)
		} else if ok {
			l.remember(path, prog, lines)
			logging.ProgramLoaded(ctx, prog.Name, path, true, time.Since(start))
			return &resolve.LoadResult{Path: path, Program: prog, Lines: lines}, nil
		}
	}

	prog, err := parser.Parse(path, src)
	if err != nil {
		return nil, err
	}

	l.remember(path, prog, lines)
	if l.opts.Store != nil {
		if err := l.opts.Store.Put(ctx, fp, prog); err != nil {
			logging.WarnContext(ctx, "program store write failed", "path", path, "error", err)
		}
	}

	logging.ProgramLoaded(ctx, prog.Name, path, false, time.Since(start))
	return &resolve.LoadResult{Path: path, Program: prog, Lines: lines}, nil
}

func (l *FSLoader) remember(path string, prog *idl.ProgramType, lines []string) {
	if l.opts.Cache != nil {
		l.opts.Cache.Put(path, &cache.ProgramEntry{Program: prog, Lines: lines})
	}
}

// locate finds the file a reference names, trying each search path in
// order.
func (l *FSLoader) locate(ref string) (string, error) {
	name := ref
	if filepath.Ext(name) == "" {
		name += DefaultExtension
	}

	// Absolute references and explicit relative paths skip the search.
	if filepath.IsAbs(name) || strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") {
		if l.exists(name) {
			return name, nil
		}
		return "", errs.Wrapf(errs.ErrInvalidInput, "include %q not found", ref)
	}

	for _, dir := range l.opts.SearchPaths {
		candidate := filepath.Join(dir, name)
		if l.exists(candidate) {
			return candidate, nil
		}
	}
	return "", errs.Wrapf(errs.ErrInvalidInput,
		"include %q not found in search paths %v", ref, l.opts.SearchPaths)
}

func (l *FSLoader) exists(path string) bool {
	if l.opts.FS != nil {
		_, err := fs.Stat(l.opts.FS, fsPath(path))
		return err == nil
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (l *FSLoader) readFile(path string) ([]byte, error) {
	if l.opts.FS != nil {
		return fs.ReadFile(l.opts.FS, fsPath(path))
	}
	return os.ReadFile(path)
}

// fsPath normalizes an OS-style path for the io/fs API, which wants
// slash-separated paths without a leading "./".
func fsPath(path string) string {
	p := filepath.ToSlash(path)
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return "."
	}
	return p
}
