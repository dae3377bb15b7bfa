package loader

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/tidl-lang/tidl/core/cache"
	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/core/resolve"
	"github.com/tidl-lang/tidl/internal/store"
)

var schemaFS = fstest.MapFS{
	"root.tidl": &fstest.MapFile{Data: []byte(`
include "user.tidl"

struct Root {
  1: i32 id
}
`)},
	"user.tidl": &fstest.MapFile{Data: []byte(`
struct User {
  1: i64 id
  2: string name
}
`)},
	"shared/common.tidl": &fstest.MapFile{Data: []byte(`
enum Color {
  RED,
  GREEN,
}
`)},
}

func TestLoadParsesFile(t *testing.T) {
	l := New(Options{FS: schemaFS})

	res, err := l.Load(context.Background(), "user.tidl")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Program.Name != "user" {
		t.Errorf("Name = %q; want %q", res.Program.Name, "user")
	}
	if res.Path != "user.tidl" {
		t.Errorf("Path = %q; want %q", res.Path, "user.tidl")
	}
	if len(res.Lines) == 0 {
		t.Error("Lines should carry the source text")
	}
}

func TestLoadWithoutExtension(t *testing.T) {
	l := New(Options{FS: schemaFS})

	res, err := l.Load(context.Background(), "user")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Program.Name != "user" {
		t.Errorf("Name = %q; want %q", res.Program.Name, "user")
	}
}

func TestLoadSearchPaths(t *testing.T) {
	l := New(Options{FS: schemaFS, SearchPaths: []string{".", "shared"}})

	res, err := l.Load(context.Background(), "common")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Path != "shared/common.tidl" {
		t.Errorf("Path = %q; want %q", res.Path, "shared/common.tidl")
	}
}

func TestLoadMissingInclude(t *testing.T) {
	l := New(Options{FS: schemaFS})

	_, err := l.Load(context.Background(), "absent")
	if !errs.Is(err, errs.ErrInvalidInput) {
		t.Errorf("Load error = %v; want ErrInvalidInput", err)
	}
}

func TestLoadUsesMemoryCache(t *testing.T) {
	c := cache.NewDefaultProgramCache()
	l := New(Options{FS: schemaFS, Cache: c})
	ctx := context.Background()

	first, err := l.Load(ctx, "user")
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := l.Load(ctx, "user")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}

	if first.Program != second.Program {
		t.Error("second Load should return the cached program instance")
	}
	if hits := c.Stats().Hits; hits != 1 {
		t.Errorf("cache hits = %d; want 1", hits)
	}
}

func TestLoadUsesPersistentStore(t *testing.T) {
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	// One loader parses and persists, a second one with a cold memory
	// cache should hit the store.
	warm := New(Options{FS: schemaFS, Store: s})
	if _, err := warm.Load(ctx, "user"); err != nil {
		t.Fatalf("warm Load: %v", err)
	}
	n, err := s.Len(ctx)
	if err != nil {
		t.Fatalf("store.Len: %v", err)
	}
	if n != 1 {
		t.Errorf("store entries = %d; want 1", n)
	}

	cold := New(Options{FS: schemaFS, Store: s})
	res, err := cold.Load(ctx, "user")
	if err != nil {
		t.Fatalf("cold Load: %v", err)
	}
	if res.Program.Name != "user" {
		t.Errorf("Name = %q; want %q", res.Program.Name, "user")
	}
	if got := res.Program.Message("User"); got == nil {
		t.Error("stored program lost its User struct")
	}
}

func TestLoadStoreKeepsIdenticalFilesApart(t *testing.T) {
	content := []byte(`struct Thing {
  1: i32 id
}
`)
	fsys := fstest.MapFS{
		"a.tidl": &fstest.MapFile{Data: content},
		"b.tidl": &fstest.MapFile{Data: content},
	}
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	warm := New(Options{FS: fsys, Store: s})
	if _, err := warm.Load(ctx, "a"); err != nil {
		t.Fatalf("Load a: %v", err)
	}

	// b.tidl has the same bytes as a.tidl; a cold loader must not serve
	// a's stored program for it.
	cold := New(Options{FS: fsys, Store: s})
	res, err := cold.Load(ctx, "b")
	if err != nil {
		t.Fatalf("Load b: %v", err)
	}
	if res.Program.Name != "b" {
		t.Errorf("Name = %q; want %q", res.Program.Name, "b")
	}

	again, err := cold.Load(ctx, "a")
	if err != nil {
		t.Fatalf("Load a again: %v", err)
	}
	if again.Program.Name != "a" {
		t.Errorf("Name = %q; want %q", again.Program.Name, "a")
	}
}

func TestLoaderResolvesIncludeGraph(t *testing.T) {
	l := New(Options{FS: schemaFS, Cache: cache.NewDefaultProgramCache()})

	meta, err := resolve.ResolveRef(context.Background(), "root", l)
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	if meta.Name() != "root" {
		t.Errorf("root name = %q; want %q", meta.Name(), "root")
	}
	user := meta.Include("user")
	if user == nil {
		t.Fatal("root should include user")
	}
	if user.FilePath != "user.tidl" {
		t.Errorf("user path = %q; want %q", user.FilePath, "user.tidl")
	}
}

func TestLoadCanceledContext(t *testing.T) {
	l := New(Options{FS: schemaFS})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Load(ctx, "user"); err == nil {
		t.Error("Load should fail on a canceled context")
	}
}
