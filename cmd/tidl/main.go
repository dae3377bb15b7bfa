// Command tidl is the CLI tool for tidl schemas.
// It provides commands for validating, resolving, formatting, and
// inspecting schema files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/tidl-lang/tidl/core/cache"
	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/core/idl"
	"github.com/tidl-lang/tidl/core/printer"
	"github.com/tidl-lang/tidl/core/resolve"
	"github.com/tidl-lang/tidl/internal/config"
	"github.com/tidl-lang/tidl/internal/fileutil"
	"github.com/tidl-lang/tidl/internal/loader"
	"github.com/tidl-lang/tidl/internal/logging"
	"github.com/tidl-lang/tidl/internal/store"
)

const version = "0.1.0"

// CLI defines the command-line interface for tidl.
var CLI struct {
	// Global flags
	Config     string   `help:"Config file path" type:"path"`
	SearchPath []string `name:"search-path" short:"I" help:"Include search directory (repeatable)"`
	StorePath  string   `name:"store" help:"Persistent program store path"`
	LogLevel   string   `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat  string   `name:"log-format" help:"Log format (text, json)"`

	Validate ValidateCmd `cmd:"" help:"Validate a schema and its declarations"`
	Resolve  ResolveCmd  `cmd:"" help:"Resolve the include graph of a schema"`
	Fmt      FmtCmd      `cmd:"" help:"Render a schema in canonical form"`
	Info     InfoCmd     `cmd:"" help:"Summarize a schema's contents"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// env carries the per-run wiring every command needs.
type env struct {
	ctx    context.Context
	runID  string
	loader *loader.FSLoader
	store  *store.Store
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
}

// newEnv merges the config file with global flags and builds the loader.
func newEnv() (*env, error) {
	cfg, err := config.LoadOrDefault(CLI.Config)
	if err != nil {
		return nil, err
	}
	if len(CLI.SearchPath) > 0 {
		cfg.SearchPaths = CLI.SearchPath
	}
	if CLI.StorePath != "" {
		cfg.StorePath = CLI.StorePath
	}
	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.LogFormat = CLI.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.InitLogger(cfg.LoggingLevel(), cfg.LoggingFormat())

	e := &env{runID: uuid.NewString()}
	e.ctx = logging.WithRunID(context.Background(), e.runID)

	cacheCfg := cache.DefaultConfig()
	if cfg.CacheSize > 0 {
		cacheCfg.MaxSize = cfg.CacheSize
	}
	opts := loader.Options{
		SearchPaths: cfg.SearchPaths,
		Cache:       cache.NewProgramCache(cacheCfg),
	}
	if cfg.StorePath != "" {
		s, err := store.Open(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		e.store = s
		opts.Store = s
	}
	e.loader = loader.New(opts)
	return e, nil
}

// ValidateCmd validates schema files.
type ValidateCmd struct {
	Paths    []string `arg:"" help:"Schema files to validate" type:"existingfile"`
	Includes bool     `help:"Also resolve and validate included schemas"`
	JSON     bool     `help:"Emit the report as JSON"`
}

// ValidationReport is the machine-readable validate output.
type ValidationReport struct {
	RunID    string            `json:"run_id"`
	Valid    bool              `json:"valid"`
	Programs []ProgramFindings `json:"programs"`
}

// ProgramFindings lists the validation errors of one program.
type ProgramFindings struct {
	Program string   `json:"program"`
	Path    string   `json:"path,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (c *ValidateCmd) Run() error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	report := ValidationReport{RunID: e.runID, Valid: true}
	record := func(prog *idl.ProgramType, path string) {
		findings := ProgramFindings{Program: prog.Name, Path: path}
		for _, verr := range idl.ValidateProgram(prog) {
			findings.Errors = append(findings.Errors, verr.Error())
			report.Valid = false
		}
		report.Programs = append(report.Programs, findings)
	}

	recorded := map[string]bool{}
	for _, arg := range c.Paths {
		res, err := e.loader.LoadPath(e.ctx, arg)
		if err != nil {
			return err
		}

		if !c.Includes {
			record(res.Program, arg)
			continue
		}
		meta, err := resolve.Resolve(e.ctx, res.Program, e.loader)
		if err != nil {
			logging.ResolveFailed(e.ctx, res.Program.Name, errorChain(err), err)
			return err
		}
		for _, m := range meta.Flatten() {
			if recorded[m.Name()] {
				continue
			}
			recorded[m.Name()] = true
			path := m.FilePath
			if m.Name() == res.Program.Name {
				path = arg
			}
			record(m.Program, path)
		}
	}

	if c.JSON {
		if err := emitJSON(report); err != nil {
			return err
		}
	} else {
		for _, p := range report.Programs {
			if len(p.Errors) == 0 {
				fmt.Printf("%s: ok\n", p.Program)
				continue
			}
			fmt.Printf("%s: %d error(s)\n", p.Program, len(p.Errors))
			for _, msg := range p.Errors {
				fmt.Printf("  %s\n", msg)
			}
		}
	}

	if !report.Valid {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// ResolveCmd resolves the include graph of a schema.
type ResolveCmd struct {
	Path string `arg:"" help:"Root schema file" type:"existingfile"`
	JSON bool   `help:"Emit the graph as JSON"`
}

// ResolveReport is the machine-readable resolve output.
type ResolveReport struct {
	RunID    string         `json:"run_id"`
	Root     string         `json:"root"`
	Programs []ProgramGraph `json:"programs"`
}

// ProgramGraph is one node of the flattened include graph.
type ProgramGraph struct {
	Program  string   `json:"program"`
	Path     string   `json:"path,omitempty"`
	Includes []string `json:"includes,omitempty"`
}

func (c *ResolveCmd) Run() error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	res, err := e.loader.LoadPath(e.ctx, c.Path)
	if err != nil {
		return err
	}
	meta, err := resolve.Resolve(e.ctx, res.Program, e.loader)
	if err != nil {
		logging.ResolveFailed(e.ctx, res.Program.Name, errorChain(err), err)
		return err
	}
	meta.FilePath = c.Path

	if c.JSON {
		report := ResolveReport{RunID: e.runID, Root: meta.Name()}
		for _, m := range meta.Flatten() {
			report.Programs = append(report.Programs, ProgramGraph{
				Program:  m.Name(),
				Path:     m.FilePath,
				Includes: includeNames(m),
			})
		}
		return emitJSON(report)
	}

	printTree(meta, "", map[string]bool{})
	return nil
}

// printTree renders the include graph with one node per line. A program
// appearing under several parents prints its subtree only once.
func printTree(m *resolve.ProgramMeta, indent string, seen map[string]bool) {
	label := m.Name()
	if m.FilePath != "" {
		label += " (" + m.FilePath + ")"
	}
	if seen[m.Name()] {
		fmt.Printf("%s%s ...\n", indent, label)
		return
	}
	seen[m.Name()] = true
	fmt.Printf("%s%s\n", indent, label)
	for _, name := range includeNames(m) {
		printTree(m.Includes[name], indent+"  ", seen)
	}
}

func includeNames(m *resolve.ProgramMeta) []string {
	if len(m.Includes) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.Includes))
	for name := range m.Includes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// errorChain extracts the include chain from a resolution error, if it
// carries one.
func errorChain(err error) []string {
	var cerr *errs.CircularIncludeError
	if errs.As(err, &cerr) {
		return cerr.Chain
	}
	var lerr *errs.LoaderError
	if errs.As(err, &lerr) {
		return lerr.Chain
	}
	return nil
}

// FmtCmd renders a schema in canonical form.
type FmtCmd struct {
	Path  string `arg:"" help:"Schema file to format" type:"existingfile"`
	Write bool   `short:"w" help:"Rewrite the file instead of printing"`
	Check bool   `help:"Exit non-zero when the file is not canonical"`
}

func (c *FmtCmd) Run() error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	src, err := os.ReadFile(c.Path)
	if err != nil {
		return errs.Wrapf(err, "read %s", c.Path)
	}
	prog, err := e.loader.LoadPath(e.ctx, c.Path)
	if err != nil {
		return err
	}
	out := printer.Render(prog.Program)

	switch {
	case c.Check:
		if out != string(src) {
			return fmt.Errorf("%s is not in canonical form", c.Path)
		}
	case c.Write:
		if out == string(src) {
			return nil
		}
		if err := fileutil.WriteFileAtomic(c.Path, []byte(out), 0o644); err != nil {
			return errs.Wrapf(err, "write %s", c.Path)
		}
	default:
		fmt.Print(out)
	}
	return nil
}

// InfoCmd summarizes a schema's contents.
type InfoCmd struct {
	Path string `arg:"" help:"Schema file to inspect" type:"existingfile"`
	JSON bool   `help:"Emit the summary as JSON"`
}

// InfoReport is the machine-readable info output.
type InfoReport struct {
	RunID        string         `json:"run_id"`
	Program      string         `json:"program"`
	Path         string         `json:"path"`
	Hash         string         `json:"hash"`
	Namespaces   []string       `json:"namespaces,omitempty"`
	Includes     []string       `json:"includes,omitempty"`
	Declarations map[string]int `json:"declarations"`
}

func (c *InfoCmd) Run() error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	res, err := e.loader.LoadPath(e.ctx, c.Path)
	if err != nil {
		return err
	}
	p := res.Program

	hash, err := idl.HashProgram(p)
	if err != nil {
		return err
	}
	report := InfoReport{
		RunID:        e.runID,
		Program:      p.Name,
		Path:         c.Path,
		Hash:         hash,
		Namespaces:   p.NamespaceLanguages(),
		Includes:     p.IncludeNames(),
		Declarations: map[string]int{},
	}
	for _, d := range p.Declarations {
		key := "malformed"
		if kind, _ := d.Kind(); kind != "" {
			key = strings.ToLower(string(kind))
		}
		report.Declarations[key]++
	}

	if c.JSON {
		return emitJSON(report)
	}

	fmt.Printf("program %s\n", p.Name)
	fmt.Printf("  path: %s\n", c.Path)
	fmt.Printf("  hash: %s\n", hash)
	if len(report.Namespaces) > 0 {
		fmt.Printf("  namespaces: %s\n", strings.Join(report.Namespaces, ", "))
	}
	if len(report.Includes) > 0 {
		fmt.Printf("  includes: %s\n", strings.Join(report.Includes, ", "))
	}
	kinds := make([]string, 0, len(report.Declarations))
	for kind := range report.Declarations {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("  %s: %d\n", kind, report.Declarations[kind])
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("tidl version %s (sqlite driver: %s)\n", version, store.DriverType())
	return nil
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tidl"),
		kong.Description("tidl - schema validation and include resolution"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
