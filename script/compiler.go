// Package script compiles ScratchLang source text into a project graph.
//
// A compile is one sequential pass over the preprocessed lines. Markers
// switch the current target, declarations register variables, lists and
// assets, event headers and procedure definitions start scripts whose bodies
// are compiled statement by statement. Lines that cannot be compiled are
// collected as Problems and skipped; only security errors abort.
package script

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/assets"
	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
	"github.com/scratchlang/slc/uuid"
)

type Diagnostic interface {
	CompileStarted(session, source string)
	CompileFinished(session, source string, targets, blocks, problems int, elapsed time.Duration)
	ProblemReported(session string, line int, severity string, err error)
}

// Assets loads the costumes and sounds named by declarations.
type Assets interface {
	AddImage(path string) (*assets.Asset, error)
	AddSound(path string) (*assets.Asset, error)
}

// FileReader is implemented by Assets that also read imported extension
// scripts. Other files are read from disk directly.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type options struct {
	source  string
	dir     string
	root    string
	assets  Assets
	diag    Diagnostic
	builder []project.Option
}

type Option func(*options)

// WithRoot sets the directory every referenced file must resolve into.
// It defaults to the directory of the source.
func WithRoot(dir string) Option {
	return func(o *options) {
		o.root = dir
	}
}

// WithDir sets the directory relative paths are resolved against.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithSource names the source in diagnostics.
func WithSource(name string) Option {
	return func(o *options) {
		o.source = name
	}
}

func WithAssets(a Assets) Option {
	return func(o *options) {
		o.assets = a
	}
}

func WithDiagnostic(d Diagnostic) Option {
	return func(o *options) {
		o.diag = d
	}
}

// WithBuilderOptions passes options to the project builder.
func WithBuilderOptions(opts ...project.Option) Option {
	return func(o *options) {
		o.builder = append(o.builder, opts...)
	}
}

// Result is the outcome of a compile that was not aborted.
type Result struct {
	Program  *project.Program
	Problems []Problem
	Session  uuid.UUID
}

// Errors returns the problems with error severity.
func (r *Result) Errors() []Problem {
	var errs []Problem
	for _, p := range r.Problems {
		if p.Severity == SeverityError {
			errs = append(errs, p)
		}
	}
	return errs
}

// CompileFile compiles the file at path. Relative paths in the source resolve
// against the directory of the file.
func CompileFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading source")
	}
	opts = append([]Option{WithDir(filepath.Dir(path)), WithSource(path)}, opts...)
	return Compile(ctx, src, opts...)
}

// Compile compiles source text. The returned error is non-nil only when the
// compile was aborted, by a security error or by the context.
func Compile(ctx context.Context, src []byte, opts ...Option) (*Result, error) {
	o := options{source: "<input>"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.diag == nil {
		o.diag = nopDiagnostic{}
	}
	if o.assets == nil {
		o.assets = assets.NewManager(assets.NewConfig(), nil)
	}
	c, err := newCompiler(o)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.diag.CompileStarted(c.session.String(), o.source)
	if err := c.run(ctx, string(src)); err != nil {
		return nil, err
	}
	p := c.builder.Build()
	blocks := 0
	for _, t := range p.Targets {
		blocks += t.Len()
	}
	c.diag.CompileFinished(c.session.String(), o.source, len(p.Targets), blocks, len(c.problems), time.Since(start))
	return &Result{
		Program:  p,
		Problems: c.problems,
		Session:  c.session,
	}, nil
}

type compiler struct {
	builder *project.Builder
	assets  Assets
	diag    Diagnostic
	session uuid.UUID

	dir  string
	root string

	lines []string
	// inline holds the code of each inline code block by placeholder number.
	inline map[int]string
	// procs holds the procedures of each target by target name.
	procs map[string]map[string]*procedure

	current  *project.Target
	problems []Problem
}

func newCompiler(o options) (*compiler, error) {
	dir := o.dir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving source directory")
	}
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		dir = real
	}
	root := o.root
	if root == "" {
		root = dir
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, errors.Wrap(err, "resolving root")
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}
	return &compiler{
		builder: project.NewBuilder(o.builder...),
		assets:  o.assets,
		diag:    o.diag,
		session: uuid.New(),
		dir:     dir,
		root:    root,
		inline:  make(map[int]string),
		procs:   make(map[string]map[string]*procedure),
	}, nil
}

func (c *compiler) run(ctx context.Context, src string) error {
	lines, err := c.preprocess(src)
	if err != nil {
		return err
	}
	c.lines = lines
	c.prescan()

	for i := 0; i < len(c.lines); {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := c.topLevel(i)
		if err != nil {
			if IsFatal(err) {
				return err
			}
			c.report(i+1, err)
		}
		if next <= i {
			next = i + 1
		}
		i = next
	}
	return nil
}

var (
	spritePattern = regexp.MustCompile(`^#\s*(\S.*)$`)
	declPattern   = regexp.MustCompile(`^(背景|造型|音效|变量|云变量|列表|(?i:backdrop|costume|sound|var|cloud|list))\s*[:：]\s*(.*)$`)
)

// topLevel compiles the construct starting at line i and returns the index
// of the first line it did not consume.
func (c *compiler) topLevel(i int) (int, error) {
	line := strings.TrimSpace(c.lines[i])
	switch {
	case isBlank(line):
		return i + 1, nil
	case strings.HasPrefix(line, ":"):
		c.builder.Stage()
		return i + 1, nil
	case strings.HasPrefix(line, "@"):
		c.switchTo(c.builder.Stage())
		return i + 1, nil
	}
	if m := spritePattern.FindStringSubmatch(line); m != nil {
		c.switchTo(c.builder.AddSprite(strings.TrimSpace(m[1])))
		return i + 1, nil
	}
	sc := c.scope().at(i + 1)
	if m := declPattern.FindStringSubmatch(line); m != nil {
		return i + 1, c.declare(sc, m[1], strings.TrimSpace(m[2]))
	}
	if m := definePattern.FindStringSubmatch(line); m != nil {
		return c.define(sc, i, m)
	}
	if m, ok := opcode.LookupEvent(line); ok {
		return c.script(sc, i, m)
	}
	if isEnd(line) || isElse(line) {
		return i + 1, nil
	}
	return i + 1, unsupported(line, "statement outside of a script")
}

// structural reports whether a line ends a top-level sequence.
func structural(line string) bool {
	switch {
	case strings.HasPrefix(line, ":"), strings.HasPrefix(line, "@"), strings.HasPrefix(line, "#"):
		return true
	case declPattern.MatchString(line), definePattern.MatchString(line):
		return true
	}
	_, ok := opcode.LookupEvent(line)
	return ok
}

func (c *compiler) target() *project.Target {
	if c.current == nil {
		c.current = c.builder.Stage()
	}
	return c.current
}

func (c *compiler) scope() *scope {
	return &scope{target: c.target()}
}

// switchTo finalizes the current target and makes t current.
func (c *compiler) switchTo(t *project.Target) {
	if c.current != nil && c.current != t {
		c.builder.Finalize(c.current)
	}
	c.current = t
}

// script compiles an event script: the hat, its body and an optional
// trailing end marker.
func (c *compiler) script(sc *scope, i int, m *opcode.Match) (int, error) {
	hat, err := c.emit(sc, m)
	if err != nil {
		return i + 1, err
	}
	first, next, err := c.sequence(sc, i+1, -1)
	if err != nil {
		return next, err
	}
	c.builder.Link(sc.target, hat, first)
	if c.marker(next, -1, isEnd) {
		next++
	}
	return next, nil
}

// sequence compiles the statements starting at line i that belong to a body
// with the given base indentation, -1 for a top-level body. It returns the
// first block of the body and the index of the first line not consumed.
func (c *compiler) sequence(sc *scope, i, base int) (project.BlockID, int, error) {
	var first, prev project.BlockID
	for i < len(c.lines) {
		raw := c.lines[i]
		line := strings.TrimSpace(raw)
		if isBlank(line) {
			i++
			continue
		}
		if isEnd(line) || isElse(line) {
			break
		}
		if base >= 0 && indentation(raw) <= base {
			break
		}
		if base < 0 && structural(line) {
			break
		}

		mark := sc.target.Len()
		id, next, err := c.statement(sc.at(i+1), i)
		if err != nil {
			if IsFatal(err) {
				return first, next, err
			}
			c.builder.Truncate(sc.target, mark)
			c.report(i+1, err)
			id = ""
		}
		if next <= i {
			next = i + 1
		}
		i = next
		if id == "" {
			continue
		}
		if prev == "" {
			first = id
		} else {
			c.builder.Link(sc.target, prev, id)
		}
		prev = id
	}
	return first, i, nil
}

// marker reports whether line i is a marker accepted by is, indented at
// least as deep as the construct it closes.
func (c *compiler) marker(i, base int, is func(string) bool) bool {
	if i >= len(c.lines) {
		return false
	}
	raw := c.lines[i]
	return is(strings.TrimSpace(raw)) && indentation(raw) >= base
}

// statement compiles the statement at line i.
func (c *compiler) statement(sc *scope, i int) (project.BlockID, int, error) {
	line := strings.TrimSpace(c.lines[i])
	if n, ok := placeholder(line); ok {
		id, err := c.inlineCall(sc, n)
		return id, i + 1, err
	}
	if id, ok, err := c.say(sc, line); ok {
		return id, i + 1, err
	}
	if p, args, ok := c.findCall(sc, line); ok {
		id, err := c.call(sc, line, p, args)
		return id, i + 1, err
	}
	m, ok := opcode.Lookup(line)
	if !ok {
		return "", i + 1, &UnsupportedError{Text: line}
	}
	if m.Hat() {
		return "", i + 1, unsupported(line, "event header inside a body")
	}
	if m.Substack {
		return c.control(sc, i, m)
	}
	id, err := c.emit(sc, m)
	return id, i + 1, err
}

// control compiles a control block and its bodies. A header that fails to
// compile still consumes its bodies.
func (c *compiler) control(sc *scope, i int, m *opcode.Match) (project.BlockID, int, error) {
	id, herr := c.emit(sc, m)
	base := indentation(c.lines[i])
	line := sc.line

	first, next, err := c.sequence(sc, i+1, base)
	if err != nil {
		return "", next, err
	}
	if herr == nil {
		c.builder.SetSubstack(sc.target, id, "SUBSTACK", first)
	}
	if m.Opcode == opcode.ControlIf && c.marker(next, base, isElse) {
		var second project.BlockID
		second, next, err = c.sequence(sc, next+1, base)
		if err != nil {
			return "", next, err
		}
		if herr == nil {
			sc.target.Block(id).Opcode = opcode.ControlIfElse
			c.builder.SetSubstack(sc.target, id, "SUBSTACK2", second)
		}
	}
	if c.marker(next, base, isEnd) {
		next++
	}
	sc.line = line
	if herr != nil {
		return "", next, herr
	}
	return id, next, nil
}

func (c *compiler) report(line int, err error) {
	c.problem(line, SeverityError, err)
}

func (c *compiler) warn(sc *scope, format string, args ...interface{}) {
	c.problem(sc.line, SeverityWarning, errors.Errorf(format, args...))
}

func (c *compiler) problem(line int, severity Severity, err error) {
	c.problems = append(c.problems, Problem{Line: line, Severity: severity, Err: err})
	c.diag.ProblemReported(c.session.String(), line, severity.String(), err)
}

// resolvePath resolves a path named in the source and checks that it stays
// within the root.
func (c *compiler) resolvePath(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	full := clean
	if !filepath.IsAbs(full) {
		full = filepath.Join(c.dir, clean)
	}
	if real, err := filepath.EvalSymlinks(full); err == nil {
		full = real
	} else if !os.IsNotExist(errors.Cause(err)) {
		return "", errors.Wrapf(err, "resolving %s", path)
	}
	rel, err := filepath.Rel(c.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &SecurityError{Path: path, Root: c.root}
	}
	return full, nil
}

type nopDiagnostic struct{}

func (nopDiagnostic) CompileStarted(string, string) {}

func (nopDiagnostic) CompileFinished(string, string, int, int, int, time.Duration) {}

func (nopDiagnostic) ProblemReported(string, int, string, error) {}
