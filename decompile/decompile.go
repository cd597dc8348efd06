// Package decompile renders programs back into ScratchLang source.
//
// Every target is written as a marker line, its declarations and its
// scripts. Statements are rendered through the templates of the opcode
// catalog and reporters are rebuilt into expressions that compile back to
// the same blocks.
package decompile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
	"github.com/scratchlang/slc/script"
	"github.com/scratchlang/slc/script/ast"
)

const (
	programMarker = ": 开始"
	stageMarker   = "@ 舞台"
	unsupported   = "// 未支持的块: "

	// Reporter chains deeper than this are malformed.
	maxDepth = 256
)

type Diagnostic interface {
	TargetDecompiled(target string, scripts, lines int)
	BlockUnsupported(target, opcode string)
}

type Config struct {
	// Indent is the unit of indentation of script bodies.
	Indent string `toml:"indent"`
}

func NewConfig() Config {
	return Config{Indent: "  "}
}

func (c Config) Validate() error {
	if c.Indent == "" {
		return errors.New("must specify a non empty indent")
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("indent %q must only contain spaces and tabs", c.Indent)
	}
	return nil
}

type Option func(*Decompiler)

// WithConfig sets the configuration of the decompiler.
func WithConfig(c Config) Option {
	return func(d *Decompiler) {
		d.c = c
	}
}

// WithDiagnostic reports decompiled targets and unsupported blocks to diag.
func WithDiagnostic(diag Diagnostic) Option {
	return func(d *Decompiler) {
		d.diag = diag
	}
}

// Decompiler renders the targets of one program.
type Decompiler struct {
	p    *project.Program
	c    Config
	diag Diagnostic

	// Unsupported counts the blocks rendered as unsupported.
	Unsupported int

	// pending holds the markers of unsupported reporters met while
	// rendering the current line.
	pending []string
}

func New(p *project.Program, opts ...Option) *Decompiler {
	d := &Decompiler{
		p:    p,
		c:    NewConfig(),
		diag: nopDiagnostic{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.c.Indent == "" {
		d.c.Indent = "  "
	}
	return d
}

// Decompile renders a whole program.
func Decompile(p *project.Program, opts ...Option) (string, error) {
	if p == nil {
		return "", errors.New("no program to decompile")
	}
	return New(p, opts...).Program(), nil
}

// Program renders the program marker, the extensions and every target,
// the stage first.
func (d *Decompiler) Program() string {
	var buf bytes.Buffer
	buf.WriteString(programMarker)
	buf.WriteString("\n")
	for _, ext := range d.p.Extensions {
		if script.IsInlineExtension(ext) {
			continue
		}
		if _, ok := d.p.ExtensionURLs[ext]; ok {
			fmt.Fprintf(&buf, "// 导入扩展: %s\n", ext)
			continue
		}
		fmt.Fprintf(&buf, "// 扩展: %s\n", ext)
	}
	targets := d.p.Sprites()
	if stage := d.p.Stage(); stage != nil {
		targets = append([]*project.Target{stage}, targets...)
	}
	for _, t := range targets {
		buf.WriteString("\n")
		buf.WriteString(d.Target(t))
	}
	return buf.String()
}

// Target renders one target: its marker, declarations and scripts.
func (d *Decompiler) Target(t *project.Target) string {
	w := &writer{indent: d.c.Indent}
	if t.IsStage {
		w.line(0, stageMarker)
	} else {
		w.line(0, "# "+t.Name)
	}
	d.declarations(w, t)

	scripts := 0
	for _, b := range t.TopLevel() {
		if b.Shadow {
			continue
		}
		w.blank()
		d.script(w, t, b)
		scripts++
	}
	d.diag.TargetDecompiled(t.Name, scripts, w.lines)
	return w.String()
}

func (d *Decompiler) declarations(w *writer, t *project.Target) {
	for _, v := range t.Variables {
		if v.Cloud {
			w.line(0, fmt.Sprintf("云变量: %s = %s", strings.TrimPrefix(v.Name, "☁ "), item(v.Value)))
			continue
		}
		w.line(0, fmt.Sprintf("变量: %s = %s", v.Name, item(v.Value)))
	}
	for _, l := range t.Lists {
		if len(l.Items) == 0 {
			w.line(0, "列表: "+l.Name)
			continue
		}
		items := make([]string, len(l.Items))
		for i, it := range l.Items {
			items[i] = item(it)
		}
		w.line(0, fmt.Sprintf("列表: %s = %s", l.Name, strings.Join(items, ", ")))
	}
	kind := "造型"
	if t.IsStage {
		kind = "背景"
	}
	for _, c := range t.Costumes {
		w.line(0, fmt.Sprintf("// %s: %s (%s)", kind, c.Name, c.MD5Ext))
	}
	for _, s := range t.Sounds {
		w.line(0, fmt.Sprintf("// 音效: %s (%s)", s.Name, s.MD5Ext))
	}
}

// item renders a variable value or list item as declared.
func item(v interface{}) string {
	if s, ok := v.(string); ok && !isNumber(s) {
		return quote(s)
	}
	return project.FormatValue(v)
}

// script renders a top-level stack. Hats and definitions own the rest of
// the stack as their body, other stacks are rendered flat.
func (d *Decompiler) script(w *writer, t *project.Target, top *project.Block) {
	switch {
	case top.Opcode == opcode.ProceduresDefinition:
		d.emit(w, 0, d.definition(t, top))
		d.sequence(w, t, top.Next, 1)
		w.line(0, "结束")
	case top.Opcode.IsHat():
		d.emit(w, 0, d.statement(t, top))
		d.sequence(w, t, top.Next, 1)
	case isStatement(top.Opcode) || top.Next != "":
		d.sequence(w, t, top.ID, 0)
	default:
		// a reporter left on the canvas
		text, _ := d.expr(t, top, 0)
		d.emit(w, 0, "// "+text)
	}
}

// emit writes a rendered line after the markers of the unsupported
// reporters inside it.
func (d *Decompiler) emit(w *writer, depth int, text string) {
	for _, m := range d.pending {
		w.line(depth, m)
	}
	d.pending = d.pending[:0]
	w.line(depth, text)
}

// sequence renders a stack starting at id with the given depth.
func (d *Decompiler) sequence(w *writer, t *project.Target, id project.BlockID, depth int) {
	for _, b := range t.Sequence(id) {
		if code, ok := d.inlineCode(b); ok {
			w.line(depth, "#code#")
			for _, l := range strings.Split(code, "\n") {
				w.line(depth, l)
			}
			w.line(depth, "#end#")
			continue
		}
		d.emit(w, depth, d.statement(t, b))
		if !hasSubstack(b.Opcode) {
			continue
		}
		d.substack(w, t, b, "SUBSTACK", depth+1)
		if b.Opcode == opcode.ControlIfElse {
			w.line(depth, "否则")
			d.substack(w, t, b, "SUBSTACK2", depth+1)
		}
		w.line(depth, "结束")
	}
}

func (d *Decompiler) substack(w *writer, t *project.Target, b *project.Block, name string, depth int) {
	if in, ok := b.Input(name); ok && in.Block != "" {
		d.sequence(w, t, in.Block, depth)
	}
}

// inlineCode returns the code of a block running an inline code extension.
func (d *Decompiler) inlineCode(b *project.Block) (string, bool) {
	if b.Opcode != opcode.ExtensionCall || !strings.HasSuffix(b.Raw, "_run") {
		return "", false
	}
	id := strings.TrimSuffix(b.Raw, "_run")
	u, ok := d.p.ExtensionURLs[id]
	if !ok || !script.IsInlineExtension(id) {
		return "", false
	}
	return script.InlineCode(u)
}

func (d *Decompiler) unsupported(t *project.Target, b *project.Block) string {
	d.Unsupported++
	d.diag.BlockUnsupported(t.Name, b.OpcodeString())
	return unsupported + b.OpcodeString()
}

func hasSubstack(o opcode.Opcode) bool {
	for _, e := range opcode.Entries(o) {
		if e.Substack {
			return true
		}
	}
	return false
}

func isStatement(o opcode.Opcode) bool {
	return len(opcode.Entries(o)) > 0 || o == opcode.ProceduresCall || o == opcode.ExtensionCall || o == opcode.Unknown
}

func quote(s string) string {
	return `"` + ast.Escape(s) + `"`
}

// writer accumulates indented lines.
type writer struct {
	buf    bytes.Buffer
	indent string
	lines  int
}

func (w *writer) line(depth int, text string) {
	if text != "" {
		w.buf.WriteString(strings.Repeat(w.indent, depth))
		w.buf.WriteString(text)
	}
	w.buf.WriteString("\n")
	w.lines++
}

func (w *writer) blank() {
	w.line(0, "")
}

func (w *writer) String() string {
	return w.buf.String()
}

type nopDiagnostic struct{}

func (nopDiagnostic) TargetDecompiled(string, int, int) {}

func (nopDiagnostic) BlockUnsupported(string, string) {}
