package script

import (
	"fmt"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/script/ast"
)

// preprocess rewrites the source into the lines seen by the statement
// parser. Every step keeps the line count so line numbers in problems refer
// to the original text.
func (c *compiler) preprocess(src string) ([]string, error) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = stripBlockComments(src)
	lines := strings.Split(src, "\n")
	lines = foldTripleQuotes(lines)
	lines, err := c.imports(lines)
	if err != nil {
		return nil, err
	}
	return c.extractInline(lines), nil
}

var blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

// stripBlockComments replaces each block comment by the newlines it spans.
func stripBlockComments(src string) string {
	return blockComment.ReplaceAllStringFunc(src, func(m string) string {
		return strings.Repeat("\n", strings.Count(m, "\n"))
	})
}

const tripleQuote = `"""`

// foldTripleQuotes turns each triple quoted string into a single line
// literal with escaped newlines, padding with blank lines.
func foldTripleQuotes(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		start := strings.Index(line, tripleQuote)
		if start < 0 {
			out = append(out, line)
			continue
		}
		rest := line[start+len(tripleQuote):]
		if end := strings.Index(rest, tripleQuote); end >= 0 {
			// Fold in place and look at the line again for further literals.
			lines[i] = line[:start] + quoteLiteral(rest[:end]) + rest[end+len(tripleQuote):]
			i--
			continue
		}

		body := []string{rest}
		suffix := ""
		j := i + 1
		for ; j < len(lines); j++ {
			if end := strings.Index(lines[j], tripleQuote); end >= 0 {
				body = append(body, lines[j][:end])
				suffix = lines[j][end+len(tripleQuote):]
				break
			}
			body = append(body, lines[j])
		}
		if j == len(lines) {
			j--
		}
		out = append(out, line[:start]+quoteLiteral(strings.Join(body, "\n"))+suffix)
		for k := i + 1; k <= j; k++ {
			out = append(out, "")
		}
		i = j
	}
	return out
}

func quoteLiteral(s string) string {
	return `"` + ast.Escape(s) + `"`
}

var importPattern = regexp.MustCompile(`^(?:导入扩展|(?i:import))\s*[:：]\s*["']?(.+?)["']?$`)

// imports registers every imported extension script and blanks its line.
func (c *compiler) imports(lines []string) ([]string, error) {
	for i, line := range lines {
		m := importPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		lines[i] = ""
		if err := c.importExtension(m[1]); err != nil {
			if IsFatal(err) {
				return nil, err
			}
			c.report(i+1, err)
		}
	}
	return lines, nil
}

func (c *compiler) importExtension(path string) error {
	full, err := c.resolvePath(path)
	if err != nil {
		return err
	}
	code, err := c.readFile(full)
	if err != nil {
		return errors.Wrapf(err, "importing extension %s", path)
	}
	id := ExtensionID(string(code), full)
	c.builder.AddExtensionURL(id, DataURL(string(code)))
	return nil
}

func (c *compiler) readFile(path string) ([]byte, error) {
	if r, ok := c.assets.(FileReader); ok {
		return r.ReadFile(path)
	}
	return ioutil.ReadFile(path)
}

const (
	codeStart = "#code#"
	codeEnd   = "#end#"
)

var placeholderPattern = regexp.MustCompile(`^__inline_code_(\d+)__$`)

func placeholderText(n int) string {
	return fmt.Sprintf("__inline_code_%d__", n)
}

// placeholder parses a placeholder line.
func placeholder(line string) (int, bool) {
	m := placeholderPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	var n int
	fmt.Sscanf(m[1], "%d", &n)
	return n, true
}

// extractInline replaces every inline code block by a placeholder line
// indented like its opening marker. An unterminated block runs to the end.
func (c *compiler) extractInline(lines []string) []string {
	out := make([]string, 0, len(lines))
	n := 0
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) != codeStart {
			out = append(out, line)
			continue
		}
		var body []string
		j := i + 1
		for ; j < len(lines) && strings.TrimSpace(lines[j]) != codeEnd; j++ {
			body = append(body, lines[j])
		}
		if j == len(lines) {
			j--
		}
		n++
		c.inline[n] = dedent(body)
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		out = append(out, indent+placeholderText(n))
		for k := i + 1; k <= j; k++ {
			out = append(out, "")
		}
		i = j
	}
	return out
}

// dedent removes the indentation common to all non blank lines.
func dedent(lines []string) string {
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= common && common > 0 {
			l = l[common:]
		}
		out[i] = strings.TrimRight(l, " \t")
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}
