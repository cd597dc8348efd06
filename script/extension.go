package script

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
)

const dataURLPrefix = "data:application/javascript,"

// Idioms declaring the id of an extension, tried in order.
var extensionIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`getInfo\s*\(\s*\)\s*{[^}]*id\s*:\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`id\s*:\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`extensionId\s*=\s*['"]([^'"]+)['"]`),
}

// ExtensionID derives the id of an extension script, falling back to the
// file name without extension.
func ExtensionID(code, path string) string {
	for _, re := range extensionIDPatterns {
		if m := re.FindStringSubmatch(code); m != nil {
			return m[1]
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DataURL embeds a script in a data URL.
func DataURL(code string) string {
	return dataURLPrefix + strings.ReplaceAll(url.QueryEscape(code), "+", "%20")
}

// DecodeDataURL returns the script embedded by DataURL.
func DecodeDataURL(u string) (string, error) {
	if !strings.HasPrefix(u, dataURLPrefix) {
		return "", errors.Errorf("not a javascript data URL")
	}
	code, err := url.PathUnescape(u[len(dataURLPrefix):])
	return code, errors.Wrap(err, "decoding data URL")
}

const inlinePrefix = "inlinecode"

const inlineTemplate = `class InlineCode%[1]d {
  getInfo() {
    return {
      id: '%[2]s',
      name: 'Inline Code',
      blocks: [
        {
          opcode: 'run',
          blockType: Scratch.BlockType.COMMAND,
          text: 'run inline code'
        }
      ]
    };
  }

  run(args) {
%[3]s
  }
}

Scratch.extensions.register(new InlineCode%[1]d());`

// InlineExtension wraps the code of the nth inline block into an extension
// and returns its id and URL.
func InlineExtension(n int, code string) (id, u string) {
	id = fmt.Sprintf("%s%d", inlinePrefix, n)
	return id, DataURL(fmt.Sprintf(inlineTemplate, n, id, indentCode(code, "    ")))
}

// InlineCode recovers the code wrapped by InlineExtension.
func InlineCode(u string) (string, bool) {
	src, err := DecodeDataURL(u)
	if err != nil {
		return "", false
	}
	const head, tail = "  run(args) {\n", "\n  }\n}\n\nScratch.extensions.register("
	i := strings.Index(src, head)
	j := strings.LastIndex(src, tail)
	if i < 0 || j < i+len(head) {
		return "", false
	}
	return dedent(strings.Split(src[i+len(head):j], "\n")), true
}

// IsInlineExtension reports whether id names an inline code extension.
func IsInlineExtension(id string) bool {
	if !strings.HasPrefix(id, inlinePrefix) || len(id) == len(inlinePrefix) {
		return false
	}
	for _, r := range id[len(inlinePrefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func indentCode(code, indent string) string {
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}

// inlineCall registers the extension of the nth inline block and emits the
// block running it.
func (c *compiler) inlineCall(sc *scope, n int) (project.BlockID, error) {
	code, ok := c.inline[n]
	if !ok {
		return "", unsupported(placeholderText(n), "no inline code block %d", n)
	}
	id, u := InlineExtension(n, code)
	c.builder.AddExtensionURL(id, u)
	return c.builder.AddBlock(sc.target, project.BlockSpec{
		Opcode: opcode.ExtensionCall,
		Raw:    id + "_run",
	}), nil
}
