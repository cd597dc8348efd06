package script

import (
	"regexp"
	"strings"

	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
)

var (
	sayPattern      = regexp.MustCompile(`^(说|想)\s+(.+)$`)
	durationPattern = regexp.MustCompile(`\s+([\d.]+)\s*秒$`)
)

// say compiles a say or think statement. Its content is a list of parts
// joined by + or a join call; a trailing duration selects the timed form.
func (c *compiler) say(sc *scope, line string) (project.BlockID, bool, error) {
	m := sayPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false, nil
	}
	content := strings.TrimSpace(m[2])
	var secs string
	if d := durationPattern.FindStringSubmatchIndex(content); d != nil && indexTop(content, content[d[0]:]) == d[0] {
		secs = content[d[2]:d[3]]
		content = strings.TrimSpace(content[:d[0]])
	}

	o := opcode.LooksSay
	switch {
	case m[1] == "说" && secs != "":
		o = opcode.LooksSayForSecs
	case m[1] == "想" && secs == "":
		o = opcode.LooksThink
	case m[1] == "想":
		o = opcode.LooksThinkForSecs
	}

	msg, err := c.message(sc, content)
	if err != nil {
		return "", true, err
	}
	inputs := []project.Input{input("MESSAGE", opcode.SlotText, msg)}
	if secs != "" {
		f, ok := parseNumber(secs)
		if !ok {
			return "", true, unsupported(line, "invalid duration %q", secs)
		}
		inputs = append(inputs, project.LiteralInput("SECS", project.NumberLiteral(f)))
	}
	return c.builder.AddBlock(sc.target, project.BlockSpec{Opcode: o, Inputs: inputs}), true, nil
}

// message compiles the content of a say statement. In say content + joins
// its operands as text.
func (c *compiler) message(sc *scope, content string) (project.Value, error) {
	if args, ok := joinArgs(content); ok {
		return c.join(sc, args)
	}
	if !strings.HasPrefix(content, "+") {
		if parts := splitTop(content, '+'); len(parts) > 1 {
			return c.join(sc, parts)
		}
	}
	return c.part(sc, content)
}
