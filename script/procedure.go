package script

import (
	"regexp"
	"strings"

	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
)

// procedure is a custom block of a target.
type procedure struct {
	Name   string
	Params []string
	// IDs are the argument ids shared by the prototype and every call.
	IDs  []string
	Warp bool

	defined bool
}

// Proccode is the signature stored in procedure mutations.
func (p *procedure) Proccode() string {
	return p.Name + strings.Repeat(" %s", len(p.Params))
}

var definePattern = regexp.MustCompile(`^(?:定义|(?i:define))\s+([^(]+?)\s*(?:\(([^)]*)\))?\s*(不刷新屏幕|(?i:no refresh))?$`)

// prescan collects the procedures of every target so calls may precede
// definitions.
func (c *compiler) prescan() {
	target := project.StageName
	for _, raw := range c.lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, ":"), strings.HasPrefix(line, "@"):
			target = project.StageName
			continue
		}
		if m := spritePattern.FindStringSubmatch(line); m != nil {
			target = strings.TrimSpace(m[1])
			continue
		}
		m := definePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		procs := c.procs[target]
		if procs == nil {
			procs = make(map[string]*procedure)
			c.procs[target] = procs
		}
		if _, ok := procs[m[1]]; ok {
			continue
		}
		p := &procedure{Name: m[1], Warp: m[3] != ""}
		for _, name := range splitTop(m[2], ',') {
			p.Params = append(p.Params, varName(name))
			p.IDs = append(p.IDs, c.builder.NewID())
		}
		procs[p.Name] = p
	}
}

// define compiles a procedure definition and its body.
func (c *compiler) define(sc *scope, i int, m []string) (int, error) {
	p := c.procs[sc.target.Name][m[1]]
	if p == nil || p.defined {
		// Skip the body of a duplicate definition.
		mark := sc.target.Len()
		_, next, err := c.sequence(&scope{target: sc.target, line: sc.line}, i+1, -1)
		c.builder.Truncate(sc.target, mark)
		if err != nil {
			return next, err
		}
		if c.marker(next, -1, isEnd) {
			next++
		}
		return next, unsupported(strings.TrimSpace(c.lines[i]), "procedure %s is already defined", m[1])
	}
	p.defined = true

	t := sc.target
	inputs := make([]project.Input, len(p.Params))
	for k, name := range p.Params {
		arg := c.builder.AddBlock(t, project.BlockSpec{
			Opcode: opcode.ArgumentReporterStringNumber,
			Fields: []project.Field{{Name: "VALUE", Value: name}},
			Shadow: true,
		})
		inputs[k] = project.ShadowInput(p.IDs[k], arg)
	}
	proto := c.builder.AddBlock(t, project.BlockSpec{
		Opcode:   opcode.ProceduresPrototype,
		Inputs:   inputs,
		Shadow:   true,
		Mutation: project.PrototypeMutation(p.Proccode(), p.IDs, p.Params, p.Warp),
	})
	def := c.builder.AddBlock(t, project.BlockSpec{
		Opcode:   opcode.ProceduresDefinition,
		Inputs:   []project.Input{project.ShadowInput("custom_block", proto)},
		TopLevel: true,
	})

	body := &scope{target: t, proc: p, line: sc.line}
	first, next, err := c.sequence(body, i+1, -1)
	if err != nil {
		return next, err
	}
	c.builder.Link(t, def, first)
	if c.marker(next, -1, isEnd) {
		next++
	}
	return next, nil
}

// findCall finds the procedure of the current target called by the line,
// preferring the longest name.
func (c *compiler) findCall(sc *scope, line string) (*procedure, string, bool) {
	var found *procedure
	for name, p := range c.procs[sc.target.Name] {
		if !strings.HasPrefix(line, name) {
			continue
		}
		rest := line[len(name):]
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '(' {
			continue
		}
		if found == nil || len(name) > len(found.Name) {
			found = p
		}
	}
	if found == nil {
		return nil, "", false
	}
	return found, strings.TrimSpace(line[len(found.Name):]), true
}

// call compiles a call of p with the argument text following its name:
// either a parenthesized comma separated list or whitespace separated values.
func (c *compiler) call(sc *scope, line string, p *procedure, rest string) (project.BlockID, error) {
	var args []string
	switch {
	case rest == "":
	case strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") && len(splitFields(rest)) == 1:
		args = splitTop(rest[1:len(rest)-1], ',')
	default:
		args = splitFields(rest)
	}
	if len(args) != len(p.Params) {
		return "", unsupported(line, "procedure %s takes %d arguments, got %d", p.Name, len(p.Params), len(args))
	}
	inputs := make([]project.Input, len(args))
	for k, arg := range args {
		v, err := c.value(sc, arg)
		if err != nil {
			return "", err
		}
		inputs[k] = input(p.IDs[k], opcode.SlotText, v)
	}
	return c.builder.AddBlock(sc.target, project.BlockSpec{
		Opcode:   opcode.ProceduresCall,
		Inputs:   inputs,
		Mutation: project.CallMutation(p.Proccode(), p.IDs, p.Warp),
	}), nil
}
