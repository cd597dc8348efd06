package script

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/project"
)

// declare compiles a key: value declaration line.
func (c *compiler) declare(sc *scope, key, value string) error {
	switch strings.ToLower(key) {
	case "背景", "backdrop":
		return c.addCostume(c.builder.Stage(), value)
	case "造型", "costume":
		return c.addCostume(sc.target, value)
	case "音效", "sound":
		return c.addSound(sc.target, value)
	case "变量", "var":
		name, v, err := variable(value)
		if err != nil {
			return err
		}
		c.builder.AddVariable(sc.target, name, v)
	case "云变量", "cloud":
		name, v, err := variable(value)
		if err != nil {
			return err
		}
		c.builder.AddCloudVariable(c.builder.Stage(), name, v)
	case "列表", "list":
		name, items, err := list(value)
		if err != nil {
			return err
		}
		c.builder.AddList(sc.target, name, items)
	default:
		return unsupported(key+": "+value, "unknown declaration")
	}
	return nil
}

// variable parses `name` or `name = value`. Numeric values are stored as
// numbers and the value defaults to 0.
func variable(decl string) (string, interface{}, error) {
	name, value, hasValue := cut(decl, "=")
	name = varName(name)
	if name == "" {
		return "", nil, errors.Errorf("variable declaration %q has no name", decl)
	}
	if !hasValue {
		return name, 0.0, nil
	}
	return name, literal(value), nil
}

// list parses `name` or `name = a, b, c`.
func list(decl string) (string, []interface{}, error) {
	name, value, hasValue := cut(decl, "=")
	name = varName(name)
	if name == "" {
		return "", nil, errors.Errorf("list declaration %q has no name", decl)
	}
	items := []interface{}{}
	if hasValue {
		for _, item := range splitTop(value, ',') {
			items = append(items, literal(item))
		}
	}
	return name, items, nil
}

func cut(s, sep string) (before, after string, found bool) {
	if i := indexTop(s, sep); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):]), true
	}
	return strings.TrimSpace(s), "", false
}

// literal is the stored value of a declared item.
func literal(text string) interface{} {
	text = strings.TrimSpace(text)
	if f, ok := parseNumber(text); ok {
		return f
	}
	return unquote(text)
}

// addCostume loads an image as a costume of t, a backdrop when t is the
// stage. Costumes are named after their file.
func (c *compiler) addCostume(t *project.Target, path string) error {
	full, err := c.resolvePath(unquote(path))
	if err != nil {
		return err
	}
	a, err := c.assets.AddImage(full)
	if err != nil {
		return errors.Wrapf(err, "loading %s", costumeKind(t))
	}
	c.builder.AddCostume(t, a.Costume(uniqueName(a.Name, costumeNames(t))), a.Data)
	return nil
}

func (c *compiler) addSound(t *project.Target, path string) error {
	full, err := c.resolvePath(unquote(path))
	if err != nil {
		return err
	}
	a, err := c.assets.AddSound(full)
	if err != nil {
		return errors.Wrap(err, "loading sound")
	}
	s := a.Sound()
	names := make([]string, len(t.Sounds))
	for i, existing := range t.Sounds {
		names[i] = existing.Name
	}
	s.Name = uniqueName(s.Name, names)
	c.builder.AddSound(t, s, a.Data)
	return nil
}

func costumeKind(t *project.Target) string {
	if t.IsStage {
		return "backdrop"
	}
	return "costume"
}

func costumeNames(t *project.Target) []string {
	names := make([]string, len(t.Costumes))
	for i, existing := range t.Costumes {
		names[i] = existing.Name
	}
	return names
}

// uniqueName appends a counter to name while it is taken.
func uniqueName(name string, taken []string) string {
	has := func(n string) bool {
		for _, t := range taken {
			if t == n {
				return true
			}
		}
		return false
	}
	if !has(name) {
		return name
	}
	for i := 2; ; i++ {
		if n := fmt.Sprintf("%s%d", name, i); !has(n) {
			return n
		}
	}
}
