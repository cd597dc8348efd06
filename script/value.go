package script

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/scratchlang/slc/opcode"
	"github.com/scratchlang/slc/project"
	"github.com/scratchlang/slc/script/ast"
)

// operator is a binary operator found in slot text.
type operator struct {
	pos int
	sym string
	tok ast.TokenType
}

// Operator spellings, longest first.
var operatorSpellings = []struct {
	sym string
	tok ast.TokenType
}{
	{">=", ast.TokenGreaterEqual},
	{"<=", ast.TokenLessEqual},
	{"!=", ast.TokenNotEqual},
	{"==", ast.TokenEqual},
	{"≠", ast.TokenNotEqual},
	{">", ast.TokenGreater},
	{"<", ast.TokenLess},
	{"=", ast.TokenEqual},
	{"+", ast.TokenPlus},
	{"-", ast.TokenMinus},
	{"*", ast.TokenMult},
	{"/", ast.TokenDiv},
	{"%", ast.TokenMod},
}

// operators returns the binary operators of s outside quotes and
// parentheses. A sign is not counted: a minus or plus is binary only when
// it follows an operand and is either spaced or written between digits.
func operators(s string) []operator {
	var ops []operator
	skip := 0
	scanTop(s, func(i int) bool {
		if i < skip {
			return true
		}
		for _, sp := range operatorSpellings {
			if !strings.HasPrefix(s[i:], sp.sym) {
				continue
			}
			if (sp.tok == ast.TokenMinus || sp.tok == ast.TokenPlus) && !binarySign(s, i) {
				break
			}
			ops = append(ops, operator{pos: i, sym: sp.sym, tok: sp.tok})
			skip = i + len(sp.sym)
			break
		}
		return true
	})
	return ops
}

func binarySign(s string, i int) bool {
	before := strings.TrimRight(s[:i], " \t")
	if before == "" {
		return false
	}
	prev := before[len(before)-1]
	if strings.IndexByte("+-*/%><=!(,", prev) >= 0 || strings.HasSuffix(before, "≠") {
		return false
	}
	spaced := len(before) < i || (i+1 < len(s) && (s[i+1] == ' ' || s[i+1] == '\t'))
	if spaced {
		return true
	}
	next := byte(0)
	if i+1 < len(s) {
		next = s[i+1]
	}
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	return (isDigit(prev) || prev == ')' || prev == '"' || prev == '\'') && (isDigit(next) || next == '(' || next == '~' || next == '.')
}

// IsComplex reports whether slot text needs the expression grammar: it has
// parentheses, two or more operators, an operator next to a ~ reference, a
// minus in front of a ~ reference, or a multiplicative operator. Quoted parts
// are ignored.
func IsComplex(text string) bool {
	s := stripQuoted(text)
	if strings.ContainsAny(s, "()") || negatedReference(s) {
		return true
	}
	ops := operators(s)
	if len(ops) >= 2 {
		return true
	}
	for _, op := range ops {
		switch op.tok {
		case ast.TokenMult, ast.TokenDiv, ast.TokenMod:
			return true
		}
	}
	return len(ops) == 1 && strings.Contains(s, "~")
}

// negatedReference reports whether s is a unary minus applied to a ~
// reference, as in -~x or - ~x.
func negatedReference(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "-") && strings.HasPrefix(strings.TrimSpace(s[1:]), "~")
}

// value compiles the text of a number or text slot.
func (c *compiler) value(sc *scope, text string) (project.Value, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return project.TextLiteral(""), nil
	case isQuoted(text):
		return project.TextLiteral(unquote(text)), nil
	}
	if args, ok := joinArgs(text); ok {
		return c.join(sc, args)
	}
	if IsComplex(text) {
		return c.expression(sc, text)
	}
	return c.light(sc, text)
}

var (
	modPhrase      = regexp.MustCompile(`^(.+?)\s*除以\s*(.+?)\s*的余数$`)
	randomPhrase   = regexp.MustCompile(`^从\s*(.+?)\s*到\s*(.+?)\s*随机选一个数$`)
	letterPhrase   = regexp.MustCompile(`^(.+?)\s*的第\s*(.+?)\s*个字符$`)
	lengthPhrase   = regexp.MustCompile(`^(.+?)\s*的长度$`)
	containsPhrase = regexp.MustCompile(`^(.+?)\s+包含\s+(.+?)\s*\??$`)
)

// light compiles slot text holding at most one additive or comparison
// operator without the grammar. Operators go through the same primitives as
// lowering.
func (c *compiler) light(sc *scope, text string) (project.Value, error) {
	if f, ok := parseNumber(text); ok {
		return project.NumberLiteral(f), nil
	}
	if ops := operators(stripQuoted(text)); len(ops) > 0 {
		op := ops[0]
		l, err := c.value(sc, text[:op.pos])
		if err != nil {
			return nil, err
		}
		r, err := c.value(sc, text[op.pos+len(op.sym):])
		if err != nil {
			return nil, err
		}
		return c.binary(sc, op.tok, l, r)
	}
	if m := modPhrase.FindStringSubmatch(text); m != nil {
		return c.phrase(sc, m, func(a, b project.Value) (project.Value, error) {
			return c.binary(sc, ast.TokenMod, a, b)
		})
	}
	if m := randomPhrase.FindStringSubmatch(text); m != nil {
		return c.phrase(sc, m, func(a, b project.Value) (project.Value, error) {
			return c.reporter(sc, opcode.OperatorRandom,
				input("FROM", opcode.SlotNumber, a),
				input("TO", opcode.SlotNumber, b),
			), nil
		})
	}
	if m := letterPhrase.FindStringSubmatch(text); m != nil {
		return c.phrase(sc, m, func(s, n project.Value) (project.Value, error) {
			return c.reporter(sc, opcode.OperatorLetterOf,
				input("LETTER", opcode.SlotNumber, n),
				input("STRING", opcode.SlotText, s),
			), nil
		})
	}
	if m := containsPhrase.FindStringSubmatch(text); m != nil {
		return c.phrase(sc, m, func(a, b project.Value) (project.Value, error) {
			return c.reporter(sc, opcode.OperatorContains,
				input("STRING1", opcode.SlotText, a),
				input("STRING2", opcode.SlotText, b),
			), nil
		})
	}
	if m := lengthPhrase.FindStringSubmatch(text); m != nil {
		s, err := c.value(sc, m[1])
		if err != nil {
			return nil, err
		}
		return c.reporter(sc, opcode.OperatorLength, input("STRING", opcode.SlotText, s)), nil
	}
	if negatedReference(text) {
		v, err := c.light(sc, strings.TrimSpace(text[1:]))
		if err != nil {
			return nil, err
		}
		return c.negate(sc, v)
	}
	if strings.HasPrefix(text, "~") {
		return c.reference(sc, strings.TrimSpace(text[1:]))
	}
	return project.TextLiteral(text), nil
}

// phrase compiles the two operands of a reporter phrase and builds it.
func (c *compiler) phrase(sc *scope, m []string, build func(a, b project.Value) (project.Value, error)) (project.Value, error) {
	a, err := c.value(sc, m[1])
	if err != nil {
		return nil, err
	}
	b, err := c.value(sc, m[2])
	if err != nil {
		return nil, err
	}
	return build(a, b)
}

var (
	distanceRef   = regexp.MustCompile(`^到\s*(.+?)\s*的距离$`)
	propertyRef   = regexp.MustCompile(`^(.+?)\s*的\s*(x坐标|y坐标|方向|造型编号|造型名称|大小|音量|背景编号|背景名称)$`)
	itemRef       = regexp.MustCompile(`^(.+?)\s*的第\s*(.+?)\s*项$`)
	listLengthRef = regexp.MustCompile(`^(.+?)\s*的项目数$`)
)

// reference compiles a ~name: a procedure parameter, a builtin reporter, a
// sensing or list phrase, a variable, or a list. Unknown names are kept as
// text with a warning.
func (c *compiler) reference(sc *scope, name string) (project.Value, error) {
	t := sc.target
	if sc.param(name) {
		id := c.builder.AddBlock(t, project.BlockSpec{
			Opcode: opcode.ArgumentReporterStringNumber,
			Fields: []project.Field{{Name: "VALUE", Value: name}},
		})
		return project.ReporterRef{ID: id}, nil
	}
	if r, ok := opcode.LookupReporter(name); ok {
		spec := project.BlockSpec{Opcode: r.Opcode}
		if r.Field != "" {
			spec.Fields = []project.Field{{Name: r.Field, Value: r.Value}}
		}
		if ext := r.Opcode.Extension(); ext != "" {
			c.builder.AddExtension(ext)
		}
		return project.ReporterRef{ID: c.builder.AddBlock(t, spec)}, nil
	}
	if m := distanceRef.FindStringSubmatch(name); m != nil {
		menu := c.menuShadow(sc, opcode.DistanceToMenu, m[1])
		return c.reporter(sc, opcode.SensingDistanceTo, project.ShadowInput("DISTANCETOMENU", menu)), nil
	}
	if m := propertyRef.FindStringSubmatch(name); m != nil {
		menu := c.menuShadow(sc, opcode.OfObjectMenu, m[1])
		id := c.builder.AddBlock(t, project.BlockSpec{
			Opcode: opcode.SensingOf,
			Inputs: []project.Input{project.ShadowInput("OBJECT", menu)},
			Fields: []project.Field{{Name: "PROPERTY", Value: opcode.Properties.Value(m[2])}},
		})
		return project.ReporterRef{ID: id}, nil
	}
	if m := itemRef.FindStringSubmatch(name); m != nil {
		if l, ok := c.builder.LookupList(t, m[1]); ok {
			index, err := c.value(sc, m[2])
			if err != nil {
				return nil, err
			}
			id := c.builder.AddBlock(t, project.BlockSpec{
				Opcode: opcode.DataItemOfList,
				Inputs: []project.Input{input("INDEX", opcode.SlotNumber, index)},
				Fields: []project.Field{{Name: "LIST", Value: l.Name, ID: l.ID}},
			})
			return project.ReporterRef{ID: id}, nil
		}
	}
	if m := listLengthRef.FindStringSubmatch(name); m != nil {
		if l, ok := c.builder.LookupList(t, m[1]); ok {
			id := c.builder.AddBlock(t, project.BlockSpec{
				Opcode: opcode.DataLengthOfList,
				Fields: []project.Field{{Name: "LIST", Value: l.Name, ID: l.ID}},
			})
			return project.ReporterRef{ID: id}, nil
		}
	}
	if v, ok := c.lookupVariable(t, name); ok {
		id := c.builder.AddBlock(t, project.BlockSpec{
			Opcode: opcode.DataVariable,
			Fields: []project.Field{{Name: "VARIABLE", Value: v.Name, ID: v.ID}},
		})
		return project.ReporterRef{ID: id}, nil
	}
	if l, ok := c.builder.LookupList(t, name); ok {
		id := c.builder.AddBlock(t, project.BlockSpec{
			Opcode: opcode.DataListContents,
			Fields: []project.Field{{Name: "LIST", Value: l.Name, ID: l.ID}},
		})
		return project.ReporterRef{ID: id}, nil
	}
	c.warn(sc, "undeclared variable ~%s is used as text", name)
	return project.TextLiteral(name), nil
}

// lookupVariable finds a variable by name, also under its cloud name.
func (c *compiler) lookupVariable(t *project.Target, name string) (*project.Variable, bool) {
	if v, ok := c.builder.LookupVariable(t, name); ok {
		return v, true
	}
	return c.builder.LookupVariable(t, project.CloudName(name))
}

var (
	keyPhrase        = regexp.MustCompile(`^按下\s*(.+?)\s*键\s*\??$`)
	touchColorPhrase = regexp.MustCompile(`^碰到颜色\s*(#[0-9A-Fa-f]{6})\s*\??$`)
	touchPhrase      = regexp.MustCompile(`^碰到\s*(.+?)\s*\??$`)
	notPhrase        = regexp.MustCompile(`^(?:非|不是|(?i:not))\s+(.+)$`)
)

var logicWords = []struct {
	words []string
	tok   ast.TokenType
}{
	{[]string{" 或 ", " or ", " OR "}, ast.TokenOr},
	{[]string{" 且 ", " and ", " AND "}, ast.TokenAnd},
}

// condition compiles the text of a boolean slot and returns the block
// computing it.
func (c *compiler) condition(sc *scope, text string) (project.BlockID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty condition")
	}
	for _, lw := range logicWords {
		pos, word := -1, ""
		for _, w := range lw.words {
			if i := lastTop(text, w); i > pos {
				pos, word = i, w
			}
		}
		if pos < 0 {
			continue
		}
		l, err := c.condition(sc, text[:pos])
		if err != nil {
			return "", err
		}
		r, err := c.condition(sc, text[pos+len(word):])
		if err != nil {
			return "", err
		}
		v, err := c.binary(sc, lw.tok, project.ReporterRef{ID: l}, project.ReporterRef{ID: r})
		if err != nil {
			return "", err
		}
		return v.(project.ReporterRef).ID, nil
	}
	if m := notPhrase.FindStringSubmatch(text); m != nil && !IsComplex(text) {
		inner, err := c.condition(sc, m[1])
		if err != nil {
			return "", err
		}
		v, err := c.not(sc, project.ReporterRef{ID: inner})
		if err != nil {
			return "", err
		}
		return v.(project.ReporterRef).ID, nil
	}
	if m := keyPhrase.FindStringSubmatch(text); m != nil {
		menu := c.menuShadow(sc, opcode.KeyMenu, m[1])
		return c.block(sc, opcode.SensingKeyPressed, project.ShadowInput("KEY_OPTION", menu)), nil
	}
	if m := touchColorPhrase.FindStringSubmatch(text); m != nil {
		color := project.Literal{Kind: project.Color, Text: m[1]}
		return c.block(sc, opcode.SensingTouchingColor, project.LiteralInput("COLOR", color)), nil
	}
	if m := touchPhrase.FindStringSubmatch(text); m != nil {
		menu := c.menuShadow(sc, opcode.TouchingObjectMenu, m[1])
		return c.block(sc, opcode.SensingTouchingObject, project.ShadowInput("TOUCHINGOBJECTMENU", menu)), nil
	}
	if text == "鼠标按下" || text == "鼠标按下?" {
		return c.block(sc, opcode.SensingMouseDown), nil
	}
	v, err := c.value(sc, text)
	if err != nil {
		return "", err
	}
	ref, ok := v.(project.ReporterRef)
	if !ok {
		return "", errors.Errorf("%q is not a condition", text)
	}
	return ref.ID, nil
}

func (c *compiler) block(sc *scope, o opcode.Opcode, inputs ...project.Input) project.BlockID {
	return c.builder.AddBlock(sc.target, project.BlockSpec{Opcode: o, Inputs: inputs})
}

// menuShadow adds the shadow menu block of a menu set to the word.
func (c *compiler) menuShadow(sc *scope, m *opcode.Menu, word string) project.BlockID {
	return c.builder.AddShadow(sc.target, m.Opcode, project.Field{
		Name:  m.Field,
		Value: m.Vocab.Value(unquote(word)),
	})
}

var joinPattern = regexp.MustCompile(`^连接\s*\(`)

// joinArgs splits a whole-text join call into its arguments.
func joinArgs(text string) ([]string, bool) {
	loc := joinPattern.FindStringIndex(text)
	if loc == nil || !strings.HasSuffix(text, ")") {
		return nil, false
	}
	inner := text[loc[1] : len(text)-1]
	// the closing parenthesis must match the opening one
	depth := 0
	for _, r := range stripQuoted(inner) {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 {
			return nil, false
		}
	}
	if depth != 0 {
		return nil, false
	}
	return splitTop(inner, ','), true
}

// join builds a right nested operator_join chain over the parts.
func (c *compiler) join(sc *scope, parts []string) (project.Value, error) {
	switch len(parts) {
	case 0:
		return project.TextLiteral(""), nil
	case 1:
		return c.part(sc, parts[0])
	}
	l, err := c.part(sc, parts[0])
	if err != nil {
		return nil, err
	}
	r, err := c.join(sc, parts[1:])
	if err != nil {
		return nil, err
	}
	return c.reporter(sc, opcode.OperatorJoin,
		input("STRING1", opcode.SlotText, l),
		input("STRING2", opcode.SlotText, r),
	), nil
}

// part compiles one operand of a join or of say content: a quoted literal,
// a ~ reference or expression, a reporter phrase, or literal text.
func (c *compiler) part(sc *scope, text string) (project.Value, error) {
	text = strings.TrimSpace(text)
	switch {
	case isQuoted(text):
		return project.TextLiteral(unquote(text)), nil
	case strings.HasPrefix(text, "~") || strings.HasPrefix(text, "("):
		return c.value(sc, text)
	}
	if args, ok := joinArgs(text); ok {
		return c.join(sc, args)
	}
	if f, ok := parseNumber(text); ok {
		return project.NumberLiteral(f), nil
	}
	if isPhrase(text) {
		return c.value(sc, text)
	}
	return project.TextLiteral(text), nil
}

// isPhrase reports whether text is one of the reporter phrases.
func isPhrase(text string) bool {
	for _, re := range []*regexp.Regexp{modPhrase, randomPhrase, letterPhrase, containsPhrase, lengthPhrase} {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
