package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/mkcmd/log"
)

// Option configures the parser.
type Option func(*parser)

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// WithFilename records the source file name in parse errors.
func WithFilename(name string) Option {
	return func(p *parser) { p.filename = name }
}

// ParseReader parses a Script from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses a Script from a string.
func ParseString(ctx context.Context, s string, opts ...Option) (*Script, error) {
	p := &parser{
		input: []byte(s),
		line:  1,
		col:   1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	script, err := p.parseScript()
	if err != nil {
		p.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("node_count", len(script.Nodes)))

	return script, nil
}

// Characters that end a bare word.
const (
	wordStop = "{}[],;\"'"
	condStop = wordStop + "=!<>"
)

// parser holds the parser state.
type parser struct {
	input    []byte
	pos      int
	line     int
	col      int
	filename string
	logger   log.Logger
}

type mark struct{ pos, line, col int }

func (p *parser) mark() mark { return mark{p.pos, p.line, p.col} }

func (p *parser) reset(m mark) { p.pos, p.line, p.col = m.pos, m.line, m.col }

// parseScript parses: (Node Sep)*.
func (p *parser) parseScript() (*Script, error) {
	script := new(Script)

	for {
		p.skipBlank()

		if p.eof() {
			return script, nil
		}

		if !isIdentifierStart(p.peek()) {
			return nil, p.errorf(p.position(),
				"expected node name, found %s", p.found())
		}

		n, err := p.parseNode()
		if err != nil {
			return nil, err
		}

		script.Nodes = append(script.Nodes, n)

		if err := p.endStatement(false); err != nil {
			return nil, err
		}
	}
}

// parseNode parses: Identifier Identifier* Block.
func (p *parser) parseNode() (*Node, error) {
	pos := p.position()

	name, err := p.parseName("node name")
	if err != nil {
		return nil, err
	}

	var params []string

	for {
		p.skipInline()

		if !isIdentifierStart(p.peek()) {
			break
		}

		param, err := p.parseName("parameter name")
		if err != nil {
			return nil, err
		}

		params = append(params, param)
	}

	if p.peek() != '{' {
		return nil, p.errorf(p.position(),
			"expected '{' after node %q, found %s", name, p.found())
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &Node{
		Name:   name,
		Params: params,
		Body:   body,
		Pos:    pos,
	}, nil
}

// parseBlock parses: '{' (Statement Sep)* '}'.
func (p *parser) parseBlock() ([]Statement, error) {
	open := p.position()

	p.advance() // skip '{'

	body := make([]Statement, 0)

	for {
		p.skipBlank()

		if p.eof() {
			return nil, p.errorf(open, "unterminated block, expected '}'")
		}

		if p.peek() == '}' {
			p.advance()

			return body, nil
		}

		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		body = append(body, st)

		if err := p.endStatement(true); err != nil {
			return nil, err
		}
	}
}

// endStatement consumes the separator after a statement. A closing brace
// also ends a statement inside a block and is left for the block.
func (p *parser) endStatement(inBlock bool) error {
	p.skipInline()

	if p.eof() {
		return nil
	}

	switch ch := p.peek(); {
	case ch == '\n' || ch == ';':
		p.advance()

		return nil

	case ch == '}' && inBlock:
		return nil

	default:
		return p.errorf(p.position(),
			"expected newline or ';', found %s", p.found())
	}
}

func (p *parser) parseStatement() (Statement, error) {
	if p.peek() == '>' {
		return p.parseExec()
	}

	if !isIdentifierStart(p.peek()) {
		return nil, p.errorf(p.position(),
			"expected statement, found %s", p.found())
	}

	start := p.mark()
	pos := p.position()

	switch word := p.parseIdentifier(); word {
	case KeywordDepends:
		return p.parseDepends()

	case KeywordIf:
		return p.parseIf()

	case KeywordFor:
		return p.parseFor()

	case KeywordElse:
		return nil, p.errorf(pos, "'else' without 'if'")

	case KeywordIn:
		return nil, p.errorf(pos, "unexpected 'in'")

	default:
		p.skipInline()

		if p.peek() == '=' && p.peekN(2) != "==" {
			p.advance() // skip '='

			return p.parseAssign(word)
		}
	}

	p.reset(start)

	n, err := p.parseNode()
	if err != nil {
		return nil, err
	}

	return &Command{Node: n}, nil
}

// parseExec parses: '>' Text, where Text runs to the end of the line or to
// a closing brace without a matching opening brace on the same line.
// A backslash before the newline continues the text on the next line.
func (p *parser) parseExec() (*Exec, error) {
	pos := p.position()

	p.advance() // skip '>'
	p.skipInline()

	start := p.pos
	depth := 0

	var quote rune

scan:
	for !p.eof() {
		ch := p.peek()

		switch {
		case ch == '\n':
			break scan

		case ch == '\\' && p.peekN(2) == "\\\n":
			p.advance()

		case quote != 0:
			if ch == '\\' && quote == '"' {
				p.advance()
			} else if ch == quote {
				quote = 0
			}

		case ch == '"' || ch == '\'':
			quote = ch

		case ch == '{':
			depth++

		case ch == '}':
			if depth == 0 {
				break scan
			}

			depth--
		}

		p.advance()
	}

	text := strings.TrimSpace(string(p.input[start:p.pos]))
	if text == "" {
		return nil, p.errorf(pos, "expected command text after '>'")
	}

	return &Exec{Text: text}, nil
}

// parseAssign parses the value of: Identifier '=' Value.
func (p *parser) parseAssign(name string) (*Assign, error) {
	p.skipInline()

	value, err := p.parseValue("value for "+strconv.Quote(name), wordStop)
	if err != nil {
		return nil, err
	}

	return &Assign{Name: name, Value: value}, nil
}

// parseDepends parses the names of: 'depends' Identifier (',' Identifier)*.
func (p *parser) parseDepends() (*Depends, error) {
	var names []string

	for {
		p.skipInline()

		name, err := p.parseName("dependency name")
		if err != nil {
			return nil, err
		}

		names = append(names, name)

		p.skipInline()

		if p.peek() != ',' {
			return &Depends{Names: names}, nil
		}

		p.advance() // skip ','
		p.skipSpace()
	}
}

// parseIf parses the rest of: 'if' Condition Block ('else' (If | Block))?.
func (p *parser) parseIf() (*If, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	p.skipInline()

	if p.peek() != '{' {
		return nil, p.errorf(p.position(),
			"expected '{' after condition, found %s", p.found())
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	st := &If{Cond: cond, Then: then}

	after := p.mark()

	p.skipSpace()

	if !p.keyword(KeywordElse) {
		p.reset(after)

		return st, nil
	}

	p.skipInline()

	switch {
	case p.keyword(KeywordIf):
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		st.Else = []Statement{nested}

	case p.peek() == '{':
		st.Else, err = p.parseBlock()
		if err != nil {
			return nil, err
		}

	default:
		return nil, p.errorf(p.position(),
			"expected 'if' or '{' after 'else', found %s", p.found())
	}

	return st, nil
}

// parseCondition parses: Value Operator Value.
func (p *parser) parseCondition() (Condition, error) {
	var (
		cond Condition
		err  error
	)

	p.skipInline()

	if cond.Left, err = p.parseValue("condition operand", condStop); err != nil {
		return cond, err
	}

	p.skipInline()

	if cond.Op, err = p.parseOperator(); err != nil {
		return cond, err
	}

	p.skipInline()

	if cond.Right, err = p.parseValue("condition operand", condStop); err != nil {
		return cond, err
	}

	return cond, nil
}

func (p *parser) parseOperator() (string, error) {
	switch two := p.peekN(2); two {
	case OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual:
		p.advance()
		p.advance()

		return two, nil
	}

	switch ch := p.peek(); {
	case ch == '>' || ch == '<':
		p.advance()

		return string(ch), nil

	case isIdentifierStart(ch):
		return p.parseIdentifier(), nil
	}

	return "", p.errorf(p.position(),
		"expected comparison operator, found %s", p.found())
}

// parseFor parses the rest of: 'for' Identifier 'in' List Block.
func (p *parser) parseFor() (*For, error) {
	p.skipInline()

	name, err := p.parseName("loop variable")
	if err != nil {
		return nil, err
	}

	p.skipInline()

	if !p.keyword(KeywordIn) {
		return nil, p.errorf(p.position(),
			"expected 'in' after loop variable %q, found %s", name, p.found())
	}

	p.skipInline()

	items, err := p.parseList()
	if err != nil {
		return nil, err
	}

	p.skipInline()

	if p.peek() != '{' {
		return nil, p.errorf(p.position(),
			"expected '{' after loop items, found %s", p.found())
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &For{Var: name, Items: items, Body: body}, nil
}

// parseList parses: '[' (Value (',' Value)* ','?)? ']'.
func (p *parser) parseList() ([]string, error) {
	open := p.position()

	if p.peek() != '[' {
		return nil, p.errorf(open, "expected '[', found %s", p.found())
	}

	p.advance()

	items := make([]string, 0)

	for {
		p.skipSpace()

		if p.eof() {
			return nil, p.errorf(open, "unterminated list, expected ']'")
		}

		if p.peek() == ']' {
			p.advance()

			return items, nil
		}

		item, err := p.parseValue("list item", wordStop)
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		p.skipSpace()

		switch p.peek() {
		case ',':
			p.advance()
		case ']':
		default:
			if p.eof() {
				continue
			}

			return nil, p.errorf(p.position(),
				"expected ',' or ']', found %s", p.found())
		}
	}
}

// parseValue parses a double-quoted string, a single-quoted raw string or a
// bare word ending at whitespace or any rune in stop.
func (p *parser) parseValue(what, stop string) (string, error) {
	switch p.peek() {
	case '"':
		return p.parseQuoted()
	case '\'':
		return p.parseRaw()
	}

	word := p.parseWord(stop)
	if word == "" {
		return "", p.errorf(p.position(),
			"expected %s, found %s", what, p.found())
	}

	return word, nil
}

func (p *parser) parseQuoted() (string, error) {
	pos := p.position()
	start := p.pos

	p.advance() // skip opening quote

	for !p.eof() && p.peek() != '\n' {
		switch p.peek() {
		case '\\':
			p.advance()

		case '"':
			p.advance()

			return unquote(string(p.input[start+1 : p.pos-1])), nil
		}

		p.advance()
	}

	return "", p.errorf(pos, "unterminated string")
}

// unquote decodes the escapes of a double-quoted string body. An unknown
// escape is kept literally, backslash included.
func unquote(s string) string {
	var b strings.Builder

	for len(s) > 0 {
		if s[0] != '\\' {
			r, size := utf8.DecodeRuneInString(s)
			b.WriteRune(r)
			s = s[size:]

			continue
		}

		r, multibyte, tail, err := strconv.UnquoteChar(s, '"')
		if err != nil {
			b.WriteByte('\\')
			s = s[1:]

			continue
		}

		if multibyte || r < utf8.RuneSelf {
			b.WriteRune(r)
		} else {
			b.WriteByte(byte(r))
		}

		s = tail
	}

	return b.String()
}

func (p *parser) parseRaw() (string, error) {
	pos := p.position()

	p.advance() // skip opening quote

	start := p.pos

	for !p.eof() && p.peek() != '\n' {
		if p.peek() == '\'' {
			s := string(p.input[start:p.pos])

			p.advance()

			return s, nil
		}

		p.advance()
	}

	return "", p.errorf(pos, "unterminated string")
}

// parseWord reads a bare word. A "${...}" reference is read whole.
func (p *parser) parseWord(stop string) string {
	start := p.pos

	for !p.eof() {
		ch := p.peek()

		if ch == '$' && p.peekN(2) == "${" {
			end := strings.IndexAny(string(p.input[p.pos:]), "}\n")
			if end > 0 && p.input[p.pos+end] == '}' {
				for range utf8.RuneCount(p.input[p.pos : p.pos+end+1]) {
					p.advance()
				}

				continue
			}
		}

		if unicode.IsSpace(ch) || strings.ContainsRune(stop, ch) {
			break
		}

		p.advance()
	}

	return string(p.input[start:p.pos])
}

// parseName parses an identifier that is not a reserved word.
func (p *parser) parseName(what string) (string, error) {
	pos := p.position()

	name := p.parseIdentifier()
	if name == "" {
		return "", p.errorf(pos, "expected %s, found %s", what, p.found())
	}

	if IsKeyword(name) {
		return "", p.errorf(pos, "%s %q is a reserved word", what, name)
	}

	return name, nil
}

// parseIdentifier reads an identifier token, or returns the empty string if
// none starts at the current position. Identifiers may contain interior
// '-' and '.' separators.
func (p *parser) parseIdentifier() string {
	start := p.pos

	if !isIdentifierStart(p.peek()) {
		return ""
	}

	p.advance()

	for !p.eof() {
		ch := p.peek()

		if isIdentifierContinue(ch) {
			p.advance()

			continue
		}

		if ch == '-' || ch == '.' {
			next, _ := utf8.DecodeRune(p.input[p.pos+1:])
			if isIdentifierContinue(next) {
				p.advance()

				continue
			}
		}

		break
	}

	return string(p.input[start:p.pos])
}

// keyword consumes kw if it is the next identifier.
func (p *parser) keyword(kw string) bool {
	m := p.mark()

	if p.parseIdentifier() == kw {
		return true
	}

	p.reset(m)

	return false
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

// found describes the next rune for error messages.
func (p *parser) found() string {
	if p.eof() {
		return "end of input"
	}

	return strconv.QuoteRune(p.peek())
}

// skipInline skips spaces and comments, stopping before a newline.
func (p *parser) skipInline() {
	for !p.eof() {
		ch := p.peek()

		switch {
		case ch != '\n' && unicode.IsSpace(ch):
			p.advance()

		case ch == '#' || p.peekN(2) == "//":
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}

		default:
			return
		}
	}
}

// skipSpace skips spaces, newlines and comments.
func (p *parser) skipSpace() {
	for {
		p.skipInline()

		if p.peek() != '\n' {
			return
		}

		p.advance()
	}
}

// skipBlank skips spaces, newlines, comments and empty statements.
func (p *parser) skipBlank() {
	for {
		p.skipSpace()

		if p.peek() != ';' {
			return
		}

		p.advance()
	}
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
