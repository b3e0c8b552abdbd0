package calc

import "fmt"

// maxDepth bounds the nesting of parentheses, calls and unary signs, which
// also bounds the recursion of Eval.
const maxDepth = 200

type parser struct {
	tokens []token
	pos    int
	depth  int
}

// Parse builds the expression tree of src without evaluating it.
func Parse(src string) (Node, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, unexpected(tok)
	}
	return node, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) error {
	if tok := p.next(); tok.kind != kind {
		return &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("expected %s, found %s", kind, describe(tok))}
	}
	return nil
}

func (p *parser) enter(tok token) error {
	p.depth++
	if p.depth > maxDepth {
		return &SyntaxError{Pos: tok.pos, Msg: "expression nested too deeply"}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// expr := term (("+" | "-") term)*
func (p *parser) expr() (Node, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	var rest []operand
	for {
		op := p.peek().kind
		if op != tokPlus && op != tokMinus {
			break
		}
		p.next()
		x, err := p.term()
		if err != nil {
			return nil, err
		}
		rest = append(rest, operand{op: op, x: x})
	}
	if len(rest) == 0 {
		return first, nil
	}
	return &chain{first: first, rest: rest}, nil
}

// term := unary (("*" | "/") unary)*
func (p *parser) term() (Node, error) {
	first, err := p.unary()
	if err != nil {
		return nil, err
	}
	var rest []operand
	for {
		op := p.peek().kind
		if op != tokStar && op != tokSlash {
			break
		}
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		rest = append(rest, operand{op: op, x: x})
	}
	if len(rest) == 0 {
		return first, nil
	}
	return &chain{first: first, rest: rest}, nil
}

// unary := ("+" | "-") unary | primary
func (p *parser) unary() (Node, error) {
	if op := p.peek().kind; op == tokPlus || op == tokMinus {
		if err := p.enter(p.next()); err != nil {
			return nil, err
		}
		defer p.leave()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unary{op: op, x: x}, nil
	}
	return p.primary()
}

// primary := number | ident "(" args ")" | "(" expr ")"
func (p *parser) primary() (Node, error) {
	tok := p.next()
	if tok.kind == tokNumber {
		return number(tok.value), nil
	}
	if tok.kind != tokIdent && tok.kind != tokLParen {
		return nil, unexpected(tok)
	}

	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()

	switch tok.kind {
	case tokIdent:
		return p.call(tok)
	default:
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return node, nil
	}
}

func (p *parser) call(name token) (Node, error) {
	fn, ok := functions[name.text]
	if !ok {
		return nil, &SyntaxError{Pos: name.pos, Msg: fmt.Sprintf("name %q is not defined", name.text)}
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	var args []Node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return nil, &SyntaxError{Pos: name.pos, Msg: fmt.Sprintf("%s() %s, got %d", fn.name, arity(fn), len(args))}
	}
	return &call{fn: fn, args: args}, nil
}

func arity(fn *function) string {
	switch {
	case fn.maxArgs < 0:
		return fmt.Sprintf("takes at least %d arguments", fn.minArgs)
	case fn.minArgs == fn.maxArgs && fn.minArgs == 1:
		return "takes exactly 1 argument"
	case fn.minArgs == fn.maxArgs:
		return fmt.Sprintf("takes exactly %d arguments", fn.minArgs)
	}
	return fmt.Sprintf("takes %d to %d arguments", fn.minArgs, fn.maxArgs)
}

func unexpected(tok token) error {
	return &SyntaxError{Pos: tok.pos, Msg: "unexpected " + describe(tok)}
}

func describe(tok token) string {
	switch tok.kind {
	case tokEOF:
		return tok.kind.String()
	case tokNumber, tokIdent:
		return fmt.Sprintf("%s %q", tok.kind, tok.text)
	}
	return tok.kind.String()
}
