package schema

import "strings"

const defaultBuilderVar = "table"

// Arg is one argument of a call. Pos and End delimit its value in the source,
// excluding any named-argument label; Start is where the label begins.
type Arg struct {
	Name   string
	Tokens []Token
	Raw    string
	Start  int
	Pos    int
	End    int
}

// Literal returns the value of an argument made of a single string literal.
func (a Arg) Literal() (string, bool) {
	if len(a.Tokens) == 1 && a.Tokens[0].Kind == TokenString {
		return a.Tokens[0].Text, true
	}
	return "", false
}

// Value returns the literal value of a string argument, the raw source text otherwise.
func (a Arg) Value() string {
	if lit, ok := a.Literal(); ok {
		return lit
	}
	return a.Raw
}

// Literals returns every string literal inside the argument, e.g. the
// members of an array argument.
func (a Arg) Literals() []string {
	var out []string
	for _, tok := range a.Tokens {
		if tok.Kind == TokenString {
			out = append(out, tok.Text)
		}
	}
	return out
}

// Call is one method call in a builder chain.
type Call struct {
	Method string
	Args   []Arg
}

// arg returns the positional argument at index, or the argument labelled name.
func (c Call) arg(index int, name string) (Arg, bool) {
	positional := 0
	for _, a := range c.Args {
		if a.Name == "" {
			if positional == index {
				return a, true
			}
			positional++
			continue
		}
		if a.Name == name {
			return a, true
		}
	}
	return Arg{}, false
}

// Chain is a builder statement such as $table->string('name')->nullable().
type Chain struct {
	Var   string
	Calls []Call
	Raw   string
}

// Head returns the first call, the column type or index method.
func (c Chain) Head() Call {
	return c.Calls[0]
}

// Modifier returns the first chained modifier with the given name.
func (c Chain) Modifier(name string) (Call, bool) {
	for _, call := range c.Calls[1:] {
		if call.Method == name {
			return call, true
		}
	}
	return Call{}, false
}

// Has reports whether the chain carries the named modifier.
func (c Chain) Has(name string) bool {
	_, ok := c.Modifier(name)
	return ok
}

// parser is a recursive-descent reader over a token stream.
type parser struct {
	src  string
	toks []Token
	pos  int
}

// parseChains returns every call chain rooted at one of the builder variables.
// Statements that do not parse are skipped.
func parseChains(src string, toks []Token, vars map[string]bool) []Chain {
	p := &parser{src: src, toks: toks}
	var chains []Chain

	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		if tok.Kind == TokenVariable && vars[tok.Text] {
			if chain, ok := p.parseChain(); ok {
				chains = append(chains, chain)
				continue
			}
		}
		p.pos++
	}

	return chains
}

func (p *parser) parseChain() (Chain, bool) {
	start := p.pos
	root := p.toks[start]
	p.pos++

	var calls []Call
	for p.at(0, TokenArrow, "") && p.at(1, TokenIdent, "") && p.at(2, TokenPunct, "(") {
		method := p.toks[p.pos+1].Text
		save := p.pos
		p.pos += 2
		args, ok := p.parseArgs()
		if !ok {
			p.pos = save
			break
		}
		calls = append(calls, Call{Method: method, Args: args})
	}

	if len(calls) == 0 {
		p.pos = start
		return Chain{}, false
	}

	end := p.toks[p.pos-1].End
	return Chain{Var: root.Text, Calls: calls, Raw: p.src[root.Pos:end]}, true
}

// parseArgs reads a parenthesised argument list starting at "(" and leaves
// the parser after the matching ")". Arguments are split on top-level commas.
func (p *parser) parseArgs() ([]Arg, bool) {
	p.pos++

	var args []Arg
	var current []Token
	depth := 0

	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		p.pos++

		if tok.Kind == TokenPunct {
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					if tok.Text != ")" {
						return nil, false
					}
					if len(current) > 0 {
						args = append(args, p.newArg(current))
					}
					return args, true
				}
				depth--
			case ",":
				if depth == 0 {
					if len(current) > 0 {
						args = append(args, p.newArg(current))
					}
					current = nil
					continue
				}
			case ";":
				if depth == 0 {
					return nil, false
				}
			}
		}

		current = append(current, tok)
	}

	return nil, false
}

func (p *parser) newArg(toks []Token) Arg {
	var name string
	start := toks[0].Pos
	if len(toks) > 2 && toks[0].Kind == TokenIdent && toks[1].is(TokenPunct, ":") {
		name = toks[0].Text
		toks = toks[2:]
	}

	pos, end := toks[0].Pos, toks[len(toks)-1].End
	return Arg{Name: name, Tokens: toks, Raw: p.src[pos:end], Start: start, Pos: pos, End: end}
}

func (p *parser) at(offset int, kind TokenKind, text string) bool {
	i := p.pos + offset
	if i >= len(p.toks) {
		return false
	}
	if p.toks[i].Kind != kind {
		return false
	}
	return text == "" || p.toks[i].Text == text
}

// builderVars returns the names of Blueprint closure parameters, or the
// conventional "table" when none is declared.
func builderVars(toks []Token) map[string]bool {
	vars := make(map[string]bool)
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Kind != TokenIdent || toks[i+1].Kind != TokenVariable {
			continue
		}
		name := toks[i].Text
		if name == "Blueprint" || strings.HasSuffix(name, `\Blueprint`) {
			vars[toks[i+1].Text] = true
		}
	}
	if len(vars) == 0 {
		vars[defaultBuilderVar] = true
	}
	return vars
}

// createStmt is one table-creation statement and the text of its closure body.
type createStmt struct {
	Table string
	Body  string
}

// findCreates locates "::create('name', ...)" and "->create('name', ...)"
// statements. The body runs from the first "{" after the table name to its
// matching "}"; when no brace can be matched the rest of the text is used.
func findCreates(src string, toks []Token) []createStmt {
	var stmts []createStmt

	for i := 0; i+3 < len(toks); i++ {
		if toks[i].Kind != TokenDoubleColon && toks[i].Kind != TokenArrow {
			continue
		}
		if !toks[i+1].is(TokenIdent, "create") || !toks[i+2].is(TokenPunct, "(") || toks[i+3].Kind != TokenString {
			continue
		}

		nameTok := toks[i+3]
		stmt := createStmt{Table: nameTok.Text, Body: src[nameTok.End:]}

		if open := indexOfPunct(toks, i+4, "{"); open >= 0 {
			if closing := matchBrace(toks, open); closing >= 0 {
				stmt.Body = src[toks[open].End:toks[closing].Pos]
			}
		}

		stmts = append(stmts, stmt)
	}

	return stmts
}

func indexOfPunct(toks []Token, from int, text string) int {
	for i := from; i < len(toks); i++ {
		if toks[i].is(TokenPunct, text) {
			return i
		}
		if toks[i].is(TokenPunct, ";") {
			return -1
		}
	}
	return -1
}

func matchBrace(toks []Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case toks[i].is(TokenPunct, "{"):
			depth++
		case toks[i].is(TokenPunct, "}"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
