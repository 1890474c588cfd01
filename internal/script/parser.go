package script

import "strconv"

// parser is a recursive-descent parser with one token of lookahead.
type parser struct {
	lx  *lexer
	tok Token
}

func newParser(src string) (*parser, error) {
	p := &parser{lx: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseProgram parses a whole script: declarations and statements.
func ParseProgram(src string) ([]Stmt, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.tok.Kind != TokEOF {
		st, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return stmts, nil
}

// ParseExpression parses a single expression, e.g. a call expression
// entered by the user. Trailing input is rejected.
func ParseExpression(src string) (Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind == TokSemi {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.Kind != TokEOF {
		return nil, errorf(p.tok.Pos, "unexpected %s after expression", p.tok.Kind)
	}
	return e, nil
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	if p.tok.Kind != kind {
		return Token{}, errorf(p.tok.Pos, "expected %s, found %s", kind, p.tok.Kind)
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// eat consumes the current token when it matches kind.
func (p *parser) eat(kind TokenKind) (bool, error) {
	if p.tok.Kind != kind {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) parseStmt() (Stmt, error) {
	switch p.tok.Kind {
	case TokAt:
		return p.parseAttributedFn()
	case TokFn:
		return p.parseFnDecl(false)
	case TokLet:
		return p.parseLet()
	case TokReturn:
		return p.parseReturn()
	case TokIf:
		return p.parseIf()
	case TokWhile:
		return p.parseWhile()
	default:
		return p.parseSimpleStmt()
	}
}

// parseAttributedFn handles `@trace` followed by a function declaration.
func (p *parser) parseAttributedFn() (Stmt, error) {
	at := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if name.Text != "trace" {
		return nil, errorf(at, "unknown attribute @%s (only @trace is supported)", name.Text)
	}
	if p.tok.Kind != TokFn {
		return nil, errorf(p.tok.Pos, "@trace must be followed by a function declaration")
	}
	return p.parseFnDecl(true)
}

func (p *parser) parseFnDecl(traced bool) (Stmt, error) {
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	var params []string
	seen := map[string]bool{}
	for p.tok.Kind != TokRParen {
		param, err := p.expect(TokIdent)
		if err != nil {
			return nil, err
		}
		if seen[param.Text] {
			return nil, errorf(param.Pos, "duplicate parameter %q", param.Text)
		}
		seen[param.Text] = true
		params = append(params, param.Text)
		ok, err := p.eat(TokComma)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FnDecl{Pos: pos, Name: name.Text, Params: params, Body: body, Traced: traced}, nil
}

func (p *parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	var stmts []Stmt
	for p.tok.Kind != TokRBrace {
		if p.tok.Kind == TokEOF {
			return nil, errorf(p.tok.Pos, "unterminated block")
		}
		st, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseLet() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	return &LetStmt{Pos: pos, Name: name.Text, Value: value}, nil
}

func (p *parser) parseReturn() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	st := &ReturnStmt{Pos: pos}
	if p.tok.Kind != TokSemi && p.tok.Kind != TokRBrace && p.tok.Kind != TokEOF {
		value, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		st.Value = value
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *parser) parseIf() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	st := &IfStmt{Pos: pos, Cond: cond, Then: then}
	ok, err := p.eat(TokElse)
	if err != nil {
		return nil, err
	}
	if ok {
		if p.tok.Kind == TokIf {
			nested, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			st.Else = []Stmt{nested}
		} else {
			st.Else, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
	}
	return st, nil
}

func (p *parser) parseWhile() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Pos: pos, Cond: cond, Body: body}, nil
}

// parseSimpleStmt parses assignments and expression statements.
func (p *parser) parseSimpleStmt() (Stmt, error) {
	pos := p.tok.Pos
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.tok.Kind == TokAssign {
		id, ok := e.(*Ident)
		if !ok {
			return nil, errorf(p.tok.Pos, "left side of assignment must be a variable")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if err := p.terminator(); err != nil {
			return nil, err
		}
		return &AssignStmt{Pos: pos, Name: id.Name, Value: value}, nil
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	return &ExprStmt{Pos: pos, X: e}, nil
}

// terminator consumes an optional statement terminator.
func (p *parser) terminator() error {
	_, err := p.eat(TokSemi)
	return err
}

// binPrec returns the binding power of a binary operator, or 0 when the
// token is not one.
func binPrec(kind TokenKind) int {
	switch kind {
	case TokOrOr:
		return 1
	case TokAndAnd:
		return 2
	case TokEq, TokNe:
		return 3
	case TokLt, TokLe, TokGt, TokGe:
		return 4
	case TokPlus, TokMinus:
		return 5
	case TokStar, TokSlash, TokPercent:
		return 6
	default:
		return 0
	}
}

// parseExpr is a precedence climber over binPrec.
func (p *parser) parseExpr(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := binPrec(p.tok.Kind)
		if prec == 0 || prec <= minPrec {
			return left, nil
		}
		op := p.tok.Kind
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Pos: pos, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.tok.Kind {
	case TokMinus, TokBang:
		op := p.tok.Kind
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Pos: pos, Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by index suffixes.
func (p *parser) parsePostfix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.tok.Kind == TokLBracket {
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		idx, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		e = &IndexExpr{Pos: pos, Target: e, Index: idx}
	}
	return e, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.tok
	switch tok.Kind {
	case TokInt:
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, errorf(tok.Pos, "integer literal %s out of range", tok.Text)
		}
		return &IntLit{Pos: tok.Pos, Value: v}, nil

	case TokString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StrLit{Pos: tok.Pos, Value: tok.Text}, nil

	case TokTrue, TokFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &BoolLit{Pos: tok.Pos, Value: tok.Kind == TokTrue}, nil

	case TokNull:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NullLit{Pos: tok.Pos}, nil

	case TokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.Kind == TokLParen {
			return p.parseCallArgs(tok)
		}
		return &Ident{Pos: tok.Pos, Name: tok.Text}, nil

	case TokLBracket:
		if err := p.advance(); err != nil {
			return nil, err
		}
		arr := &ArrLit{Pos: tok.Pos}
		for p.tok.Kind != TokRBracket {
			elem, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, elem)
			ok, err := p.eat(TokComma)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		return arr, nil

	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, errorf(tok.Pos, "unexpected %s", tok.Kind)
}

// parseCallArgs parses the argument list of a call. Positional arguments
// must precede keyword arguments, which use `name: value` form.
func (p *parser) parseCallArgs(callee Token) (Expr, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	call := &CallExpr{Pos: callee.Pos, Callee: callee.Text}
	sawKwarg := false
	seen := map[string]bool{}
	for p.tok.Kind != TokRParen {
		var arg CallArg
		if p.tok.Kind == TokIdent {
			// Lookahead for `name:` keyword form.
			name := p.tok
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.Kind == TokColon {
				if err := p.advance(); err != nil {
					return nil, err
				}
				if seen[name.Text] {
					return nil, errorf(name.Pos, "duplicate keyword argument %q", name.Text)
				}
				seen[name.Text] = true
				value, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				arg = CallArg{Name: name.Text, Value: value}
				sawKwarg = true
			} else {
				value, err := p.continueExprFromIdent(name)
				if err != nil {
					return nil, err
				}
				arg = CallArg{Value: value}
			}
		} else {
			value, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			arg = CallArg{Value: value}
		}
		if arg.Name == "" && sawKwarg {
			return nil, errorf(p.tok.Pos, "positional argument after keyword argument")
		}
		call.Args = append(call.Args, arg)
		ok, err := p.eat(TokComma)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return call, nil
}

// continueExprFromIdent finishes an expression whose leading identifier was
// already consumed by keyword-argument lookahead.
func (p *parser) continueExprFromIdent(id Token) (Expr, error) {
	var e Expr
	if p.tok.Kind == TokLParen {
		call, err := p.parseCallArgs(id)
		if err != nil {
			return nil, err
		}
		e = call
	} else {
		e = &Ident{Pos: id.Pos, Name: id.Text}
	}
	// Resume postfix and binary parsing around the rebuilt primary.
	for p.tok.Kind == TokLBracket {
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		idx, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return nil, err
		}
		e = &IndexExpr{Pos: pos, Target: e, Index: idx}
	}
	for {
		prec := binPrec(p.tok.Kind)
		if prec == 0 {
			return e, nil
		}
		op := p.tok.Kind
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}
		e = &BinaryExpr{Pos: pos, Op: op, Left: e, Right: right}
	}
}
