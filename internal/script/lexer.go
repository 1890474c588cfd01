package script

import "strings"

// lexer is a byte-level scanner over one source string.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (lx *lexer) eof() bool {
	return lx.off >= len(lx.src)
}

func (lx *lexer) peek() byte {
	if lx.eof() {
		return 0
	}
	return lx.src[lx.off]
}

func (lx *lexer) peekAt(n int) byte {
	if lx.off+n >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+n]
}

// bump advances one byte and keeps line/col bookkeeping.
func (lx *lexer) bump() byte {
	if lx.eof() {
		return 0
	}
	b := lx.src[lx.off]
	lx.off++
	if b == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return b
}

func (lx *lexer) pos() Pos {
	return Pos{Line: lx.line, Col: lx.col}
}

// skipTrivia consumes whitespace and line comments.
func (lx *lexer) skipTrivia() {
	for !lx.eof() {
		switch b := lx.peek(); {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			lx.bump()
		case b == '/' && lx.peekAt(1) == '/':
			for !lx.eof() && lx.peek() != '\n' {
				lx.bump()
			}
		default:
			return
		}
	}
}

// next returns the next significant token.
func (lx *lexer) next() (Token, error) {
	lx.skipTrivia()
	start := lx.pos()
	if lx.eof() {
		return Token{Kind: TokEOF, Pos: start}, nil
	}

	b := lx.peek()
	switch {
	case isIdentStart(b):
		return lx.scanIdentOrKeyword(start), nil
	case isDigit(b):
		return lx.scanInt(start), nil
	case b == '"':
		return lx.scanString(start)
	}

	lx.bump()
	one := func(k TokenKind) (Token, error) {
		return Token{Kind: k, Text: string(b), Pos: start}, nil
	}
	two := func(k TokenKind, text string) (Token, error) {
		lx.bump()
		return Token{Kind: k, Text: text, Pos: start}, nil
	}

	switch b {
	case '(':
		return one(TokLParen)
	case ')':
		return one(TokRParen)
	case '{':
		return one(TokLBrace)
	case '}':
		return one(TokRBrace)
	case '[':
		return one(TokLBracket)
	case ']':
		return one(TokRBracket)
	case ',':
		return one(TokComma)
	case ':':
		return one(TokColon)
	case ';':
		return one(TokSemi)
	case '@':
		return one(TokAt)
	case '+':
		return one(TokPlus)
	case '-':
		return one(TokMinus)
	case '*':
		return one(TokStar)
	case '/':
		return one(TokSlash)
	case '%':
		return one(TokPercent)
	case '=':
		if lx.peek() == '=' {
			return two(TokEq, "==")
		}
		return one(TokAssign)
	case '!':
		if lx.peek() == '=' {
			return two(TokNe, "!=")
		}
		return one(TokBang)
	case '<':
		if lx.peek() == '=' {
			return two(TokLe, "<=")
		}
		return one(TokLt)
	case '>':
		if lx.peek() == '=' {
			return two(TokGe, ">=")
		}
		return one(TokGt)
	case '&':
		if lx.peek() == '&' {
			return two(TokAndAnd, "&&")
		}
	case '|':
		if lx.peek() == '|' {
			return two(TokOrOr, "||")
		}
	}
	return Token{}, errorf(start, "unexpected character %q", string(b))
}

func (lx *lexer) scanIdentOrKeyword(start Pos) Token {
	from := lx.off
	for !lx.eof() && isIdentContinue(lx.peek()) {
		lx.bump()
	}
	text := lx.src[from:lx.off]
	if kw, ok := keywords[text]; ok {
		return Token{Kind: kw, Text: text, Pos: start}
	}
	return Token{Kind: TokIdent, Text: text, Pos: start}
}

func (lx *lexer) scanInt(start Pos) Token {
	from := lx.off
	for !lx.eof() && isDigit(lx.peek()) {
		lx.bump()
	}
	return Token{Kind: TokInt, Text: lx.src[from:lx.off], Pos: start}
}

func (lx *lexer) scanString(start Pos) (Token, error) {
	lx.bump() // opening quote
	var b strings.Builder
	for {
		if lx.eof() || lx.peek() == '\n' {
			return Token{}, errorf(start, "unterminated string literal")
		}
		ch := lx.bump()
		if ch == '"' {
			return Token{Kind: TokString, Text: b.String(), Pos: start}, nil
		}
		if ch == '\\' {
			esc := lx.bump()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				return Token{}, errorf(start, "unknown escape \\%s", string(esc))
			}
			continue
		}
		b.WriteByte(ch)
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
