package script

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lx := newLexer(src)
	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			t.Fatalf("lex %q: %v", src, err)
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks
		}
	}
}

func TestLexer_Tokens(t *testing.T) {
	cases := []struct {
		src  string
		want []TokenKind
	}{
		{"fn fib(n) {}", []TokenKind{TokFn, TokIdent, TokLParen, TokIdent, TokRParen, TokLBrace, TokRBrace, TokEOF}},
		{"@trace", []TokenKind{TokAt, TokIdent, TokEOF}},
		{"n <= 2 == true", []TokenKind{TokIdent, TokLe, TokInt, TokEq, TokTrue, TokEOF}},
		{"a && b || !c", []TokenKind{TokIdent, TokAndAnd, TokIdent, TokOrOr, TokBang, TokIdent, TokEOF}},
		{`"hi" + "there"`, []TokenKind{TokString, TokPlus, TokString, TokEOF}},
		{"x = 1 // comment\ny", []TokenKind{TokIdent, TokAssign, TokInt, TokIdent, TokEOF}},
		{"f(x: 1)", []TokenKind{TokIdent, TokLParen, TokIdent, TokColon, TokInt, TokRParen, TokEOF}},
	}
	for _, tc := range cases {
		toks := lexAll(t, tc.src)
		if len(toks) != len(tc.want) {
			t.Errorf("%q: got %d tokens, want %d", tc.src, len(toks), len(tc.want))
			continue
		}
		for i, k := range tc.want {
			if toks[i].Kind != k {
				t.Errorf("%q token %d = %v, want %v", tc.src, i, toks[i].Kind, k)
			}
		}
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb\"c"`)
	if toks[0].Text != "a\nb\"c" {
		t.Fatalf("string text = %q", toks[0].Text)
	}
}

func TestLexer_Positions(t *testing.T) {
	toks := lexAll(t, "let x = 1\nlet y = 2")
	last := toks[len(toks)-2] // the final int literal
	if last.Pos.Line != 2 {
		t.Errorf("line = %d, want 2", last.Pos.Line)
	}
}

func TestLexer_Errors(t *testing.T) {
	for _, src := range []string{`"unterminated`, "a $ b", `"bad \q escape"`} {
		lx := newLexer(src)
		var err error
		for err == nil {
			var tok Token
			tok, err = lx.next()
			if err == nil && tok.Kind == TokEOF {
				t.Errorf("%q: expected a lex error", src)
				break
			}
		}
	}
}
