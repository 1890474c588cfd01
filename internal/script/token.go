package script

import "fmt"

// Pos is a 1-based source position.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// TokenKind enumerates lexical token kinds.
type TokenKind uint8

const (
	TokEOF TokenKind = iota
	TokIdent
	TokInt
	TokString

	// keywords
	TokFn
	TokLet
	TokReturn
	TokIf
	TokElse
	TokWhile
	TokTrue
	TokFalse
	TokNull

	// punctuation and operators
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokComma
	TokColon
	TokSemi
	TokAt
	TokAssign
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokEq
	TokNe
	TokLt
	TokLe
	TokGt
	TokGe
	TokAndAnd
	TokOrOr
	TokBang
)

var tokenNames = map[TokenKind]string{
	TokEOF:      "end of input",
	TokIdent:    "identifier",
	TokInt:      "integer",
	TokString:   "string",
	TokFn:       "'fn'",
	TokLet:      "'let'",
	TokReturn:   "'return'",
	TokIf:       "'if'",
	TokElse:     "'else'",
	TokWhile:    "'while'",
	TokTrue:     "'true'",
	TokFalse:    "'false'",
	TokNull:     "'null'",
	TokLParen:   "'('",
	TokRParen:   "')'",
	TokLBrace:   "'{'",
	TokRBrace:   "'}'",
	TokLBracket: "'['",
	TokRBracket: "']'",
	TokComma:    "','",
	TokColon:    "':'",
	TokSemi:     "';'",
	TokAt:       "'@'",
	TokAssign:   "'='",
	TokPlus:     "'+'",
	TokMinus:    "'-'",
	TokStar:     "'*'",
	TokSlash:    "'/'",
	TokPercent:  "'%'",
	TokEq:       "'=='",
	TokNe:       "'!='",
	TokLt:       "'<'",
	TokLe:       "'<='",
	TokGt:       "'>'",
	TokGe:       "'>='",
	TokAndAnd:   "'&&'",
	TokOrOr:     "'||'",
	TokBang:     "'!'",
}

// String returns a human-readable name for error messages.
func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return "unknown token"
}

var keywords = map[string]TokenKind{
	"fn":     TokFn,
	"let":    TokLet,
	"return": TokReturn,
	"if":     TokIf,
	"else":   TokElse,
	"while":  TokWhile,
	"true":   TokTrue,
	"false":  TokFalse,
	"null":   TokNull,
}

// Token is one lexical token with its source position.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Pos
}
