package script

// Expr is any expression node.
type Expr interface {
	exprPos() Pos
}

// Stmt is any statement node.
type Stmt interface {
	stmtPos() Pos
}

type (
	// IntLit is an integer literal.
	IntLit struct {
		Pos   Pos
		Value int64
	}

	// StrLit is a string literal with escapes resolved.
	StrLit struct {
		Pos   Pos
		Value string
	}

	// BoolLit is true or false.
	BoolLit struct {
		Pos   Pos
		Value bool
	}

	// NullLit is the null literal.
	NullLit struct {
		Pos Pos
	}

	// Ident is a variable reference.
	Ident struct {
		Pos  Pos
		Name string
	}

	// ArrLit is an array literal.
	ArrLit struct {
		Pos   Pos
		Elems []Expr
	}

	// IndexExpr is target[index].
	IndexExpr struct {
		Pos    Pos
		Target Expr
		Index  Expr
	}

	// UnaryExpr is -x or !x.
	UnaryExpr struct {
		Pos     Pos
		Op      TokenKind
		Operand Expr
	}

	// BinaryExpr is a binary operation.
	BinaryExpr struct {
		Pos   Pos
		Op    TokenKind
		Left  Expr
		Right Expr
	}

	// CallArg is one call argument; Name is empty for positional
	// arguments and set for `name: value` keyword arguments.
	CallArg struct {
		Name  string
		Value Expr
	}

	// CallExpr calls a named function.
	CallExpr struct {
		Pos    Pos
		Callee string
		Args   []CallArg
	}
)

func (e *IntLit) exprPos() Pos     { return e.Pos }
func (e *StrLit) exprPos() Pos     { return e.Pos }
func (e *BoolLit) exprPos() Pos    { return e.Pos }
func (e *NullLit) exprPos() Pos    { return e.Pos }
func (e *Ident) exprPos() Pos      { return e.Pos }
func (e *ArrLit) exprPos() Pos     { return e.Pos }
func (e *IndexExpr) exprPos() Pos  { return e.Pos }
func (e *UnaryExpr) exprPos() Pos  { return e.Pos }
func (e *BinaryExpr) exprPos() Pos { return e.Pos }
func (e *CallExpr) exprPos() Pos   { return e.Pos }

type (
	// FnDecl declares a function. Traced is set by the @trace attribute.
	FnDecl struct {
		Pos    Pos
		Name   string
		Params []string
		Body   []Stmt
		Traced bool
	}

	// LetStmt introduces a binding in the current scope.
	LetStmt struct {
		Pos   Pos
		Name  string
		Value Expr
	}

	// AssignStmt rebinds an existing variable.
	AssignStmt struct {
		Pos   Pos
		Name  string
		Value Expr
	}

	// ReturnStmt returns from the enclosing function; Value may be nil.
	ReturnStmt struct {
		Pos   Pos
		Value Expr
	}

	// IfStmt is a conditional with an optional else block.
	IfStmt struct {
		Pos  Pos
		Cond Expr
		Then []Stmt
		Else []Stmt
	}

	// WhileStmt is a pre-condition loop.
	WhileStmt struct {
		Pos  Pos
		Cond Expr
		Body []Stmt
	}

	// ExprStmt evaluates an expression for its effect.
	ExprStmt struct {
		Pos Pos
		X   Expr
	}
)

func (s *FnDecl) stmtPos() Pos     { return s.Pos }
func (s *LetStmt) stmtPos() Pos    { return s.Pos }
func (s *AssignStmt) stmtPos() Pos { return s.Pos }
func (s *ReturnStmt) stmtPos() Pos { return s.Pos }
func (s *IfStmt) stmtPos() Pos     { return s.Pos }
func (s *WhileStmt) stmtPos() Pos  { return s.Pos }
func (s *ExprStmt) stmtPos() Pos   { return s.Pos }
