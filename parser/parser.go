// Package parser builds the AST for one object file from its token
// stream. It is a predictive recursive-descent parser driven by leading
// keywords; a syntax error aborts only the statement it occurs in and
// the parser resynchronizes at the next statement terminator or block
// boundary.
package parser

import (
	"github.com/plaintalk-lang/plaintalk/ast"
	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/token"
	"github.com/plaintalk-lang/plaintalk/types"
)

type Parser struct {
	tokens  []token.Token
	current int
	bag     *diag.Bag

	// failed marks the statement being parsed as broken; the statement
	// driver drops it and resynchronizes.
	failed bool

	// headerCond suppresses `is` as an equality operator while parsing
	// an if/while condition, where `is` introduces the branch selector.
	headerCond bool
}

func New(tokens []token.Token, bag *diag.Bag) *Parser {
	return &Parser{tokens: tokens, bag: bag}
}

// ParseFile parses a whole object file: top-level variable and function
// declarations in any order.
func (p *Parser) ParseFile(name string) *ast.File {
	file := &ast.File{Name: name}
	for !p.IsAtEnd() {
		if !p.match(token.CREATE) {
			p.errorf(p.peek().Span, "expected a declaration, found %v", p.peek().Kind)
			p.advance()
			p.sync()

			continue
		}

		if p.function() {
			fn := p.funcDecl()
			if p.failed {
				p.failed = false
				p.sync()

				continue
			}
			file.Funcs = append(file.Funcs, fn)

			continue
		}

		decl := p.varDecl()
		if p.failed {
			p.failed = false
			p.sync()

			continue
		}
		if decl.Role != ast.Plain {
			p.errorf(decl.Span(), "%s variables may only be declared in a function or repeat header", decl.Role)
			decl.Role = ast.Plain
		}
		file.Vars = append(file.Vars, decl)
	}

	return file
}

// ParseStmt parses one statement, for the REPL.
func (p *Parser) ParseStmt() ast.Stmt {
	s := p.stmt()
	if p.failed {
		return nil
	}

	return s
}

// function reports whether the upcoming `create` declares a function:
// the FUNCTION keyword shows up before VARIABLE, a terminator or a
// header colon.
func (p *Parser) function() bool {
	for n := 1; ; n++ {
		switch p.peekNth(n).Kind {
		case token.FUNCTION:
			return true
		case token.VARIABLE, token.PERIOD, token.COLON, token.EOF:
			return false
		}
	}
}

// varDecl = "create" [vis] [role] type "variable" IDENT "with" expr "." ;
func (p *Parser) varDecl() *ast.VarDecl {
	create := p.consume(token.CREATE)

	vis := ast.Public
	if p.match(token.PUBLIC) {
		p.advance()
	} else if p.match(token.PRIVATE) {
		p.advance()
		vis = ast.Private
	}

	role := ast.Plain
	switch {
	case p.match(token.INPUT):
		p.advance()
		role = ast.Input
	case p.match(token.OUTPUT):
		p.advance()
		role = ast.Output
	case p.match(token.INDEX):
		p.advance()
		role = ast.Index
	}

	typ := p.typ()
	p.consume(token.VARIABLE)
	name := p.consume(token.IDENT)
	p.consume(token.WITH)
	init := p.expr()
	p.consume(token.PERIOD)

	return &ast.VarDecl{
		Create:       create,
		Vis:          vis,
		Role:         role,
		DeclaredType: typ,
		Name:         name,
		Init:         init,
	}
}

// funcDecl = "create" [vis] "function" IDENT ":" INDENT
//
//	{input-decl} [output-decl] {statement} DEDENT ;
func (p *Parser) funcDecl() *ast.FuncDecl {
	create := p.consume(token.CREATE)

	vis := ast.Public
	if p.match(token.PUBLIC) {
		p.advance()
	} else if p.match(token.PRIVATE) {
		p.advance()
		vis = ast.Private
	}

	p.consume(token.FUNCTION)
	name := p.consume(token.IDENT)
	body := p.block(false)

	fn := &ast.FuncDecl{Create: create, Vis: vis, Name: name}

	// Split the leading input declarations and the single output
	// declaration out of the body. Later role declarations are demoted
	// to plain locals after a diagnostic, so analysis can continue.
	header := true
	for _, s := range body {
		decl, ok := s.(*ast.VarDecl)
		if !ok || (decl.Role != ast.Input && decl.Role != ast.Output) {
			header = false
			fn.Body = append(fn.Body, s)

			continue
		}

		switch {
		case !header:
			p.errorf(decl.Span(), "%s variables must be declared at the start of the function", decl.Role)
			decl.Role = ast.Plain
			fn.Body = append(fn.Body, decl)
		case decl.Role == ast.Input && fn.Output != nil:
			p.errorf(decl.Span(), "input variables must be declared before the output variable")
			decl.Role = ast.Plain
			fn.Body = append(fn.Body, decl)
		case decl.Role == ast.Input:
			fn.Inputs = append(fn.Inputs, decl)
		case fn.Output != nil:
			p.errorf(decl.Span(), "function %s already has an output variable", name.Lexeme)
			decl.Role = ast.Plain
			fn.Body = append(fn.Body, decl)
		default:
			fn.Output = decl
		}
	}

	return fn
}

// block = ":" INDENT {statement} DEDENT ;
//
// allowIndex admits index variable declarations, which are only legal
// inside a repeat block.
func (p *Parser) block(allowIndex bool) []ast.Stmt {
	p.consume(token.COLON)
	p.consume(token.INDENT)
	if p.failed {
		return nil
	}

	stmts := p.statements(allowIndex)
	p.consume(token.DEDENT)

	return stmts
}

func (p *Parser) statements(allowIndex bool) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.IsAtEnd() && !p.match(token.DEDENT) {
		before := p.current
		s := p.stmt()
		if p.failed {
			p.failed = false
			if p.current == before {
				p.advance()
			}
			p.sync()

			continue
		}
		if s == nil {
			continue
		}
		if decl, ok := s.(*ast.VarDecl); ok && decl.Role == ast.Index && !allowIndex {
			p.errorf(decl.Span(), "index variables may only be declared in a repeat block")
			decl.Role = ast.Plain
		}
		stmts = append(stmts, s)
	}

	return stmts
}

func (p *Parser) stmt() ast.Stmt {
	//exhaustive:ignore
	switch p.peek().Kind {
	case token.CREATE:
		if p.function() {
			p.errorf(p.peek().Span, "functions may only be declared at file scope")
			p.failed = true

			return nil
		}

		return p.varDecl()
	case token.CHANGE:
		return p.change()
	case token.CALL:
		return p.call()
	case token.RETURN:
		ret := p.advance()
		p.consume(token.PERIOD)

		return &ast.Return{Tok: ret}
	case token.IF:
		return p.ifChain()
	case token.REPEAT:
		return p.repeat()
	case token.WHILE:
		return p.while()
	case token.OTHERWISE:
		p.errorf(p.peek().Span, "`otherwise` without a preceding `if` at this level")
		p.failed = true

		return nil
	default:
		p.errorf(p.peek().Span, "expected a statement, found %v", p.peek().Kind)
		p.failed = true

		return nil
	}
}

// change = "change" target "to" expr "." | "change" target "by" expr "." ;
func (p *Parser) change() ast.Stmt {
	change := p.consume(token.CHANGE)
	target := p.target()

	switch {
	case p.match(token.TO):
		p.advance()
		value := p.expr()
		p.consume(token.PERIOD)

		return &ast.Assign{Change: change, Target: target, Value: value}
	case p.match(token.BY):
		p.advance()
		amount := p.expr()
		p.consume(token.PERIOD)

		return &ast.Increment{Change: change, Target: target, Amount: amount}
	default:
		p.errorf(p.peek().Span, "expected `to` or `by` after the change target")
		p.failed = true

		return nil
	}
}

// call = "call" target ["with" arg {"," arg} ["and" arg]] "." ;
func (p *Parser) call() ast.Stmt {
	call := p.consume(token.CALL)
	target := p.target()

	var args []ast.Expr
	if p.match(token.WITH) {
		p.advance()
		args = append(args, p.arg())
		sawAnd := false
	loop:
		for {
			switch {
			case p.match(token.COMMA):
				p.advance()
				args = append(args, p.arg())
			case p.match(token.AND):
				p.advance()
				args = append(args, p.arg())
				sawAnd = true

				break loop
			default:
				break loop
			}
		}
		if len(args) > 1 && !sawAnd {
			p.errorf(p.peek().Span, "the final argument must be introduced by `and`")
		}
	}
	p.consume(token.PERIOD)

	return &ast.CallStmt{Call: call, Target: target, Args: args}
}

// arg = literal | IDENT | IDENT "'s" IDENT ;
//
// Arguments and collection keys are restricted to literals and variable
// references; compound expressions must first be bound to a variable.
func (p *Parser) arg() ast.Expr {
	//exhaustive:ignore
	switch p.peek().Kind {
	case token.INTEGER, token.FLOAT, token.STRING, token.BOOLEAN, token.NOTHING:
		return &ast.Literal{Tok: p.advance()}
	case token.IDENT:
		return p.target()
	default:
		p.errorf(p.peek().Span, "arguments must be literals or variable references, found %v", p.peek().Kind)
		p.failed = true

		return nil
	}
}

// ifChain = if-block {otherwise-if-block} [otherwise-block] ;
func (p *Parser) ifChain() ast.Stmt {
	tok := p.consume(token.IF)
	cond, want := p.condition()
	body := p.block(false)
	if p.failed {
		return nil
	}

	stmt := &ast.If{Tok: tok, Cond: cond, Want: want, Body: body}

	for p.match(token.OTHERWISE) && p.peekNth(1).Kind == token.IF {
		otok := p.advance()
		p.advance()
		cond, want := p.condition()
		body := p.block(false)
		if p.failed {
			return stmt
		}
		stmt.Elifs = append(stmt.Elifs, &ast.OtherwiseIf{Tok: otok, Cond: cond, Want: want, Body: body})
	}

	if p.match(token.OTHERWISE) {
		otok := p.advance()
		body := p.block(false)
		if p.failed {
			return stmt
		}
		stmt.Else = &ast.Otherwise{Tok: otok, Body: body}
	}

	return stmt
}

// condition = expr "is" BOOLEAN ;
func (p *Parser) condition() (ast.Expr, bool) {
	p.headerCond = true
	cond := p.expr()
	p.headerCond = false

	p.consume(token.IS)
	want := true
	if tok := p.consume(token.BOOLEAN); tok.Kind == token.BOOLEAN {
		want = tok.Literal.(bool)
	}

	return cond, want
}

// repeat = "repeat" expr "times" ":" INDENT [index-decl] {statement} DEDENT ;
func (p *Parser) repeat() ast.Stmt {
	tok := p.consume(token.REPEAT)
	count := p.expr()
	p.consume(token.TIMES)
	body := p.block(true)
	if p.failed {
		return nil
	}

	stmt := &ast.Repeat{Tok: tok, Count: count, Body: body}
	for i, s := range body {
		decl, ok := s.(*ast.VarDecl)
		if !ok || decl.Role != ast.Index {
			continue
		}
		if i == 0 {
			stmt.Index = decl
			stmt.Body = body[1:]
			p.checkIndex(decl)

			continue
		}
		p.errorf(decl.Span(), "the index variable must be the first statement of the repeat block")
		decl.Role = ast.Plain
	}

	return stmt
}

// checkIndex enforces the repeat-index contract: integer declared type
// and a non-nothing initial value.
func (p *Parser) checkIndex(decl *ast.VarDecl) {
	if !decl.DeclaredType.Equal(types.Integer) {
		p.errorf(decl.Span(), "index variable %s must be declared integer, not %s", decl.Name.Lexeme, decl.DeclaredType)
	}
	if lit, ok := decl.Init.(*ast.Literal); ok && lit.Tok.Kind == token.NOTHING {
		p.errorf(decl.Span(), "index variable %s may not start at nothing", decl.Name.Lexeme)
	}
}

// while = "while" expr "is" BOOLEAN ":" block ;
func (p *Parser) while() ast.Stmt {
	tok := p.consume(token.WHILE)
	cond, want := p.condition()
	body := p.block(false)
	if p.failed {
		return nil
	}

	return &ast.While{Tok: tok, Cond: cond, Want: want, Body: body}
}

// target = IDENT | IDENT "'s" IDENT ;
func (p *Parser) target() ast.Expr {
	name := p.consume(token.IDENT)
	if p.match(token.POSSESSIVE) {
		p.advance()
		member := p.consume(token.IDENT)

		return &ast.Member{File: name, Name: member}
	}

	return &ast.Ref{Name: name}
}

// Expression grammar, loosest first:
// expr = and-chain {"or" and-chain} ;
func (p *Parser) expr() ast.Expr {
	left := p.andExpr()
	for p.match(token.OR) {
		op := p.advance()
		left = &ast.Binary{Left: left, Op: op, Right: p.andExpr()}
	}

	return left
}

func (p *Parser) andExpr() ast.Expr {
	left := p.notExpr()
	for p.match(token.AND) {
		op := p.advance()
		left = &ast.Binary{Left: left, Op: op, Right: p.notExpr()}
	}

	return left
}

func (p *Parser) notExpr() ast.Expr {
	if p.match(token.NOT) {
		op := p.advance()

		return &ast.Unary{Op: op, Operand: p.notExpr()}
	}

	return p.cmpExpr()
}

// cmpExpr = addExpr {("==" | "!=" | "<" | "<=" | ">" | ">=" | "is") addExpr} ;
//
// `is` reads as equality except in an if/while header, where it
// introduces the true/false branch selector instead.
func (p *Parser) cmpExpr() ast.Expr {
	left := p.addExpr()
	for p.matchOp("==", "!=", "<", "<=", ">", ">=") || (!p.headerCond && p.match(token.IS)) {
		op := p.advance()
		left = &ast.Binary{Left: left, Op: op, Right: p.addExpr()}
	}

	return left
}

func (p *Parser) addExpr() ast.Expr {
	left := p.mulExpr()
	for p.matchOp("+", "-") {
		op := p.advance()
		left = &ast.Binary{Left: left, Op: op, Right: p.mulExpr()}
	}

	return left
}

func (p *Parser) mulExpr() ast.Expr {
	left := p.powExpr()
	for p.matchOp("*", "/", "%") {
		op := p.advance()
		left = &ast.Binary{Left: left, Op: op, Right: p.powExpr()}
	}

	return left
}

// powExpr is right-associative.
func (p *Parser) powExpr() ast.Expr {
	left := p.asExpr()
	if p.matchOp("^") {
		op := p.advance()

		return &ast.Binary{Left: left, Op: op, Right: p.powExpr()}
	}

	return left
}

func (p *Parser) asExpr() ast.Expr {
	x := p.primary()
	for p.match(token.AS) {
		as := p.advance()
		x = &ast.Convert{X: x, As: as, Target: p.typ()}
	}

	return x
}

// primary = literal | "nothing" | IDENT ["'s" IDENT] | "new" IDENT
//
//	| "look-up" arg "in" target ;
func (p *Parser) primary() ast.Expr {
	//exhaustive:ignore
	switch p.peek().Kind {
	case token.INTEGER, token.FLOAT, token.STRING, token.BOOLEAN, token.NOTHING:
		return &ast.Literal{Tok: p.advance()}
	case token.IDENT:
		return p.target()
	case token.NEW:
		tok := p.advance()
		file := p.consume(token.IDENT)

		return &ast.New{Tok: tok, File: file}
	case token.LOOKUP:
		tok := p.advance()
		key := p.arg()
		p.consume(token.IN)
		container := p.target()

		return &ast.Lookup{Tok: tok, Key: key, Container: container}
	default:
		p.errorf(p.peek().Span, "expected an expression, found %v", p.peek().Kind)
		p.failed = true

		return nil
	}
}

// typ = "list" "of" typ | "dictionary" "of" typ "to" typ
//
//	| primitive | file-name ;
func (p *Parser) typ() types.Type {
	tok := p.consume(token.IDENT)
	if tok.Kind != token.IDENT {
		return types.General
	}

	switch tok.Lexeme {
	case "list":
		p.consume(token.OF)

		return &types.List{Elem: p.typ()}
	case "dictionary":
		p.consume(token.OF)
		key := p.typ()
		p.consume(token.TO)

		return &types.Dictionary{Key: key, Value: p.typ()}
	default:
		if prim, ok := types.Primitive(tok.Lexeme); ok {
			return prim
		}

		return &types.File{Name: tok.Lexeme}
	}
}

// errorf records a syntax diagnostic unless the current statement has
// already failed, which keeps one mistake from cascading.
func (p *Parser) errorf(span token.Span, format string, args ...any) {
	if p.failed {
		return
	}
	p.bag.Errorf(span, format, args...)
}

// sync skips ahead to the next statement boundary: just past a period,
// right before a block marker, or — once it has moved at least one
// token — before a statement-leading keyword. The keyword stop keeps a
// statement that failed after consuming its own period from swallowing
// the next one.
func (p *Parser) sync() {
	for !p.IsAtEnd() {
		switch p.peek().Kind {
		case token.PERIOD:
			p.advance()

			return
		case token.INDENT, token.DEDENT,
			token.CREATE, token.CHANGE, token.CALL, token.RETURN,
			token.IF, token.REPEAT, token.WHILE:
			return
		default:
			p.advance()
		}
	}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekNth(n int) token.Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[p.current+n]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.IsAtEnd() {
		p.current++
	}

	return tok
}

func (p *Parser) IsAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) match(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) matchOp(lexemes ...string) bool {
	if p.peek().Kind != token.OPERATOR {
		return false
	}
	for _, lexeme := range lexemes {
		if p.peek().Lexeme == lexeme {
			return true
		}
	}

	return false
}

// consume advances past a token of the wanted kind. On a mismatch it
// records a diagnostic, marks the statement failed and stays put.
func (p *Parser) consume(kind token.Kind) token.Token {
	if p.match(kind) {
		return p.advance()
	}

	if !p.failed {
		p.errorf(p.peek().Span, "expected %v, found %v", kind, p.peek().Kind)
		p.failed = true
	}

	return p.peek()
}
