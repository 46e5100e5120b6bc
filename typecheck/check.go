// Package typecheck walks resolved syntax trees bottom-up, annotating
// every expression with its type and validating the declared contracts:
// initializer compatibility, call arity and positional types, numeric
// increments, collection lookups and conversions. It never aborts; a
// violation becomes a diagnostic and the expression falls back to
// general so later checks in the same pass stay useful.
package typecheck

import (
	"github.com/plaintalk-lang/plaintalk/ast"
	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/token"
	"github.com/plaintalk-lang/plaintalk/types"
)

type Checker struct {
	bag *diag.Bag
}

func New(bag *diag.Bag) *Checker {
	return &Checker{bag: bag}
}

// File checks one resolved file: top-level initializers first, then
// every function body.
func (c *Checker) File(file *ast.File) {
	for _, v := range file.Vars {
		c.varDecl(v)
	}
	for _, f := range file.Funcs {
		for _, in := range f.Inputs {
			c.varDecl(in)
		}
		if f.Output != nil {
			c.varDecl(f.Output)
		}
		c.stmts(f.Body)
	}
}

func (c *Checker) varDecl(v *ast.VarDecl) {
	got := c.expr(v.Init)
	if !types.Assignable(v.DeclaredType, got) {
		c.bag.Errorf(v.Name.Span, "cannot initialize %s variable %s with %s", v.DeclaredType, v.Name.Lexeme, got)
	}
}

func (c *Checker) stmts(body []ast.Stmt) {
	for _, s := range body {
		c.stmt(s)
	}
}

func (c *Checker) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		c.varDecl(s)
	case *ast.Assign:
		dst := c.expr(s.Target)
		src := c.expr(s.Value)
		if !types.Assignable(dst, src) {
			c.bag.Errorf(s.Change.Span, "cannot change %s to %s", dst, src)
		}
	case *ast.Increment:
		dst := c.expr(s.Target)
		amount := c.expr(s.Amount)
		// One diagnostic per offending side is enough; a string
		// counter should not also complain about its amount.
		switch {
		case !types.IsNumeric(dst) && dst != nil:
			c.bag.Errorf(s.Change.Span, "cannot change %s by an amount, it is not numeric", dst)
		case !types.IsNumeric(amount) && amount != nil && amount != types.Nothing:
			c.bag.Errorf(s.Change.Span, "change by requires a numeric amount, got %s", amount)
		}
	case *ast.CallStmt:
		c.call(s)
	case *ast.Return:
	case *ast.If:
		c.condition(s.Cond)
		c.stmts(s.Body)
		for _, elif := range s.Elifs {
			c.condition(elif.Cond)
			c.stmts(elif.Body)
		}
		if s.Else != nil {
			c.stmts(s.Else.Body)
		}
	case *ast.Repeat:
		count := c.expr(s.Count)
		if count != nil && count != types.Integer && count != types.General {
			c.bag.Errorf(s.Tok.Span, "repeat count must be an integer, got %s", count)
		}
		if s.Index != nil {
			c.varDecl(s.Index)
		}
		c.stmts(s.Body)
	case *ast.While:
		c.condition(s.Cond)
		c.stmts(s.Body)
	}
}

func (c *Checker) condition(e ast.Expr) {
	got := c.expr(e)
	if got != nil && got != types.Boolean && got != types.General && got != types.Nothing {
		c.bag.Errorf(e.Span(), "condition must be a boolean, got %s", got)
	}
}

func (c *Checker) call(s *ast.CallStmt) {
	fn := callee(s.Target)
	if fn == nil {
		// The resolver already reported what the target really is.
		for _, arg := range s.Args {
			c.expr(arg)
		}

		return
	}

	sig := fn.Type()
	if len(s.Args) != len(sig.Inputs) {
		c.bag.Errorf(s.Call.Span, "%s takes %d input(s), got %d argument(s)", fn.Name.Lexeme, len(sig.Inputs), len(s.Args))
	}
	for i, arg := range s.Args {
		got := c.expr(arg)
		if i >= len(sig.Inputs) {
			continue
		}
		if !types.Assignable(sig.Inputs[i], got) {
			c.bag.Errorf(arg.Span(), "argument %d of %s must be %s, got %s", i+1, fn.Name.Lexeme, sig.Inputs[i], got)
		}
	}
}

func callee(target ast.Expr) *ast.FuncDecl {
	switch target := target.(type) {
	case *ast.Ref:
		return target.Func
	case *ast.Member:
		return target.Func
	}

	return nil
}

// expr annotates e with its resolved type and returns it. A nil result
// means the resolver left the expression unbound; the caller skips its
// own check rather than piling a type error onto a scope error.
func (c *Checker) expr(e ast.Expr) types.Type {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.Literal:
		e.ResolvedType = literalType(e.Tok)

		return e.ResolvedType
	case *ast.Ref:
		e.ResolvedType = c.symbolType(e.Decl, e.Func, e.Name)

		return e.ResolvedType
	case *ast.Member:
		e.ResolvedType = c.symbolType(e.Decl, e.Func, e.Name)

		return e.ResolvedType
	case *ast.New:
		e.ResolvedType = &types.File{Name: e.File.Lexeme}

		return e.ResolvedType
	case *ast.Lookup:
		e.ResolvedType = c.lookup(e)

		return e.ResolvedType
	case *ast.Binary:
		e.ResolvedType = c.binary(e)

		return e.ResolvedType
	case *ast.Unary:
		operand := c.expr(e.Operand)
		if operand != nil && operand != types.Boolean && operand != types.General {
			c.bag.Errorf(e.Op.Span, "not requires a boolean operand, got %s", operand)
		}
		e.ResolvedType = types.Boolean

		return e.ResolvedType
	case *ast.Convert:
		e.ResolvedType = c.convert(e)

		return e.ResolvedType
	default:
		return types.General
	}
}

func literalType(tok token.Token) types.Type {
	switch tok.Kind {
	case token.INTEGER:
		return types.Integer
	case token.FLOAT:
		return types.Float
	case token.STRING:
		return types.String
	case token.BOOLEAN:
		return types.Boolean
	default:
		return types.Nothing
	}
}

// symbolType is the type of a variable or function reference in value
// position. Reading a function means reading its output slot, so a
// function without an output has no value to give.
func (c *Checker) symbolType(decl *ast.VarDecl, fn *ast.FuncDecl, name token.Token) types.Type {
	switch {
	case decl != nil:
		return decl.DeclaredType
	case fn != nil:
		if fn.Output == nil {
			c.bag.Errorf(name.Span, "function %s has no output and cannot be used as a value", fn.Name.Lexeme)

			return types.General
		}

		return fn.Output.DeclaredType
	default:
		return nil
	}
}

func (c *Checker) lookup(e *ast.Lookup) types.Type {
	key := c.expr(e.Key)
	container := c.expr(e.Container)

	switch container := container.(type) {
	case nil:
		return nil
	case *types.List:
		if key != nil && key != types.Integer && key != types.General && key != types.Nothing {
			c.bag.Errorf(e.Key.Span(), "list index must be an integer, got %s", key)
		}

		return container.Elem
	case *types.Dictionary:
		if !types.Assignable(container.Key, key) {
			c.bag.Errorf(e.Key.Span(), "dictionary key must be %s, got %s", container.Key, key)
		}

		return container.Value
	default:
		if container == types.General {
			return types.General
		}
		c.bag.Errorf(e.Tok.Span, "look-up requires a list or dictionary, got %s", container)

		return types.General
	}
}

func (c *Checker) binary(e *ast.Binary) types.Type {
	left := c.expr(e.Left)
	right := c.expr(e.Right)

	switch e.Op.Kind {
	case token.AND, token.OR:
		c.wantBoolean(left, e.Left, e.Op)
		c.wantBoolean(right, e.Right, e.Op)

		return types.Boolean
	case token.IS:
		// Equality between any two compatible values.
		if left != nil && right != nil && !types.Assignable(left, right) && !types.Assignable(right, left) {
			c.bag.Errorf(e.Op.Span, "cannot compare %s with %s", left, right)
		}

		return types.Boolean
	}

	switch e.Op.Lexeme {
	case "==", "!=":
		if left != nil && right != nil && !types.Assignable(left, right) && !types.Assignable(right, left) {
			c.bag.Errorf(e.Op.Span, "cannot compare %s with %s", left, right)
		}

		return types.Boolean
	case "<", "<=", ">", ">=":
		c.wantNumeric(left, e.Op)
		c.wantNumeric(right, e.Op)

		return types.Boolean
	case "+", "-", "*", "/", "%", "^":
		c.wantNumeric(left, e.Op)
		c.wantNumeric(right, e.Op)

		return arithmeticType(left, right)
	default:
		return types.General
	}
}

func (c *Checker) wantBoolean(got types.Type, operand ast.Expr, op token.Token) {
	if got != nil && got != types.Boolean && got != types.General {
		c.bag.Errorf(operand.Span(), "%s requires boolean operands, got %s", op.Lexeme, got)
	}
}

func (c *Checker) wantNumeric(got types.Type, op token.Token) {
	if got != nil && !types.IsNumeric(got) && got != types.Nothing {
		c.bag.Errorf(op.Span, "%s requires numeric operands, got %s", op.Lexeme, got)
	}
}

// arithmeticType widens to float when either side is a float; general
// stays general since the real type is unknown until run time.
func arithmeticType(left, right types.Type) types.Type {
	if left == types.Float || right == types.Float {
		return types.Float
	}
	if left == types.Integer && right == types.Integer {
		return types.Integer
	}

	return types.General
}

// convert validates `as`. Only numeric-to-numeric, primitive-to-string
// and string-to-numeric are declared conversions; anything else between
// primitives is left for the runtime to refuse. Unrelated compound
// types are rejected here.
func (c *Checker) convert(e *ast.Convert) types.Type {
	src := c.expr(e.X)
	dst := e.Target
	if src == nil || dst == nil {
		return dst
	}
	if src == types.General || dst == types.General || src == types.Nothing {
		return dst
	}
	if src.Equal(dst) {
		return dst
	}
	if !types.IsPrimitive(src) || !types.IsPrimitive(dst) {
		c.bag.Errorf(e.As.Span, "cannot convert %s to %s", src, dst)

		return dst
	}

	return dst
}
