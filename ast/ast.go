// Package ast defines the syntax tree for PlainTalk object files. All
// nodes are built once by the parser; the resolver and type checker
// fill in the Decl/Func/ResolvedType annotation fields and nothing is
// mutated after the front end completes.
package ast

import (
	"fmt"
	"strings"

	"github.com/plaintalk-lang/plaintalk/token"
	"github.com/plaintalk-lang/plaintalk/types"
)

type Node interface {
	fmt.Stringer
	Span() token.Span
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// File is one parsed object file, the unit of declaration ownership and
// instantiation.
type File struct {
	Name  string
	Vars  []*VarDecl
	Funcs []*FuncDecl
}

func (f File) String() string {
	elems := make([]fmt.Stringer, 0, len(f.Vars)+len(f.Funcs))
	for _, v := range f.Vars {
		elems = append(elems, v)
	}
	for _, fn := range f.Funcs {
		elems = append(elems, fn)
	}

	return parenthesize("file "+f.Name, elems...).String()
}

type Visibility int

const (
	Public Visibility = iota
	Private
)

func (v Visibility) String() string {
	if v == Private {
		return "private"
	}

	return "public"
}

type Role int

const (
	Plain Role = iota
	Input
	Output
	Index
)

func (r Role) String() string {
	switch r {
	case Input:
		return "input"
	case Output:
		return "output"
	case Index:
		return "index"
	default:
		return "plain"
	}
}

// VarDecl is `create [vis] [role] <type> variable <name> with <expr>.`
// Every variable carries an initializer, possibly the literal nothing.
type VarDecl struct {
	Create       token.Token
	Vis          Visibility
	Role         Role
	DeclaredType types.Type
	Name         token.Token
	Init         Expr
}

func (v VarDecl) String() string {
	head := "variable"
	if v.Role != Plain {
		head += " " + v.Role.String()
	}
	if v.Vis == Private {
		head += " private"
	}

	return parenthesize(head, word(v.Name.Lexeme), word(typeName(v.DeclaredType)), v.Init).String()
}

func (v *VarDecl) Span() token.Span { return v.Create.Span }
func (v *VarDecl) stmtNode()        {}

var _ Stmt = &VarDecl{}

// FuncDecl is `create [vis] function <name>:` plus its indented body.
// Inputs and the optional single output come first in the body and are
// split out of Body during parsing.
type FuncDecl struct {
	Create token.Token
	Vis    Visibility
	Name   token.Token
	Inputs []*VarDecl
	Output *VarDecl
	Body   []Stmt
}

func (f FuncDecl) String() string {
	head := "function"
	if f.Vis == Private {
		head += " private"
	}
	elems := []fmt.Stringer{word(f.Name.Lexeme)}
	for _, in := range f.Inputs {
		elems = append(elems, in)
	}
	if f.Output != nil {
		elems = append(elems, f.Output)
	}
	elems = append(elems, concat(f.Body))

	return parenthesize(head, elems...).String()
}

func (f *FuncDecl) Span() token.Span { return f.Create.Span }

// Type returns the function's resolved signature type.
func (f *FuncDecl) Type() *types.Function {
	sig := &types.Function{}
	for _, in := range f.Inputs {
		sig.Inputs = append(sig.Inputs, in.DeclaredType)
	}
	if f.Output != nil {
		sig.Output = f.Output.DeclaredType
	}

	return sig
}

// Assign is `change <target> to <expr>.`
type Assign struct {
	Change token.Token
	Target Expr // *Ref or *Member
	Value  Expr
}

func (a Assign) String() string {
	return parenthesize("change-to", a.Target, a.Value).String()
}

func (a *Assign) Span() token.Span { return a.Change.Span }
func (a *Assign) stmtNode()        {}

// Increment is `change <target> by <expr>.`
type Increment struct {
	Change token.Token
	Target Expr
	Amount Expr
}

func (i Increment) String() string {
	return parenthesize("change-by", i.Target, i.Amount).String()
}

func (i *Increment) Span() token.Span { return i.Change.Span }
func (i *Increment) stmtNode()        {}

// CallStmt is `call <target> [with <arg>, ... and <arg>].`
type CallStmt struct {
	Call   token.Token
	Target Expr // *Ref or *Member
	Args   []Expr
}

func (c CallStmt) String() string {
	return parenthesize("call", c.Target, concat(c.Args)).String()
}

func (c *CallStmt) Span() token.Span { return c.Call.Span }
func (c *CallStmt) stmtNode()        {}

type Return struct {
	Tok token.Token
}

func (r Return) String() string {
	return "(return)"
}

func (r *Return) Span() token.Span { return r.Tok.Span }
func (r *Return) stmtNode()        {}

// If is the head of an `if ... is true:` chain. OtherwiseIf blocks only
// attach to an immediately preceding chain at the same level.
type If struct {
	Tok   token.Token
	Cond  Expr
	Want  bool
	Body  []Stmt
	Elifs []*OtherwiseIf
	Else  *Otherwise
}

func (i If) String() string {
	elems := []fmt.Stringer{i.Cond, word(fmt.Sprintf("%t", i.Want)), concat(i.Body)}
	for _, elif := range i.Elifs {
		elems = append(elems, elif)
	}
	if i.Else != nil {
		elems = append(elems, i.Else)
	}

	return parenthesize("if", elems...).String()
}

func (i *If) Span() token.Span { return i.Tok.Span }
func (i *If) stmtNode()        {}

type OtherwiseIf struct {
	Tok  token.Token
	Cond Expr
	Want bool
	Body []Stmt
}

func (o OtherwiseIf) String() string {
	return parenthesize("otherwise-if", o.Cond, word(fmt.Sprintf("%t", o.Want)), concat(o.Body)).String()
}

func (o *OtherwiseIf) Span() token.Span { return o.Tok.Span }
func (o *OtherwiseIf) stmtNode()        {}

type Otherwise struct {
	Tok  token.Token
	Body []Stmt
}

func (o Otherwise) String() string {
	return parenthesize("otherwise", concat(o.Body)).String()
}

func (o *Otherwise) Span() token.Span { return o.Tok.Span }
func (o *Otherwise) stmtNode()        {}

// Repeat is `repeat <expr> times:` with an optional leading index
// variable declaration in its body.
type Repeat struct {
	Tok   token.Token
	Count Expr
	Index *VarDecl
	Body  []Stmt
}

func (r Repeat) String() string {
	elems := []fmt.Stringer{r.Count}
	if r.Index != nil {
		elems = append(elems, r.Index)
	}
	elems = append(elems, concat(r.Body))

	return parenthesize("repeat", elems...).String()
}

func (r *Repeat) Span() token.Span { return r.Tok.Span }
func (r *Repeat) stmtNode()        {}

type While struct {
	Tok  token.Token
	Cond Expr
	Want bool
	Body []Stmt
}

func (w While) String() string {
	return parenthesize("while", w.Cond, word(fmt.Sprintf("%t", w.Want)), concat(w.Body)).String()
}

func (w *While) Span() token.Span { return w.Tok.Span }
func (w *While) stmtNode()        {}

// Literal is an integer, float, string, boolean or nothing literal.
type Literal struct {
	Tok          token.Token
	ResolvedType types.Type
}

func (l Literal) String() string {
	return parenthesize("literal", word(l.Tok.Lexeme)).String()
}

func (l *Literal) Span() token.Span { return l.Tok.Span }
func (l *Literal) exprNode()        {}

// Ref is a plain variable (or function) reference. Exactly one of Decl
// and Func is set after resolution succeeds.
type Ref struct {
	Name token.Token

	Decl         *VarDecl
	Func         *FuncDecl
	ResolvedType types.Type
}

func (r Ref) String() string {
	return parenthesize("ref", word(r.Name.Lexeme)).String()
}

func (r *Ref) Span() token.Span { return r.Name.Span }
func (r *Ref) exprNode()        {}

// Member is `<file>'s <member>`: a by-name lookup into another object
// file's public declarations.
type Member struct {
	File token.Token
	Name token.Token

	Decl         *VarDecl
	Func         *FuncDecl
	ResolvedType types.Type
}

func (m Member) String() string {
	return parenthesize("member", word(m.File.Lexeme), word(m.Name.Lexeme)).String()
}

func (m *Member) Span() token.Span { return m.File.Span }
func (m *Member) exprNode()        {}

// New is `new <file>`, instantiating an object file.
type New struct {
	Tok          token.Token
	File         token.Token
	ResolvedType types.Type
}

func (n New) String() string {
	return parenthesize("new", word(n.File.Lexeme)).String()
}

func (n *New) Span() token.Span { return n.Tok.Span }
func (n *New) exprNode()        {}

// Lookup is `look-up <key> in <container>`. Key and container follow
// the argument restriction: literals and references only.
type Lookup struct {
	Tok          token.Token
	Key          Expr
	Container    Expr // *Ref or *Member
	ResolvedType types.Type
}

func (l Lookup) String() string {
	return parenthesize("look-up", l.Key, l.Container).String()
}

func (l *Lookup) Span() token.Span { return l.Tok.Span }
func (l *Lookup) exprNode()        {}

type Binary struct {
	Left         Expr
	Op           token.Token
	Right        Expr
	ResolvedType types.Type
}

func (b Binary) String() string {
	return parenthesize(b.Op.Lexeme, b.Left, b.Right).String()
}

func (b *Binary) Span() token.Span { return b.Op.Span }
func (b *Binary) exprNode()        {}

type Unary struct {
	Op           token.Token
	Operand      Expr
	ResolvedType types.Type
}

func (u Unary) String() string {
	return parenthesize(u.Op.Lexeme, u.Operand).String()
}

func (u *Unary) Span() token.Span { return u.Op.Span }
func (u *Unary) exprNode()        {}

// Convert is `<expr> as <type>`.
type Convert struct {
	X            Expr
	As           token.Token
	Target       types.Type
	ResolvedType types.Type
}

func (c Convert) String() string {
	return parenthesize("as", c.X, word(typeName(c.Target))).String()
}

func (c *Convert) Span() token.Span { return c.As.Span }
func (c *Convert) exprNode()        {}

type word string

func (w word) String() string {
	return string(w)
}

func typeName(t types.Type) string {
	if t == nil {
		return "?"
	}

	return t.String()
}

// parenthesize renders `(head elem elem ...)`, skipping empty elements.
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var builder strings.Builder
	builder.WriteString("(")
	builder.WriteString(head)
	for _, elem := range elems {
		if elem == nil {
			continue
		}
		str := elem.String()
		if str == "" {
			continue
		}
		builder.WriteString(" ")
		builder.WriteString(str)
	}
	builder.WriteString(")")

	return &builder
}

// concat joins the elements with spaces, without surrounding parens.
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var builder strings.Builder
	for _, elem := range elems {
		str := elem.String()
		if str == "" {
			continue
		}
		if builder.Len() != 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(str)
	}

	return &builder
}
