// Package resolve binds names to declarations. It runs in two passes
// over a program: Collect gathers every file's top-level signature into
// a shared Program table, then a Resolver walks each file's bodies
// against that by-then-immutable table. Scope and visibility violations
// are diagnostics, never aborts; an unresolved reference is simply left
// unbound for the type checker to step around.
package resolve

import (
	"sort"

	"github.com/plaintalk-lang/plaintalk/ast"
	"github.com/plaintalk-lang/plaintalk/diag"
)

// Signature is one file's top-level declaration set: the unit other
// files see through `file's member` access.
type Signature struct {
	File  string
	Vars  map[string]*ast.VarDecl
	Funcs map[string]*ast.FuncDecl
}

// PublicVars lists the file's public variables in name order.
func (s *Signature) PublicVars() []*ast.VarDecl {
	var out []*ast.VarDecl
	for _, v := range s.Vars {
		if v.Vis == ast.Public {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name.Lexeme < out[j].Name.Lexeme })

	return out
}

// PublicFuncs lists the file's public functions in name order.
func (s *Signature) PublicFuncs() []*ast.FuncDecl {
	var out []*ast.FuncDecl
	for _, f := range s.Funcs {
		if f.Vis == ast.Public {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name.Lexeme < out[j].Name.Lexeme })

	return out
}

// Program is the whole-program signature table. It is filled during
// pass A and read-only during pass B, so body resolution of different
// files can run in parallel against it.
type Program struct {
	Files map[string]*Signature
}

func NewProgram() *Program {
	return &Program{Files: make(map[string]*Signature)}
}

func (p *Program) Add(sig *Signature) {
	p.Files[sig.File] = sig
}

func (p *Program) Lookup(file string) (*Signature, bool) {
	sig, ok := p.Files[file]

	return sig, ok
}

// Collect builds a file's signature, reporting top-level redeclarations.
// Variables and functions share one namespace.
func Collect(file *ast.File, bag *diag.Bag) *Signature {
	sig := &Signature{
		File:  file.Name,
		Vars:  make(map[string]*ast.VarDecl),
		Funcs: make(map[string]*ast.FuncDecl),
	}

	taken := func(name string) bool {
		_, isVar := sig.Vars[name]
		_, isFunc := sig.Funcs[name]

		return isVar || isFunc
	}

	for _, v := range file.Vars {
		if taken(v.Name.Lexeme) {
			bag.Errorf(v.Name.Span, "%s is already declared in this file", v.Name.Lexeme)

			continue
		}
		sig.Vars[v.Name.Lexeme] = v
	}
	for _, f := range file.Funcs {
		if taken(f.Name.Lexeme) {
			bag.Errorf(f.Name.Span, "%s is already declared in this file", f.Name.Lexeme)

			continue
		}
		sig.Funcs[f.Name.Lexeme] = f
	}

	return sig
}

type scope struct {
	parent *scope
	table  map[string]*ast.VarDecl
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, table: make(map[string]*ast.VarDecl)}
}

func (s *scope) lookup(name string) *ast.VarDecl {
	if decl, ok := s.table[name]; ok {
		return decl
	}
	if s.parent != nil {
		return s.parent.lookup(name)
	}

	return nil
}

type Resolver struct {
	program *Program
	bag     *diag.Bag

	sig   *Signature
	scope *scope
}

func NewResolver(program *Program, bag *diag.Bag) *Resolver {
	return &Resolver{program: program, bag: bag}
}

// File resolves every reference in the file's bodies. The file's own
// signature must already be in the program table.
func (r *Resolver) File(file *ast.File) {
	sig, ok := r.program.Lookup(file.Name)
	if !ok {
		sig = Collect(file, r.bag)
		r.program.Add(sig)
	}
	r.sig = sig

	fileScope := newScope(nil)
	for _, v := range file.Vars {
		if sig.Vars[v.Name.Lexeme] == v {
			fileScope.table[v.Name.Lexeme] = v
		}
	}
	r.scope = fileScope

	for _, v := range file.Vars {
		r.expr(v.Init)
	}
	for _, f := range file.Funcs {
		r.function(f)
	}
	r.scope = nil
	r.sig = nil
}

func (r *Resolver) function(f *ast.FuncDecl) {
	fnScope := newScope(r.scope)
	r.scope = fnScope
	defer func() { r.scope = fnScope.parent }()

	for _, in := range f.Inputs {
		r.expr(in.Init)
		r.define(in)
	}
	if f.Output != nil {
		r.expr(f.Output.Init)
		r.define(f.Output)
	}
	r.stmts(f.Body)
}

func (r *Resolver) block(body []ast.Stmt) {
	inner := newScope(r.scope)
	r.scope = inner
	defer func() { r.scope = inner.parent }()

	r.stmts(body)
}

func (r *Resolver) stmts(body []ast.Stmt) {
	for _, s := range body {
		r.stmt(s)
	}
}

func (r *Resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.VarDecl:
		// The initializer resolves before the name exists, so a
		// variable can never reference itself.
		r.expr(s.Init)
		r.define(s)
	case *ast.Assign:
		r.assignTarget(s.Target)
		r.expr(s.Value)
	case *ast.Increment:
		r.assignTarget(s.Target)
		r.expr(s.Amount)
	case *ast.CallStmt:
		r.callTarget(s.Target)
		for _, arg := range s.Args {
			r.expr(arg)
		}
	case *ast.Return:
	case *ast.If:
		r.expr(s.Cond)
		r.block(s.Body)
		for _, elif := range s.Elifs {
			r.expr(elif.Cond)
			r.block(elif.Body)
		}
		if s.Else != nil {
			r.block(s.Else.Body)
		}
	case *ast.Repeat:
		r.expr(s.Count)
		inner := newScope(r.scope)
		r.scope = inner
		if s.Index != nil {
			r.expr(s.Index.Init)
			r.define(s.Index)
		}
		r.stmts(s.Body)
		r.scope = inner.parent
	case *ast.While:
		r.expr(s.Cond)
		r.block(s.Body)
	}
}

// define binds a declaration in the current scope. Redeclaring a name
// bound in the same scope is an error; shadowing an outer scope is
// permitted, except that input, output and index variables may not
// shadow file-level declarations.
func (r *Resolver) define(decl *ast.VarDecl) {
	name := decl.Name.Lexeme
	if _, ok := r.scope.table[name]; ok {
		r.bag.Errorf(decl.Name.Span, "%s is already declared in this scope", name)

		return
	}
	if decl.Role != ast.Plain {
		_, isVar := r.sig.Vars[name]
		_, isFunc := r.sig.Funcs[name]
		if isVar || isFunc {
			r.bag.Errorf(decl.Name.Span, "%s variable %s redeclares a file-level name", decl.Role, name)

			return
		}
	}
	r.scope.table[name] = decl
}

func (r *Resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case nil:
	case *ast.Literal:
	case *ast.Ref:
		r.ref(e, false)
	case *ast.Member:
		r.member(e)
	case *ast.New:
		if _, ok := r.program.Lookup(e.File.Lexeme); !ok {
			r.bag.Errorf(e.File.Span, "unknown file %s", e.File.Lexeme)
		}
	case *ast.Lookup:
		r.expr(e.Key)
		r.expr(e.Container)
	case *ast.Binary:
		r.expr(e.Left)
		r.expr(e.Right)
	case *ast.Unary:
		r.expr(e.Operand)
	case *ast.Convert:
		r.expr(e.X)
	}
}

// ref resolves a plain name. Variables win over functions in expression
// position; call targets prefer functions.
func (r *Resolver) ref(e *ast.Ref, preferFunc bool) {
	name := e.Name.Lexeme
	decl := r.scope.lookup(name)
	fn := r.sig.Funcs[name]

	switch {
	case preferFunc && fn != nil:
		e.Func = fn
	case decl != nil:
		e.Decl = decl
	case fn != nil:
		e.Func = fn
	default:
		r.bag.Errorf(e.Name.Span, "%s is not declared", name)
	}
}

func (r *Resolver) member(e *ast.Member) {
	sig, ok := r.program.Lookup(e.File.Lexeme)
	if !ok {
		r.bag.Errorf(e.File.Span, "unknown file %s", e.File.Lexeme)

		return
	}

	name := e.Name.Lexeme
	sameFile := sig == r.sig
	if v, ok := sig.Vars[name]; ok {
		if v.Vis == ast.Private && !sameFile {
			r.bag.Errorf(e.Name.Span, "%s's %s is private", e.File.Lexeme, name)

			return
		}
		e.Decl = v

		return
	}
	if f, ok := sig.Funcs[name]; ok {
		if f.Vis == ast.Private && !sameFile {
			r.bag.Errorf(e.Name.Span, "%s's %s is private", e.File.Lexeme, name)

			return
		}
		e.Func = f

		return
	}
	r.bag.Errorf(e.Name.Span, "%s has no member %s", e.File.Lexeme, name)
}

func (r *Resolver) assignTarget(e ast.Expr) {
	switch e := e.(type) {
	case nil:
	case *ast.Ref:
		r.ref(e, false)
		if e.Func != nil {
			r.bag.Errorf(e.Name.Span, "%s is a function and cannot be assigned", e.Name.Lexeme)
			e.Func = nil
		}
	case *ast.Member:
		r.member(e)
		if e.Func != nil {
			r.bag.Errorf(e.Name.Span, "%s's %s is a function and cannot be assigned", e.File.Lexeme, e.Name.Lexeme)
			e.Func = nil
		}
	}
}

func (r *Resolver) callTarget(e ast.Expr) {
	switch e := e.(type) {
	case nil:
	case *ast.Ref:
		r.ref(e, true)
		if e.Decl != nil {
			r.bag.Errorf(e.Name.Span, "%s is a variable, not a function", e.Name.Lexeme)
		}
	case *ast.Member:
		r.member(e)
		if e.Decl != nil {
			r.bag.Errorf(e.Name.Span, "%s's %s is a variable, not a function", e.File.Lexeme, e.Name.Lexeme)
		}
	}
}
