package ast

import (
	"fmt"
	"strings"
)

// Format re-emits a file as canonical PlainTalk text. Parsing the
// output yields a structurally identical tree, which makes the printer
// the anchor for round-trip tests and the `ast` CLI command.
func Format(f *File) string {
	p := printer{}
	for _, v := range f.Vars {
		p.varDecl(v)
	}
	for i, fn := range f.Funcs {
		if i > 0 || len(f.Vars) > 0 {
			p.blank()
		}
		p.funcDecl(fn)
	}

	return p.builder.String()
}

// FormatStmt renders a single statement at the top level, mainly for
// the REPL and tests.
func FormatStmt(s Stmt) string {
	p := printer{}
	p.stmt(s)

	return p.builder.String()
}

type printer struct {
	builder strings.Builder
	depth   int
}

func (p *printer) line(format string, args ...any) {
	p.builder.WriteString(strings.Repeat("\t", p.depth))
	fmt.Fprintf(&p.builder, format, args...)
	p.builder.WriteString("\n")
}

func (p *printer) blank() {
	p.builder.WriteString("\n")
}

func (p *printer) varDecl(v *VarDecl) {
	var head strings.Builder
	head.WriteString("create")
	if v.Vis == Private {
		head.WriteString(" private")
	}
	if v.Role != Plain {
		head.WriteString(" " + v.Role.String())
	}
	p.line("%s %s variable %s with %s.", head.String(), typeName(v.DeclaredType), v.Name.Lexeme, p.expr(v.Init))
}

func (p *printer) funcDecl(f *FuncDecl) {
	if f.Vis == Private {
		p.line("create private function %s:", f.Name.Lexeme)
	} else {
		p.line("create function %s:", f.Name.Lexeme)
	}
	p.depth++
	for _, in := range f.Inputs {
		p.varDecl(in)
	}
	if f.Output != nil {
		p.varDecl(f.Output)
	}
	for _, s := range f.Body {
		p.stmt(s)
	}
	p.depth--
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *VarDecl:
		p.varDecl(s)
	case *Assign:
		p.line("change %s to %s.", p.expr(s.Target), p.expr(s.Value))
	case *Increment:
		p.line("change %s by %s.", p.expr(s.Target), p.expr(s.Amount))
	case *CallStmt:
		p.call(s)
	case *Return:
		p.line("return.")
	case *If:
		p.line("if %s is %t:", p.expr(s.Cond), s.Want)
		p.block(s.Body)
		for _, elif := range s.Elifs {
			p.line("otherwise if %s is %t:", p.expr(elif.Cond), elif.Want)
			p.block(elif.Body)
		}
		if s.Else != nil {
			p.line("otherwise:")
			p.block(s.Else.Body)
		}
	case *Repeat:
		p.line("repeat %s times:", p.expr(s.Count))
		p.depth++
		if s.Index != nil {
			p.varDecl(s.Index)
		}
		for _, inner := range s.Body {
			p.stmt(inner)
		}
		p.depth--
	case *While:
		p.line("while %s is %t:", p.expr(s.Cond), s.Want)
		p.block(s.Body)
	}
}

func (p *printer) block(body []Stmt) {
	p.depth++
	for _, s := range body {
		p.stmt(s)
	}
	p.depth--
}

func (p *printer) call(c *CallStmt) {
	if len(c.Args) == 0 {
		p.line("call %s.", p.expr(c.Target))

		return
	}

	var args strings.Builder
	for i, arg := range c.Args {
		switch {
		case i == 0:
		case i == len(c.Args)-1:
			args.WriteString(" and ")
		default:
			args.WriteString(", ")
		}
		args.WriteString(p.expr(arg))
	}
	p.line("call %s with %s.", p.expr(c.Target), args.String())
}

func (p *printer) expr(e Expr) string {
	switch e := e.(type) {
	case nil:
		return "nothing"
	case *Literal:
		return e.Tok.Lexeme
	case *Ref:
		return e.Name.Lexeme
	case *Member:
		return e.File.Lexeme + "'s " + e.Name.Lexeme
	case *New:
		return "new " + e.File.Lexeme
	case *Lookup:
		return "look-up " + p.expr(e.Key) + " in " + p.expr(e.Container)
	case *Binary:
		return p.expr(e.Left) + " " + e.Op.Lexeme + " " + p.expr(e.Right)
	case *Unary:
		return e.Op.Lexeme + " " + p.expr(e.Operand)
	case *Convert:
		return p.expr(e.X) + " as " + typeName(e.Target)
	default:
		return e.String()
	}
}
