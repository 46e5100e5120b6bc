// Package types models PlainTalk's type system: five primitives, the
// `nothing` bottom value, lists, dictionaries and file types. `general`
// accepts and is accepted by everything; `nothing` is assignable to
// anything.
package types

import (
	"fmt"
	"strings"
)

type Type interface {
	fmt.Stringer
	Equal(Type) bool
}

type primitive struct {
	name string
}

func (p *primitive) String() string {
	return p.name
}

func (p *primitive) Equal(other Type) bool {
	return p == other
}

var (
	Integer Type = &primitive{name: "integer"}
	Float   Type = &primitive{name: "float"}
	String  Type = &primitive{name: "string"}
	Boolean Type = &primitive{name: "boolean"}
	General Type = &primitive{name: "general"}

	// Nothing is the type of the bare `nothing` literal. It only shows
	// up as a resolved expression type; declared variable types never
	// name it.
	Nothing Type = &primitive{name: "nothing"}
)

// Primitive looks up a primitive type by its source-level name.
func Primitive(name string) (Type, bool) {
	switch name {
	case "integer":
		return Integer, true
	case "float":
		return Float, true
	case "string":
		return String, true
	case "boolean":
		return Boolean, true
	case "general":
		return General, true
	default:
		return nil, false
	}
}

type List struct {
	Elem Type
}

func (l *List) String() string {
	return "list of " + l.Elem.String()
}

func (l *List) Equal(other Type) bool {
	o, ok := other.(*List)

	return ok && l.Elem.Equal(o.Elem)
}

type Dictionary struct {
	Key   Type
	Value Type
}

func (d *Dictionary) String() string {
	return "dictionary of " + d.Key.String() + " to " + d.Value.String()
}

func (d *Dictionary) Equal(other Type) bool {
	o, ok := other.(*Dictionary)

	return ok && d.Key.Equal(o.Key) && d.Value.Equal(o.Value)
}

// File is the type of an instantiated object file (`new some_file`).
type File struct {
	Name string
}

func (f *File) String() string {
	return f.Name
}

func (f *File) Equal(other Type) bool {
	o, ok := other.(*File)

	return ok && f.Name == o.Name
}

// Function is the resolved type of a function symbol. It never appears
// as a declared variable type.
type Function struct {
	Inputs []Type
	Output Type // nil when the function declares no output variable
}

func (f *Function) String() string {
	var builder strings.Builder
	builder.WriteString("function(")
	for i, in := range f.Inputs {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(in.String())
	}
	builder.WriteString(")")
	if f.Output != nil {
		builder.WriteString(" ")
		builder.WriteString(f.Output.String())
	}

	return builder.String()
}

func (f *Function) Equal(other Type) bool {
	o, ok := other.(*Function)
	if !ok || len(f.Inputs) != len(o.Inputs) {
		return false
	}
	for i, in := range f.Inputs {
		if !in.Equal(o.Inputs[i]) {
			return false
		}
	}
	if f.Output == nil || o.Output == nil {
		return f.Output == o.Output
	}

	return f.Output.Equal(o.Output)
}

// Assignable reports whether a value of type src may be stored in a
// slot declared as dst. `general` is compatible in both directions and
// `nothing` is assignable to everything.
func Assignable(dst, src Type) bool {
	if dst == nil || src == nil {
		return true // a prior diagnostic already covers the unknown side
	}
	if dst == General || src == General || src == Nothing {
		return true
	}

	return dst.Equal(src)
}

func IsNumeric(t Type) bool {
	return t == Integer || t == Float || t == General
}

func IsPrimitive(t Type) bool {
	_, ok := t.(*primitive)

	return ok
}
