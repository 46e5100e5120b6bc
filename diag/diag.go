// Package diag accumulates front-end diagnostics. Errors found in user
// source are never raised as Go errors mid-pipeline; every pass records
// them here and the whole batch is reported once the pipeline finishes.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plaintalk-lang/plaintalk/token"
)

type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

type Diagnostic struct {
	Severity Severity
	Message  string
	Span     token.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
}

// Bag collects diagnostics for one file or one whole program.
// The zero value is not usable; call New.
type Bag struct {
	diags []Diagnostic
}

func New() *Bag {
	return &Bag{}
}

func (b *Bag) Errorf(span token.Span, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

func (b *Bag) Warnf(span token.Span, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

func (b *Bag) Add(d Diagnostic) {
	b.diags = append(b.diags, d)
}

// AddError records err as an error diagnostic. If err is a
// token.PosError the position is taken from it.
func (b *Bag) AddError(err error) {
	if posErr, ok := err.(token.PosError); ok {
		b.Errorf(posErr.Where, "%s", posErr.Err.Error())

		return
	}
	b.Errorf(token.Span{}, "%s", err.Error())
}

func (b *Bag) Merge(other *Bag) {
	b.diags = append(b.diags, other.diags...)
}

func (b *Bag) HasErrors() bool {
	for _, d := range b.diags {
		if d.Severity == Error {
			return true
		}
	}

	return false
}

func (b *Bag) Len() int {
	return len(b.diags)
}

// Diagnostics returns the collected diagnostics in source order.
func (b *Bag) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(b.diags))
	copy(out, b.diags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Before(out[j].Span)
	})

	return out
}

func (b *Bag) String() string {
	var builder strings.Builder
	for _, d := range b.Diagnostics() {
		builder.WriteString(d.String())
		builder.WriteString("\n")
	}

	return builder.String()
}
