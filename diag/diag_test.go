package diag_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/token"
)

func TestBagOrdering(t *testing.T) {
	t.Parallel()

	bag := diag.New()
	bag.Errorf(token.Span{File: "main", Line: 3, Column: 1}, "third")
	bag.Warnf(token.Span{File: "main", Line: 1, Column: 9}, "second")
	bag.Errorf(token.Span{File: "main", Line: 1, Column: 2}, "first")

	var got []string
	for _, d := range bag.Diagnostics() {
		got = append(got, d.Message)
	}
	if diff := cmp.Diff([]string{"first", "second", "third"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBagSeverity(t *testing.T) {
	t.Parallel()

	bag := diag.New()
	bag.Warnf(token.Span{}, "just a warning")
	if bag.HasErrors() {
		t.Error("warnings must not count as errors")
	}
	bag.Errorf(token.Span{}, "now an error")
	if !bag.HasErrors() {
		t.Error("expected HasErrors after Errorf")
	}
}

func TestAddErrorPosition(t *testing.T) {
	t.Parallel()

	bag := diag.New()
	where := token.Span{File: "main", Line: 2, Column: 7}
	bag.AddError(token.PosError{Where: where, Err: errors.New("boom")})

	diags := bag.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(diags))
	}
	if diags[0].Span != where {
		t.Errorf("span = %v, want %v", diags[0].Span, where)
	}
	if got, want := diags[0].String(), "main:2:7: error: boom"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := diag.New()
	a.Errorf(token.Span{File: "a", Line: 1, Column: 1}, "from a")
	b := diag.New()
	b.Warnf(token.Span{File: "b", Line: 1, Column: 1}, "from b")

	a.Merge(b)
	if a.Len() != 2 {
		t.Errorf("merged length = %d, want 2", a.Len())
	}
}
