package driver_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/driver"
)

func TestRunProgram(t *testing.T) {
	t.Parallel()

	sources := map[string]string{
		"geometry": "create float variable pi with 3.14.\n" +
			"\n" +
			"create function area:\n" +
			"\tcreate input float variable side with 0.0.\n" +
			"\tcreate output float variable result with 0.0.\n" +
			"\tchange result to side * side.\n",
		"main": "create float variable x with 0.0.\n" +
			"\n" +
			"create function run:\n" +
			"\tchange x to geometry's pi.\n" +
			"\tcall geometry's area with x.\n",
	}

	results, program := driver.Run(sources)

	var names []string
	for _, res := range results {
		names = append(names, res.Name)
		if res.Bag.HasErrors() {
			t.Errorf("%s produced diagnostics:\n%s", res.Name, res.Bag)
		}
	}
	if diff := cmp.Diff([]string{"geometry", "main"}, names); diff != "" {
		t.Errorf("result order mismatch (-want +got):\n%s", diff)
	}

	sig, ok := program.Lookup("geometry")
	if !ok {
		t.Fatal("geometry missing from the program table")
	}
	if got := len(sig.PublicFuncs()); got != 1 {
		t.Errorf("geometry public funcs = %d, want 1", got)
	}
	if got := sig.PublicFuncs()[0].Type().String(); got != "function(float) float" {
		t.Errorf("area signature = %q", got)
	}
}

// A fatal error in one file yields diagnostics and no AST for that file
// without blocking the others.
func TestRunFatalFileIsIsolated(t *testing.T) {
	t.Parallel()

	results, _ := driver.Run(map[string]string{
		"broken": "create integer variable x with [no closing bracket\n",
		"fine":   "create integer variable y with 2.\n",
	})

	byName := make(map[string]*driver.Result)
	for _, res := range results {
		byName[res.Name] = res
	}

	broken := byName["broken"]
	if broken.File != nil {
		t.Error("broken file should have no AST")
	}
	if broken.Fatal == nil {
		t.Error("broken file should carry its fatal error")
	}
	if got := broken.Bag.Len(); got != 1 {
		t.Errorf("broken diagnostics = %d, want 1:\n%s", got, broken.Bag)
	}

	fine := byName["fine"]
	if fine.File == nil || fine.Bag.HasErrors() {
		t.Errorf("fine file should parse cleanly:\n%s", fine.Bag)
	}
}

func TestRunFileNameWarning(t *testing.T) {
	t.Parallel()

	res := driver.Check("MainMenu", "create integer variable x with 1.\n")
	diags := res.Bag.Diagnostics()
	want := []diag.Diagnostic{}
	for _, d := range diags {
		if d.Severity == diag.Warning {
			want = append(want, d)
		}
	}
	if len(want) != 1 {
		t.Fatalf("warnings = %d, want 1:\n%s", len(want), res.Bag)
	}
	if res.Bag.HasErrors() {
		t.Errorf("a bad file name is a warning, not an error:\n%s", res.Bag)
	}

	if res := driver.Check("main_menu", "create integer variable x with 1.\n"); res.Bag.Len() != 0 {
		t.Errorf("snake_case name should be clean:\n%s", res.Bag)
	}
}

// Scope and type errors surface through the driver but never abort it.
func TestRunDiagnosticsBatch(t *testing.T) {
	t.Parallel()

	res := driver.Check("main",
		"create integer variable x with 0.\n"+
			"\n"+
			"create function run:\n"+
			"\tchange x to missing.\n"+
			"\tchange x by \"one\".\n")

	if res.File == nil {
		t.Fatal("recoverable errors must still produce an AST")
	}

	var messages []string
	for _, d := range res.Bag.Diagnostics() {
		messages = append(messages, d.Message)
	}
	want := []string{
		"missing is not declared",
		"change by requires a numeric amount, got string",
	}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}
