// Package driver runs the front end over a whole program. The pipeline
// is two passes: pass A lexes and parses every file and collects its
// top-level signature, pass B resolves and type-checks every body
// against the shared signature table. Files within a pass are
// independent, so both passes fan out across goroutines.
package driver

import (
	"regexp"
	"sort"
	"sync"

	"github.com/plaintalk-lang/plaintalk/ast"
	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/lexer"
	"github.com/plaintalk-lang/plaintalk/parser"
	"github.com/plaintalk-lang/plaintalk/resolve"
	"github.com/plaintalk-lang/plaintalk/token"
	"github.com/plaintalk-lang/plaintalk/typecheck"
)

// Result is the front end's outcome for one object file: the AST (nil
// when a fatal error aborted the file), the file's diagnostics, and the
// fatal error itself if there was one.
type Result struct {
	Name  string
	File  *ast.File
	Bag   *diag.Bag
	Fatal error
}

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// Parse runs pass A for one file: strip comments, lex, apply layout and
// parse. The file-name convention check lands here as a warning.
func Parse(name, source string) *Result {
	bag := diag.New()
	if !snakeCase.MatchString(name) {
		bag.Warnf(token.Span{File: name, Line: 1, Column: 1}, "file name %s is not snake_case", name)
	}

	tokens, err := lexer.Lex(name, source, bag)
	if err != nil {
		bag.AddError(err)

		return &Result{Name: name, Bag: bag, Fatal: err}
	}

	file := parser.New(tokens, bag).ParseFile(name)

	return &Result{Name: name, File: file, Bag: bag}
}

// Analyze runs pass B for one parsed file: resolve names against the
// program table, then type-check. A file that failed pass A is skipped.
func Analyze(res *Result, program *resolve.Program) {
	if res.File == nil {
		return
	}
	resolve.NewResolver(program, res.Bag).File(res.File)
	typecheck.New(res.Bag).File(res.File)
}

// Run drives the whole program, keyed by object-file name. Results come
// back in name order regardless of scheduling.
func Run(sources map[string]string) ([]*Result, *resolve.Program) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]*Result, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = Parse(name, sources[name])
		}(i, name)
	}
	wg.Wait()

	// The table must be complete before any body resolves, so
	// signature collection stays sequential between the passes.
	program := resolve.NewProgram()
	for _, res := range results {
		if res.File != nil {
			program.Add(resolve.Collect(res.File, res.Bag))
		}
	}

	for _, res := range results {
		wg.Add(1)
		go func(res *Result) {
			defer wg.Done()
			Analyze(res, program)
		}(res)
	}
	wg.Wait()

	return results, program
}

// Check runs the full pipeline over a single standalone file. The REPL
// and single-file tests go through here.
func Check(name, source string) *Result {
	results, _ := Run(map[string]string{name: source})

	return results[0]
}

// HasErrors reports whether any result carries an error-severity
// diagnostic. Warnings alone do not reject a program.
func HasErrors(results []*Result) bool {
	for _, res := range results {
		if res.Bag.HasErrors() {
			return true
		}
	}

	return false
}
