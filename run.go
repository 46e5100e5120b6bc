package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/alecthomas/repr"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/driver"
	"github.com/plaintalk-lang/plaintalk/lexer"
	"github.com/plaintalk-lang/plaintalk/parser"
)

// loadSources reads each path into the program map, keyed by object
// file name (base name without the .pt extension).
func loadSources(paths []string) (map[string]string, error) {
	sources := make(map[string]string, len(paths))
	for _, path := range paths {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".pt")
		sources[name] = string(text)
	}

	return sources, nil
}

func runCheck(paths []string) error {
	if len(paths) == 0 {
		return cli.Exit("check: no input files", 2)
	}

	sources, err := loadSources(paths)
	if err != nil {
		return err
	}

	results, _ := driver.Run(sources)
	for _, res := range results {
		fmt.Fprint(os.Stderr, res.Bag)
	}
	if driver.HasErrors(results) {
		return cli.Exit("", 1)
	}

	return nil
}

func runAst(path string, sexpr bool) error {
	if path == "" {
		return cli.Exit("ast: no input file", 2)
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return tracerr.Wrap(err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".pt")
	res := driver.Parse(name, string(text))
	fmt.Fprint(os.Stderr, res.Bag)
	if res.File == nil {
		return cli.Exit("", 1)
	}

	if sexpr {
		fmt.Println(res.File)
	} else {
		repr.Println(res.File)
	}

	return nil
}

var history = filepath.Join(xdg.DataHome, "plaintalk", ".plaintalk_history")

func runPrompt() error {
	line := liner.NewLiner()
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if f, err := os.Create(history); err == nil {
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		line.Close()
	}()

	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			return err
		}
		line.AppendHistory(input)
		checkLine(input)
	}
}

// checkLine treats the input as a tiny object file first, then falls
// back to a single statement so `change x to 2.` works at the prompt.
func checkLine(input string) {
	res := driver.Check("repl", input)
	if !res.Bag.HasErrors() && res.File != nil {
		fmt.Println(res.File)

		return
	}

	bag := diag.New()
	tokens, err := lexer.Lex("repl", input, bag)
	if err == nil && !bag.HasErrors() {
		if stmt := parser.New(tokens, bag).ParseStmt(); stmt != nil && !bag.HasErrors() {
			fmt.Println(stmt)

			return
		}
	}
	fmt.Fprint(os.Stderr, res.Bag)
}
