package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "plaintalk",
		Usage: "PlainTalk front end",
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "parse and validate object files",
				ArgsUsage: "<file.pt> ...",
				Action: func(c *cli.Context) error {
					return runCheck(c.Args().Slice())
				},
			},
			{
				Name:      "ast",
				Usage:     "dump the syntax tree of one file",
				ArgsUsage: "<file.pt>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "sexpr",
						Usage: "print the compact s-expression form",
					},
				},
				Action: func(c *cli.Context) error {
					return runAst(c.Args().First(), c.Bool("sexpr"))
				},
			},
			{
				Name:  "repl",
				Usage: "check declarations and statements line by line",
				Action: func(c *cli.Context) error {
					return runPrompt()
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
