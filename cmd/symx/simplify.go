package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/symx-lang/symx"
)

// SimplifyCommand represents a command for simplifying a single expression.
type SimplifyCommand struct{}

// NewSimplifyCommand returns a new instance of SimplifyCommand.
func NewSimplifyCommand() *SimplifyCommand {
	return &SimplifyCommand{}
}

// Run executes the "simplify" subcommand.
func (cmd *SimplifyCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("symx-simplify", flag.ContinueOnError)
	path := fs.String("f", "", "rule set file (default: built-in rules)")
	verbose := fs.Bool("v", false, "verbose rule tracing")
	fs.Usage = cmd.usage
	if err := fs.Parse(args); err != nil {
		return err
	} else if fs.NArg() == 0 {
		return fmt.Errorf("expression required")
	}

	log.SetFlags(0)
	if *verbose {
		symx.Verbose = true
	} else {
		log.SetOutput(ioutil.Discard)
	}

	rs, err := loadRules(*path)
	if err != nil {
		return err
	}

	expr, err := symx.ParseExpr(strings.Join(fs.Args(), " "))
	if err != nil {
		return err
	}

	out, changed := symx.NewSimplifier(rs).SimplifyExpr(expr)
	if !changed {
		fmt.Fprintln(os.Stderr, "no rule applied")
	}
	fmt.Println(out)
	return nil
}

func (cmd *SimplifyCommand) usage() {
	fmt.Fprintln(os.Stderr, `
Usage: symx simplify [-f PATH] [-v] EXPR

Parses EXPR in s-expression form and reduces it with a rule set, e.g.:

	symx simplify '(add (var x 32) (const 0 32))'
`[1:])
}
