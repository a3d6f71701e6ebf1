package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/symx-lang/symx"
	asciitree "github.com/thediveo/go-asciitree"
)

// RulesCommand represents a command for inspecting a rule set.
type RulesCommand struct{}

// NewRulesCommand returns a new instance of RulesCommand.
func NewRulesCommand() *RulesCommand {
	return &RulesCommand{}
}

// Run executes the "rules" subcommand.
func (cmd *RulesCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("symx-rules", flag.ContinueOnError)
	path := fs.String("f", "", "rule set file (default: built-in rules)")
	verbose := fs.Bool("v", false, "verbose")
	fs.Usage = cmd.usage
	if err := fs.Parse(args); err != nil {
		return err
	} else if fs.NArg() > 0 {
		return fmt.Errorf("too many arguments")
	}

	rs, err := loadRules(*path)
	if err != nil {
		return err
	}

	if *verbose {
		spew.Fdump(os.Stderr, rs)
	}

	fmt.Printf("rule set %q: %d rules\n\n", rs.Name, len(rs.Rules))
	for _, rule := range rs.Rules {
		fmt.Printf("%s\n", rule.Name)
		fmt.Println(asciitree.RenderFancy(directiveTree("from", rule.From)))
		fmt.Println(asciitree.RenderFancy(directiveTree("to", rule.To)))
	}
	return nil
}

func (cmd *RulesCommand) usage() {
	fmt.Fprintln(os.Stderr, `
Usage: symx rules [-f PATH] [-v]

Renders every rule in a rule set as a pair of pattern trees.
`[1:])
}

// loadRules returns the rule set at path, or the built-in rules when path is
// empty.
func loadRules(path string) (*symx.RuleSet, error) {
	if path == "" {
		return symx.DefaultRules(), nil
	}
	return symx.LoadRuleSet(path)
}

// asciiNode adapts a directive tree for asciitree rendering.
type asciiNode struct {
	Label    string      `asciitree:"label"`
	Props    []string    `asciitree:"properties"`
	Children []asciiNode `asciitree:"children"`
}

func directiveTree(role string, d *symx.Directive) asciiNode {
	node := directiveNode(d)
	node.Label = role + ": " + node.Label
	return node
}

func directiveNode(d *symx.Directive) asciiNode {
	var node asciiNode
	switch {
	case d.Op == symx.Invalid && d.ID != "":
		node.Label = "var"
		node.Props = []string{"id: " + d.ID}
	case d.Op == symx.Invalid:
		node.Label = "const"
		node.Props = []string{fmt.Sprintf("value: %d", d.Value)}
	default:
		node.Label = d.Op.String()
	}

	if d.LHS != nil {
		node.Children = append(node.Children, directiveNode(d.LHS))
	}
	if d.RHS != nil {
		node.Children = append(node.Children, directiveNode(d.RHS))
	}
	return node
}
