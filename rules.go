package symx

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule pairs a match pattern with its replacement directive.
type Rule struct {
	Name string
	From *Directive
	To   *Directive
}

// RuleSet is an ordered collection of rewrite rules. Order matters: drivers
// try rules first to last.
type RuleSet struct {
	Name  string
	Rules []*Rule
}

// RuleSetConfig is the on-disk form of a rule set.
type RuleSetConfig struct {
	Name  string        `yaml:"name,omitempty"`
	Rules []*RuleConfig `yaml:"rules"`
}

// RuleConfig is the on-disk form of a single rule.
type RuleConfig struct {
	Name string           `yaml:"name"`
	From *DirectiveConfig `yaml:"from"`
	To   *DirectiveConfig `yaml:"to"`
}

// DirectiveConfig mirrors the directive tree shape: exactly one of Op, Var or
// Const must be set, with children under lhs/rhs as the operator requires.
type DirectiveConfig struct {
	Op    string           `yaml:"op,omitempty"`
	Var   string           `yaml:"var,omitempty"`
	Const *uint64          `yaml:"const,omitempty"`
	LHS   *DirectiveConfig `yaml:"lhs,omitempty"`
	RHS   *DirectiveConfig `yaml:"rhs,omitempty"`
}

// ParseRuleSet parses and compiles a YAML rule set document.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var config RuleSetConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse rule set: %w", err)
	}
	return CompileRuleSet(&config)
}

// LoadRuleSet reads and compiles the YAML rule set at path.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rs, err := ParseRuleSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// CompileRuleSet compiles a configuration into an executable rule set,
// validating node shapes and variable usage.
func CompileRuleSet(config *RuleSetConfig) (*RuleSet, error) {
	if len(config.Rules) == 0 {
		return nil, fmt.Errorf("rule set %q has no rules", config.Name)
	}

	rs := &RuleSet{Name: config.Name}
	for i, rc := range config.Rules {
		name := rc.Name
		if name == "" {
			name = fmt.Sprintf("rule-%d", i)
		}

		rule, err := compileRule(name, rc)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		rs.Rules = append(rs.Rules, rule)
	}
	return rs, nil
}

func compileRule(name string, rc *RuleConfig) (*Rule, error) {
	if rc.From == nil || rc.To == nil {
		return nil, fmt.Errorf("from and to patterns are required")
	}

	from, err := rc.From.compile()
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := rc.To.compile()
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	// The match side must be plain algebra.
	if from.ContainsDirectiveOp() {
		return nil, fmt.Errorf("from: meta-directives are not matchable")
	}

	// Every variable the replacement references must be bound by the match.
	bound := make(map[string]struct{})
	from.Vars(func(id string) { bound[id] = struct{}{} })
	var unbound string
	to.Vars(func(id string) {
		if _, ok := bound[id]; !ok && unbound == "" {
			unbound = id
		}
	})
	if unbound != "" {
		return nil, fmt.Errorf("to: variable %q is not bound by from", unbound)
	}

	return &Rule{Name: name, From: from, To: to}, nil
}

func (c *DirectiveConfig) compile() (*Directive, error) {
	set := 0
	for _, ok := range []bool{c.Op != "", c.Var != "", c.Const != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("node requires exactly one of op, var or const")
	}

	switch {
	case c.Var != "":
		if c.LHS != nil || c.RHS != nil {
			return nil, fmt.Errorf("variable %q cannot have children", c.Var)
		}
		return Var(c.Var), nil

	case c.Const != nil:
		if c.LHS != nil || c.RHS != nil {
			return nil, fmt.Errorf("constant %d cannot have children", *c.Const)
		}
		return Num(*c.Const), nil
	}

	op, ok := OpByName(c.Op)
	if !ok || !(op.IsAlgebra() || op.IsDirective()) {
		return nil, fmt.Errorf("unknown op %q", c.Op)
	}

	wantLHS, wantRHS := op.shape()
	if (c.LHS != nil) != wantLHS {
		return nil, fmt.Errorf("%s: bad lhs shape", op)
	}
	if (c.RHS != nil) != wantRHS {
		return nil, fmt.Errorf("%s: bad rhs shape", op)
	}

	var lhs, rhs *Directive
	var err error
	if c.LHS != nil {
		if lhs, err = c.LHS.compile(); err != nil {
			return nil, err
		}
	}
	if c.RHS != nil {
		if rhs, err = c.RHS.compile(); err != nil {
			return nil, err
		}
	}
	return NewDirective(op, lhs, rhs), nil
}

// DefaultRules returns the built-in universal simplifications. Subtrees are
// shared between rules; directive trees are read-only so sharing is safe.
func DefaultRules() *RuleSet {
	x, y := Var("x"), Var("y")

	// X|Y folds to X+Y when no bit can be one on both sides.
	disjoint := NewDirective(EQ,
		NewDirective(AND,
			NewDirective(OR, MaskOne(x), MaskUnknown(x)),
			NewDirective(OR, MaskOne(y), MaskUnknown(y))),
		Num(0))

	return &RuleSet{
		Name: "default",
		Rules: []*Rule{
			{"add-zero", NewDirective(ADD, x, Num(0)), x},
			{"sub-zero", NewDirective(SUB, x, Num(0)), x},
			{"sub-self", NewDirective(SUB, x, x), Num(0)},
			{"mul-one", NewDirective(MUL, x, Num(1)), x},
			{"mul-zero", NewDirective(MUL, x, Num(0)), Num(0)},
			{"udiv-one", NewDirective(UDIV, x, Num(1)), x},
			{"and-self", NewDirective(AND, x, x), x},
			{"and-zero", NewDirective(AND, x, Num(0)), Num(0)},
			{"or-self", NewDirective(OR, x, x), x},
			{"or-zero", NewDirective(OR, x, Num(0)), x},
			{"xor-zero", NewDirective(XOR, x, Num(0)), x},
			{"xor-self", NewDirective(XOR, x, x), Num(0)},
			{"not-not", NewDirective(NOT, nil, NewDirective(NOT, nil, x)), x},
			{"neg-neg", NewDirective(NEG, nil, NewDirective(NEG, nil, x)), x},
			{"shl-zero", NewDirective(SHL, x, Num(0)), x},
			{"lshr-zero", NewDirective(LSHR, x, Num(0)), x},
			{"udiv-self", NewDirective(UDIV, x, x),
				Iff(NewDirective(NE, x, Num(0)), Num(1))},
			{"urem-self", NewDirective(UREM, x, x),
				Iff(NewDirective(NE, x, Num(0)), Num(0))},
			{"or-disjoint", NewDirective(OR, x, y),
				Iff(disjoint, TrySimplify(NewDirective(ADD, x, y)))},
			{"sub-to-add", NewDirective(SUB, x, y),
				TrySimplify(NewDirective(ADD, x, NewDirective(NEG, nil, y)))},
		},
	}
}
