package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Rule is a single declarative check. Expr must evaluate to true for the
// input to be valid; otherwise Message is recorded under Field.
type Rule struct {
	Field   string
	Expr    string
	Message string
}

type compiledRule struct {
	Rule
	program *exprvm.Program
}

// Ruleset is an ordered list of compiled rules. Rules for the same field are
// evaluated in order and the first failure wins.
type Ruleset struct {
	rules []compiledRule
}

func exprOptions() []exprlang.Option {
	return []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.Function("chars", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("chars expects one argument")
			}
			s, _ := params[0].(string)
			return utf8.RuneCountInString(s), nil
		}),
		exprlang.Function("blank", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("blank expects one argument")
			}
			s, _ := params[0].(string)
			return strings.TrimSpace(s) == "", nil
		}),
	}
}

// Compile builds a Ruleset. Expressions may use chars(s) and blank(s) in
// addition to the expr-lang builtins.
func Compile(rules []Rule) (*Ruleset, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		program, err := exprlang.Compile(r.Expr, exprOptions()...)
		if err != nil {
			return nil, fmt.Errorf("compile rule for %s (%q): %w", r.Field, r.Expr, err)
		}
		compiled = append(compiled, compiledRule{Rule: r, program: program})
	}
	return &Ruleset{rules: compiled}, nil
}

func MustCompile(rules []Rule) *Ruleset {
	rs, err := Compile(rules)
	if err != nil {
		panic(err)
	}
	return rs
}

// Check runs every rule against env. A rule that fails to evaluate counts as
// a violation.
func (rs *Ruleset) Check(env map[string]any) Errors {
	errs := Errors{}
	for _, r := range rs.rules {
		if _, failed := errs[r.Field]; failed {
			continue
		}
		out, err := exprlang.Run(r.program, env)
		if err != nil {
			errs.Add(r.Field, r.Message)
			continue
		}
		if ok, _ := out.(bool); !ok {
			errs.Add(r.Field, r.Message)
		}
	}
	return errs
}
