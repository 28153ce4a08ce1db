package formula

import "fmt"

// Formula binds a parsed expression to the variable list it was parsed
// against. Non-generic formulas have their parameters inlined at parse
// time; generic formulas keep Parameter nodes and are evaluated through
// EvaluateWith by reference holders supplying the parameters.
type Formula struct {
	expr    string
	ast     Node
	prog    *Program
	generic bool
	nparams int
}

// Parse parses expression against variableIdx, which maps the formula
// positions x..t to indices in the enclosing input tuple. With
// bindParameters set the result is closed over params; otherwise params
// is ignored and the formula is generic.
func Parse(expression string, params []float64, variableIdx []int, bindParameters bool) (*Formula, error) {
	p := NewParser(expression, params, variableIdx, bindParameters)
	ast, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", expression, err)
	}
	return &Formula{
		expr:    expression,
		ast:     ast,
		prog:    Compile(ast),
		generic: !bindParameters,
		nparams: p.maxParam,
	}, nil
}

// Expression returns the source expression.
func (f *Formula) Expression() string {
	return f.expr
}

// AST returns the parsed abstract syntax tree.
func (f *Formula) AST() Node {
	return f.ast
}

// Generic reports whether the formula requires parameters at
// evaluation.
func (f *Formula) Generic() bool {
	return f.generic
}

// ParameterCount returns the number of positional parameters a generic
// formula references (highest index plus one).
func (f *Formula) ParameterCount() int {
	return f.nparams
}

// Evaluate computes the formula on the enclosing input tuple.
func (f *Formula) Evaluate(values []any) (float64, error) {
	if f.generic {
		return 0, ErrGenericNotBound
	}
	return f.prog.Eval(values, nil)
}

// EvaluateWith computes the formula with explicit parameters, as done
// by formularef nodes holding a generic formula.
func (f *Formula) EvaluateWith(values []any, params []float64) (float64, error) {
	return f.prog.Eval(values, params)
}
