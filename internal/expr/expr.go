// Package expr compiles single-variable expressions into dual-number
// functions.
//
// Expressions use Go syntax and are parsed with go/parser:
//
//	x*x + 3*x + 2
//	exp(x) / sqrt(pow(sin(x), 3) + pow(cos(x), 3))
//
// Supported are numeric literals, the variable (x unless overridden with
// [WithVariable]), the constants pi and e, the operators + - * / with
// unary + and -, and the functions sin cos tan exp log sqrt abs inv pow.
// Sub-expressions that do not mention the variable are folded to plain
// scalars and combined through the scalar operator forms.
package expr

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"math"
	"math/big"
	"strconv"

	"github.com/san-kum/dualsim/internal/dual"
)

type Number = dual.Number[float64]

// term is a compiled sub-expression. Constant terms carry their value and
// have no fn.
type term struct {
	fn    func(Number) Number
	konst bool
	val   float64
}

func constant(v float64) term { return term{konst: true, val: v} }

func (t term) eval(x Number) Number {
	if t.konst {
		return dual.Constant(t.val)
	}
	return t.fn(x)
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var builtins = map[string]func(Number) Number{
	"sin":  dual.Sin[float64],
	"cos":  dual.Cos[float64],
	"tan":  dual.Tan[float64],
	"exp":  dual.Exp[float64],
	"log":  dual.Log[float64],
	"sqrt": dual.Sqrt[float64],
	"abs":  dual.Abs[float64],
	"inv":  dual.Inv[float64],
}

// Functions returns the names callable from an expression.
func Functions() []string {
	return []string{"abs", "cos", "exp", "inv", "log", "pow", "sin", "sqrt", "tan"}
}

type Option func(*compiler)

// WithVariable sets the name of the free variable. The default is "x".
func WithVariable(name string) Option {
	return func(c *compiler) {
		c.variable = name
	}
}

// Program is a compiled expression.
type Program struct {
	src      string
	variable string
	root     term
}

// Compile parses src and returns the compiled program.
func Compile(src string, opts ...Option) (*Program, error) {
	c := &compiler{src: src, variable: "x"}
	for _, opt := range opts {
		opt(c)
	}

	node, err := parser.ParseExpr(src)
	if err != nil {
		pe := &ParseError{Expr: src, Detail: err.Error(), Wrapped: ErrSyntax}
		if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
			pe.Pos = list[0].Pos.Offset
			pe.Detail = list[0].Msg
		}
		return nil, pe
	}

	root, err := c.compile(node)
	if err != nil {
		return nil, err
	}

	return &Program{src: src, variable: c.variable, root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, opts ...Option) *Program {
	p, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Eval evaluates the program at x.
func (p *Program) Eval(x Number) Number {
	return p.root.eval(x)
}

// At evaluates the program at Variable(x), returning f(x) and f'(x).
func (p *Program) At(x float64) (float64, float64) {
	v := p.Eval(dual.Variable(x))
	return v.Real(), v.Dual()
}

func (p *Program) Func() dual.Func[float64] {
	return p.Eval
}

func (p *Program) Source() string   { return p.src }
func (p *Program) Variable() string { return p.variable }

// Constant reports whether the expression does not depend on its variable.
func (p *Program) Constant() bool { return p.root.konst }

func (p *Program) String() string {
	return fmt.Sprintf("f(%s) = %s", p.variable, p.src)
}

type compiler struct {
	src      string
	variable string
}

func (c *compiler) errorf(n ast.Node, wrapped error, format string, args ...any) error {
	return &ParseError{
		Pos:     int(n.Pos()) - 1,
		Expr:    c.src,
		Detail:  fmt.Sprintf(format, args...),
		Wrapped: wrapped,
	}
}

func (c *compiler) compile(n ast.Expr) (term, error) {
	switch n := n.(type) {
	case *ast.ParenExpr:
		return c.compile(n.X)
	case *ast.BasicLit:
		return c.literal(n)
	case *ast.Ident:
		return c.ident(n)
	case *ast.UnaryExpr:
		return c.unary(n)
	case *ast.BinaryExpr:
		return c.binary(n)
	case *ast.CallExpr:
		return c.call(n)
	default:
		return term{}, c.errorf(n, ErrUnsupported, "%T", n)
	}
}

func (c *compiler) literal(n *ast.BasicLit) (term, error) {
	switch n.Kind {
	case token.INT:
		i, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return term{}, c.errorf(n, ErrSyntax, "invalid integer literal %s", n.Value)
		}
		// Float64 rounds to nearest and gives ±Inf past the float64 range.
		v, _ := new(big.Float).SetInt(i).Float64()
		return constant(v), nil
	case token.FLOAT:
		// Out-of-range literals keep ParseFloat's ±Inf or ±0, as float64
		// arithmetic would.
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return term{}, c.errorf(n, ErrSyntax, "%v", err)
		}
		return constant(v), nil
	default:
		return term{}, c.errorf(n, ErrUnsupported, "literal %s", n.Value)
	}
}

func (c *compiler) ident(n *ast.Ident) (term, error) {
	if n.Name == c.variable {
		return term{fn: func(x Number) Number { return x }}, nil
	}
	if v, ok := constants[n.Name]; ok {
		return constant(v), nil
	}
	return term{}, c.errorf(n, ErrUnknownIdent, "%s", n.Name)
}

func (c *compiler) unary(n *ast.UnaryExpr) (term, error) {
	x, err := c.compile(n.X)
	if err != nil {
		return term{}, err
	}

	switch n.Op {
	case token.ADD:
		if x.konst {
			return x, nil
		}
		return term{fn: func(v Number) Number { return x.fn(v).Plus() }}, nil
	case token.SUB:
		if x.konst {
			return constant(-x.val), nil
		}
		return term{fn: func(v Number) Number { return x.fn(v).Neg() }}, nil
	default:
		return term{}, c.errorf(n, ErrUnsupported, "operator %s", n.Op)
	}
}

func (c *compiler) binary(n *ast.BinaryExpr) (term, error) {
	l, err := c.compile(n.X)
	if err != nil {
		return term{}, err
	}
	r, err := c.compile(n.Y)
	if err != nil {
		return term{}, err
	}

	switch n.Op {
	case token.ADD, token.SUB, token.MUL, token.QUO:
	default:
		return term{}, c.errorf(n, ErrUnsupported, "operator %s", n.Op)
	}

	switch {
	case l.konst && r.konst:
		a, b := dual.Constant(l.val), dual.Constant(r.val)
		return constant(combine(n.Op, a, b).Real()), nil
	case r.konst:
		return term{fn: dualScalar(n.Op, l.fn, r.val)}, nil
	case l.konst:
		return term{fn: scalarDual(n.Op, l.val, r.fn)}, nil
	default:
		return term{fn: func(x Number) Number { return combine(n.Op, l.fn(x), r.fn(x)) }}, nil
	}
}

func combine(op token.Token, a, b Number) Number {
	switch op {
	case token.ADD:
		return a.Add(b)
	case token.SUB:
		return a.Sub(b)
	case token.MUL:
		return a.Mul(b)
	default:
		return a.Div(b)
	}
}

func dualScalar(op token.Token, fn func(Number) Number, c float64) func(Number) Number {
	switch op {
	case token.ADD:
		return func(x Number) Number { return fn(x).AddScalar(c) }
	case token.SUB:
		return func(x Number) Number { return fn(x).SubScalar(c) }
	case token.MUL:
		return func(x Number) Number { return fn(x).MulScalar(c) }
	default:
		return func(x Number) Number { return fn(x).DivScalar(c) }
	}
}

func scalarDual(op token.Token, c float64, fn func(Number) Number) func(Number) Number {
	switch op {
	case token.ADD:
		return func(x Number) Number { return dual.ScalarAdd(c, fn(x)) }
	case token.SUB:
		return func(x Number) Number { return dual.ScalarSub(c, fn(x)) }
	case token.MUL:
		return func(x Number) Number { return dual.ScalarMul(c, fn(x)) }
	default:
		return func(x Number) Number { return dual.ScalarDiv(c, fn(x)) }
	}
}

func (c *compiler) call(n *ast.CallExpr) (term, error) {
	name, ok := n.Fun.(*ast.Ident)
	if !ok {
		return term{}, c.errorf(n.Fun, ErrUnsupported, "call of %T", n.Fun)
	}
	if n.Ellipsis.IsValid() {
		return term{}, c.errorf(n, ErrUnsupported, "variadic call")
	}

	args := make([]term, len(n.Args))
	for i, a := range n.Args {
		t, err := c.compile(a)
		if err != nil {
			return term{}, err
		}
		args[i] = t
	}

	if name.Name == "pow" {
		if len(args) != 2 {
			return term{}, c.errorf(n, ErrArity, "pow takes 2 arguments, got %d", len(args))
		}
		return pow(args[0], args[1]), nil
	}

	fn, ok := builtins[name.Name]
	if !ok {
		return term{}, c.errorf(name, ErrUnknownFunc, "%s", name.Name)
	}
	if len(args) != 1 {
		return term{}, c.errorf(n, ErrArity, "%s takes 1 argument, got %d", name.Name, len(args))
	}

	arg := args[0]
	if arg.konst {
		return constant(fn(dual.Constant(arg.val)).Real()), nil
	}
	return term{fn: func(x Number) Number { return fn(arg.fn(x)) }}, nil
}

// pow uses PowReal for a constant exponent and exp(p·log(b)) otherwise.
func pow(base, p term) term {
	switch {
	case base.konst && p.konst:
		return constant(math.Pow(base.val, p.val))
	case p.konst:
		return term{fn: func(x Number) Number { return dual.PowReal(base.fn(x), p.val) }}
	default:
		return term{fn: func(x Number) Number {
			return dual.Exp(p.eval(x).Mul(dual.Log(base.eval(x))))
		}}
	}
}
