// Package formula 编译并求值升级公式
//
// 公式来自配置数据，例如 "baseDamage * (1 + 0.25 * level)"。
// 加载配置时一次性编译为语法树，运行时只做数值求值，不执行任何代码。
//
// 支持的语法：
//   - 数字字面量、括号、一元 + / -
//   - 二元运算 + - * / %
//   - 函数 floor ceil round abs sqrt log pow min max
//   - 变量：编译时声明的变量集合（通常是 baseValue、level 及属性别名）
package formula

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strconv"
)

// Vars 是求值时的变量绑定
type Vars map[string]float64

// Expr 是已编译的公式
type Expr struct {
	source string
	root   node
}

// node 是语法树节点
type node interface {
	eval(vars Vars) float64
}

type numberNode float64

type varNode string

type unaryNode struct {
	neg     bool
	operand node
}

type binaryNode struct {
	op          token.Token
	left, right node
}

type callNode struct {
	name string
	fn   func(args []float64) float64
	args []node
}

type function struct {
	arity int // -1 表示至少 2 个参数
	fn    func(args []float64) float64
}

var functions = map[string]function{
	"floor": {1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"round": {1, func(a []float64) float64 { return math.Round(a[0]) }},
	"abs":   {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"sqrt":  {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"log":   {1, func(a []float64) float64 { return math.Log(a[0]) }},
	"pow":   {2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"min": {-1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {-1, func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

// Compile 编译公式文本
// allowed 是允许出现的变量名，出现其他标识符时返回错误
func Compile(source string, allowed ...string) (*Expr, error) {
	if source == "" {
		return nil, fmt.Errorf("empty formula")
	}

	parsed, err := parser.ParseExpr(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse formula %q: %w", source, err)
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	root, err := build(parsed, allowedSet)
	if err != nil {
		return nil, fmt.Errorf("invalid formula %q: %w", source, err)
	}

	return &Expr{source: source, root: root}, nil
}

// MustCompile 与 Compile 相同，编译失败时 panic
// 仅用于代码中的常量公式
func MustCompile(source string, allowed ...string) *Expr {
	expr, err := Compile(source, allowed...)
	if err != nil {
		panic(err)
	}
	return expr
}

// String 返回公式原文
func (e *Expr) String() string {
	return e.source
}

// Eval 求值公式
// 缺失的变量按 0 处理；结果为 NaN 或 Inf 时返回错误
func (e *Expr) Eval(vars Vars) (float64, error) {
	v := e.root.eval(vars)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("formula %q produced non-finite result %v", e.source, v)
	}
	return v, nil
}

func build(expr ast.Expr, allowed map[string]bool) (node, error) {
	switch n := expr.(type) {
	case *ast.ParenExpr:
		return build(n.X, allowed)

	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, fmt.Errorf("unsupported literal %s", n.Value)
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %s: %w", n.Value, err)
		}
		return numberNode(v), nil

	case *ast.Ident:
		if !allowed[n.Name] {
			return nil, fmt.Errorf("unknown variable %q", n.Name)
		}
		return varNode(n.Name), nil

	case *ast.UnaryExpr:
		if n.Op != token.SUB && n.Op != token.ADD {
			return nil, fmt.Errorf("unsupported unary operator %s", n.Op)
		}
		operand, err := build(n.X, allowed)
		if err != nil {
			return nil, err
		}
		return &unaryNode{neg: n.Op == token.SUB, operand: operand}, nil

	case *ast.BinaryExpr:
		switch n.Op {
		case token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		default:
			return nil, fmt.Errorf("unsupported operator %s", n.Op)
		}
		left, err := build(n.X, allowed)
		if err != nil {
			return nil, err
		}
		right, err := build(n.Y, allowed)
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: n.Op, left: left, right: right}, nil

	case *ast.CallExpr:
		ident, ok := n.Fun.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unsupported call expression")
		}
		f, ok := functions[ident.Name]
		if !ok {
			return nil, fmt.Errorf("unknown function %q", ident.Name)
		}
		if f.arity >= 0 && len(n.Args) != f.arity {
			return nil, fmt.Errorf("%s expects %d argument(s), got %d", ident.Name, f.arity, len(n.Args))
		}
		if f.arity < 0 && len(n.Args) < 2 {
			return nil, fmt.Errorf("%s expects at least 2 arguments, got %d", ident.Name, len(n.Args))
		}
		args := make([]node, 0, len(n.Args))
		for _, a := range n.Args {
			arg, err := build(a, allowed)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return &callNode{name: ident.Name, fn: f.fn, args: args}, nil
	}

	return nil, fmt.Errorf("unsupported expression %T", expr)
}

func (n numberNode) eval(Vars) float64 { return float64(n) }

func (n varNode) eval(vars Vars) float64 { return vars[string(n)] }

func (n *unaryNode) eval(vars Vars) float64 {
	v := n.operand.eval(vars)
	if n.neg {
		return -v
	}
	return v
}

func (n *binaryNode) eval(vars Vars) float64 {
	l := n.left.eval(vars)
	r := n.right.eval(vars)
	switch n.op {
	case token.ADD:
		return l + r
	case token.SUB:
		return l - r
	case token.MUL:
		return l * r
	case token.QUO:
		return l / r
	case token.REM:
		return math.Mod(l, r)
	}
	return math.NaN()
}

func (n *callNode) eval(vars Vars) float64 {
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		args[i] = a.eval(vars)
	}
	return n.fn(args)
}
