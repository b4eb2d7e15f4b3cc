// Package cpmodel 提供可行性约束模型的构建
//
// 模型只包含一族布尔决策变量，约束族为：AtMostOne、布尔或、
// 线性下界、以及带蕴含的具体化线性相等（用于周工时累计）。
// 目标为布尔线性表达式的最大化。
package cpmodel

import "fmt"

// BoolVar 布尔决策变量（模型内索引）
type BoolVar int

// IntVar 整数变量（模型内索引），取值由蕴含约束决定
type IntVar int

// Literal 字面量：变量或其否定
type Literal struct {
	Var     BoolVar
	Negated bool
}

// Pos 返回正字面量
func Pos(v BoolVar) Literal { return Literal{Var: v} }

// Neg 返回负字面量
func Neg(v BoolVar) Literal { return Literal{Var: v, Negated: true} }

// Holds 在给定赋值下检查字面量是否成立
func (l Literal) Holds(assign []bool) bool {
	val := assign[l.Var]
	if l.Negated {
		return !val
	}
	return val
}

// Term 目标函数项
type Term struct {
	Var         BoolVar
	Coefficient int
}

// LinearGE 布尔和下界约束：sum(Vars) >= Min
type LinearGE struct {
	Vars []BoolVar
	Min  int
	Name string
}

// IntSumLE 整数和上界约束：sum(Vars) <= Bound
type IntSumLE struct {
	Vars  []IntVar
	Bound int
	Name  string
}

// Implication 具体化相等：Lit 成立 ⇒ IntVar == Value
type Implication struct {
	Lit   Literal
	Var   IntVar
	Value int
}

// intVarDef 整数变量定义
type intVarDef struct {
	lo, hi int
	name   string
}

// Model 约束模型
type Model struct {
	varNames   []string
	fixedFalse map[BoolVar]bool

	AtMostOneGroups [][]BoolVar
	BoolOrs         [][]Literal
	LinearGEs       []LinearGE
	IntSumLEs       []IntSumLE

	intVars      []intVarDef
	implications map[IntVar][]Implication

	Objective []Term
}

// NewModel 创建空模型
func NewModel() *Model {
	return &Model{
		fixedFalse:   make(map[BoolVar]bool),
		implications: make(map[IntVar][]Implication),
	}
}

// NewBoolVar 创建布尔变量
func (m *Model) NewBoolVar(name string) BoolVar {
	m.varNames = append(m.varNames, name)
	return BoolVar(len(m.varNames) - 1)
}

// NewIntVar 创建整数变量
func (m *Model) NewIntVar(lo, hi int, name string) IntVar {
	m.intVars = append(m.intVars, intVarDef{lo: lo, hi: hi, name: name})
	return IntVar(len(m.intVars) - 1)
}

// NumBoolVars 返回布尔变量数
func (m *Model) NumBoolVars() int { return len(m.varNames) }

// NumIntVars 返回整数变量数
func (m *Model) NumIntVars() int { return len(m.intVars) }

// VarName 返回变量名
func (m *Model) VarName(v BoolVar) string { return m.varNames[v] }

// FixFalse 固定变量为假（可用性约束）
func (m *Model) FixFalse(v BoolVar) { m.fixedFalse[v] = true }

// IsFixedFalse 检查变量是否被固定为假
func (m *Model) IsFixedFalse(v BoolVar) bool { return m.fixedFalse[v] }

// AddAtMostOne 添加至多取一约束
func (m *Model) AddAtMostOne(vars ...BoolVar) {
	group := make([]BoolVar, len(vars))
	copy(group, vars)
	m.AtMostOneGroups = append(m.AtMostOneGroups, group)
}

// AddBoolOr 添加布尔或约束：至少一个字面量成立
func (m *Model) AddBoolOr(lits ...Literal) {
	clause := make([]Literal, len(lits))
	copy(clause, lits)
	m.BoolOrs = append(m.BoolOrs, clause)
}

// AddLinearGE 添加布尔和下界约束
func (m *Model) AddLinearGE(vars []BoolVar, min int, name string) {
	vs := make([]BoolVar, len(vars))
	copy(vs, vars)
	m.LinearGEs = append(m.LinearGEs, LinearGE{Vars: vs, Min: min, Name: name})
}

// AddEqualityIf 添加具体化相等：lit 成立 ⇒ iv == value
// 调用方需为每个整数变量给出覆盖所有赋值的蕴含（通常是正负两条）
func (m *Model) AddEqualityIf(lit Literal, iv IntVar, value int) {
	m.implications[iv] = append(m.implications[iv], Implication{Lit: lit, Var: iv, Value: value})
}

// AddIntSumLE 添加整数和上界约束
func (m *Model) AddIntSumLE(vars []IntVar, bound int, name string) {
	vs := make([]IntVar, len(vars))
	copy(vs, vars)
	m.IntSumLEs = append(m.IntSumLEs, IntSumLE{Vars: vs, Bound: bound, Name: name})
}

// AddObjectiveTerm 添加最大化目标项
func (m *Model) AddObjectiveTerm(v BoolVar, coefficient int) {
	m.Objective = append(m.Objective, Term{Var: v, Coefficient: coefficient})
}

// IntVarValue 在给定赋值下求整数变量的值
// 取第一条字面量成立的蕴含；无蕴含成立时取下界
func (m *Model) IntVarValue(assign []bool, iv IntVar) int {
	for _, imp := range m.implications[iv] {
		if imp.Lit.Holds(assign) {
			return imp.Value
		}
	}
	return m.intVars[iv].lo
}

// ObjectiveValue 在给定赋值下求目标值
func (m *Model) ObjectiveValue(assign []bool) int {
	total := 0
	for _, t := range m.Objective {
		if assign[t.Var] {
			total += t.Coefficient
		}
	}
	return total
}

// Violations 在给定赋值下统计硬约束违反
// 返回违反数与可读描述（描述用于调试日志）
func (m *Model) Violations(assign []bool) (int, []string) {
	count := 0
	var details []string

	for v := range m.fixedFalse {
		if assign[v] {
			count++
			details = append(details, fmt.Sprintf("固定为假的变量被置真: %s", m.varNames[v]))
		}
	}

	for _, group := range m.AtMostOneGroups {
		set := 0
		for _, v := range group {
			if assign[v] {
				set++
			}
		}
		if set > 1 {
			count++
			details = append(details, fmt.Sprintf("AtMostOne 约束违反: %d 个变量同时为真", set))
		}
	}

	for _, clause := range m.BoolOrs {
		ok := false
		for _, lit := range clause {
			if lit.Holds(assign) {
				ok = true
				break
			}
		}
		if !ok {
			count++
			details = append(details, "BoolOr 约束未满足")
		}
	}

	for _, c := range m.LinearGEs {
		sum := 0
		for _, v := range c.Vars {
			if assign[v] {
				sum++
			}
		}
		if sum < c.Min {
			count++
			details = append(details, fmt.Sprintf("%s: %d < %d", c.Name, sum, c.Min))
		}
	}

	for _, c := range m.IntSumLEs {
		sum := 0
		for _, iv := range c.Vars {
			sum += m.IntVarValue(assign, iv)
		}
		if sum > c.Bound {
			count++
			details = append(details, fmt.Sprintf("%s: %d > %d", c.Name, sum, c.Bound))
		}
	}

	return count, details
}
