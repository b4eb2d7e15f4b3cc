package cpmodel

import "testing"

func TestModel_AtMostOneViolation(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddAtMostOne(a, b)

	assign := []bool{true, true}
	count, _ := m.Violations(assign)
	if count != 1 {
		t.Errorf("违反数 = %d, 期望 1", count)
	}

	assign = []bool{true, false}
	if count, _ := m.Violations(assign); count != 0 {
		t.Errorf("违反数 = %d, 期望 0", count)
	}
}

func TestModel_BoolOr(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	// ¬a ∨ ¬b：禁止同时为真
	m.AddBoolOr(Neg(a), Neg(b))

	if count, _ := m.Violations([]bool{true, true}); count != 1 {
		t.Error("同时为真应违反")
	}
	if count, _ := m.Violations([]bool{true, false}); count != 0 {
		t.Error("单个为真不应违反")
	}
}

func TestModel_FixFalse(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	m.FixFalse(a)

	if count, _ := m.Violations([]bool{true}); count != 1 {
		t.Error("固定为假的变量被置真应违反")
	}
	if !m.IsFixedFalse(a) {
		t.Error("IsFixedFalse 应为真")
	}
}

func TestModel_LinearGE(t *testing.T) {
	m := NewModel()
	vars := []BoolVar{m.NewBoolVar("a"), m.NewBoolVar("b"), m.NewBoolVar("c")}
	m.AddLinearGE(vars, 2, "覆盖")

	if count, _ := m.Violations([]bool{true, false, false}); count != 1 {
		t.Error("和为1低于下界2应违反")
	}
	if count, _ := m.Violations([]bool{true, true, false}); count != 0 {
		t.Error("和为2应满足")
	}
}

func TestModel_ReifiedAccumulator(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")

	// a 置真贡献 85，b 置真贡献 90，总和不超过 100
	iva := m.NewIntVar(0, 85, "hours_a")
	m.AddEqualityIf(Pos(a), iva, 85)
	m.AddEqualityIf(Neg(a), iva, 0)
	ivb := m.NewIntVar(0, 90, "hours_b")
	m.AddEqualityIf(Pos(b), ivb, 90)
	m.AddEqualityIf(Neg(b), ivb, 0)
	m.AddIntSumLE([]IntVar{iva, ivb}, 100, "周工时")

	if got := m.IntVarValue([]bool{true, false}, iva); got != 85 {
		t.Errorf("IntVarValue = %d, 期望 85", got)
	}
	if got := m.IntVarValue([]bool{false, false}, iva); got != 0 {
		t.Errorf("IntVarValue = %d, 期望 0", got)
	}

	if count, _ := m.Violations([]bool{true, true}); count != 1 {
		t.Error("175 > 100 应违反")
	}
	if count, _ := m.Violations([]bool{false, true}); count != 0 {
		t.Error("90 <= 100 应满足")
	}
}

func TestModel_Objective(t *testing.T) {
	m := NewModel()
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddObjectiveTerm(a, 10)
	m.AddObjectiveTerm(b, 7)

	if got := m.ObjectiveValue([]bool{true, true}); got != 17 {
		t.Errorf("目标值 = %d, 期望 17", got)
	}
	if got := m.ObjectiveValue([]bool{false, true}); got != 7 {
		t.Errorf("目标值 = %d, 期望 7", got)
	}
}
