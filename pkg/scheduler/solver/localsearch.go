// Package solver 提供约束模型求解器
package solver

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/yepai/yepai/pkg/logger"
	"github.com/yepai/yepai/pkg/scheduler/cpmodel"
)

// 搜索评分中单个硬约束违反的惩罚值，远大于任何目标增量
const violationPenalty = 100000.0

// LocalSearchSolver 两阶段求解器：贪心构造 + 并行模拟退火修复
type LocalSearchSolver struct {
	maxIterations int
	initialTemp   float64
	coolingRate   float64
	plateauLimit  int
	log           *logger.RosterLogger
}

// NewLocalSearchSolver 创建默认求解器
func NewLocalSearchSolver() *LocalSearchSolver {
	return &LocalSearchSolver{
		maxIterations: 4000,
		initialTemp:   100.0,
		coolingRate:   0.995,
		plateauLimit:  600,
		log:           logger.NewRosterLogger("solver"),
	}
}

// Name 返回求解器名称
func (s *LocalSearchSolver) Name() string {
	return "LocalSearchSolver"
}

// SetMaxIterations 设置每个工作协程的迭代上限
func (s *LocalSearchSolver) SetMaxIterations(max int) {
	s.maxIterations = max
}

// Solve 求解模型
func (s *LocalSearchSolver) Solve(ctx context.Context, m *cpmodel.Model, opts Options) (Status, []bool, error) {
	start := time.Now()
	deadline := start.Add(opts.TimeLimit)
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}

	state := newSearchState(m)

	// 平凡不可行：某个下界约束的可用支持不足
	for _, c := range m.LinearGEs {
		allowed := 0
		for _, v := range c.Vars {
			if !m.IsFixedFalse(v) {
				allowed++
			}
		}
		if allowed < c.Min {
			s.log.SolverStatus(string(StatusInfeasible), time.Since(start))
			return StatusInfeasible, nil, nil
		}
	}

	// 第一阶段：确定性贪心构造
	assign := state.greedy()
	violations, _ := m.Violations(assign)

	// 第二阶段：仍有违反时并行退火修复
	if violations > 0 {
		assign = s.parallelSearch(ctx, state, assign, opts, deadline)
		violations, _ = m.Violations(assign)
	}

	elapsed := time.Since(start)

	if violations > 0 {
		s.log.SolverStatus(string(StatusUnknown), elapsed)
		return StatusUnknown, assign, nil
	}

	status := StatusFeasible
	if m.ObjectiveValue(assign) >= state.relaxedUpperBound() {
		status = StatusOptimal
	}
	s.log.SolverStatus(string(status), elapsed)
	return status, assign, nil
}

// parallelSearch 多个带独立随机种子的工作协程并行退火，取最优结果
func (s *LocalSearchSolver) parallelSearch(ctx context.Context, state *searchState, initial []bool, opts Options, deadline time.Time) []bool {
	type workerResult struct {
		assign     []bool
		violations int
		objective  int
	}

	results := make([]workerResult, opts.Workers)
	var wg sync.WaitGroup

	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(opts.Seed + int64(idx)))
			best := s.anneal(ctx, state, initial, rng, deadline)
			v, _ := state.model.Violations(best)
			results[idx] = workerResult{
				assign:     best,
				violations: v,
				objective:  state.model.ObjectiveValue(best),
			}
		}(w)
	}
	wg.Wait()

	// 确定性选优：违反数最少，其次目标值最高，最后取编号最小的协程
	bestIdx := 0
	for i := 1; i < len(results); i++ {
		a, b := results[i], results[bestIdx]
		if a.violations < b.violations ||
			(a.violations == b.violations && a.objective > b.objective) {
			bestIdx = i
		}
	}
	return results[bestIdx].assign
}

// anneal 单协程模拟退火
func (s *LocalSearchSolver) anneal(ctx context.Context, state *searchState, initial []bool, rng *rand.Rand, deadline time.Time) []bool {
	current := cloneAssign(initial)
	best := cloneAssign(initial)
	currentScore := state.score(current)
	bestScore := currentScore

	temperature := s.initialTemp
	noImprovement := 0

	for i := 0; i < s.maxIterations; i++ {
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		candidate := state.randomNeighbor(current, rng)
		if candidate == nil {
			continue
		}

		candidateScore := state.score(candidate)
		accept := candidateScore < currentScore
		if !accept {
			delta := candidateScore - currentScore
			if rng.Float64() < boltzmannProbability(delta, temperature) {
				accept = true
			}
		}

		if accept {
			current = candidate
			currentScore = candidateScore
			if currentScore < bestScore {
				best = cloneAssign(current)
				bestScore = currentScore
				noImprovement = 0
			} else {
				noImprovement++
			}
		} else {
			noImprovement++
		}

		// 平台期提前停止
		if noImprovement >= s.plateauLimit {
			break
		}

		temperature *= s.coolingRate
	}

	return best
}

// boltzmannProbability 模拟退火接受概率
func boltzmannProbability(delta, temperature float64) float64 {
	if delta <= 0 {
		return 1.0
	}
	if temperature <= 0 {
		return 0.0
	}
	return math.Exp(-delta / temperature)
}

// searchState 搜索期的模型索引
type searchState struct {
	model *cpmodel.Model

	// 每个变量所属的 AtMostOne 组
	varGroups [][]int
	// 包含某变量负字面量的子句索引
	negClauses [][]int
	// 每个累计约束中变量置真带来的增量
	accumDeltas [][]int
	accumBases  []int
	// 目标系数
	objCoef []int
}

// newSearchState 构建搜索索引
func newSearchState(m *cpmodel.Model) *searchState {
	n := m.NumBoolVars()
	st := &searchState{
		model:      m,
		varGroups:  make([][]int, n),
		negClauses: make([][]int, n),
		objCoef:    make([]int, n),
	}

	for gi, group := range m.AtMostOneGroups {
		for _, v := range group {
			st.varGroups[v] = append(st.varGroups[v], gi)
		}
	}
	for ci, clause := range m.BoolOrs {
		for _, lit := range clause {
			if lit.Negated {
				st.negClauses[lit.Var] = append(st.negClauses[lit.Var], ci)
			}
		}
	}
	for _, t := range m.Objective {
		st.objCoef[t.Var] += t.Coefficient
	}

	// 累计约束增量：对每个 IntSumLE，预求每个布尔变量置真的贡献
	st.accumDeltas = make([][]int, len(m.IntSumLEs))
	st.accumBases = make([]int, len(m.IntSumLEs))
	allFalse := make([]bool, n)
	oneTrue := make([]bool, n)
	for ci, c := range m.IntSumLEs {
		st.accumDeltas[ci] = make([]int, n)
		base := 0
		for _, iv := range c.Vars {
			base += m.IntVarValue(allFalse, iv)
		}
		st.accumBases[ci] = base
		for v := 0; v < n; v++ {
			oneTrue[v] = true
			sum := 0
			for _, iv := range c.Vars {
				sum += m.IntVarValue(oneTrue, iv)
			}
			oneTrue[v] = false
			st.accumDeltas[ci][v] = sum - base
		}
	}

	return st
}

// greedy 确定性贪心构造
// 先逐个满足下界约束，再在合法范围内最大化目标
func (st *searchState) greedy() []bool {
	m := st.model
	assign := make([]bool, m.NumBoolVars())
	accumSums := make([]int, len(m.IntSumLEs))
	copy(accumSums, st.accumBases)

	canSet := func(v cpmodel.BoolVar) bool {
		if assign[v] || m.IsFixedFalse(v) {
			return false
		}
		for _, gi := range st.varGroups[v] {
			for _, other := range m.AtMostOneGroups[gi] {
				if other != v && assign[other] {
					return false
				}
			}
		}
		for _, ci := range st.negClauses[v] {
			satisfied := false
			for _, lit := range m.BoolOrs[ci] {
				if lit.Var == v && lit.Negated {
					continue
				}
				if lit.Holds(assign) {
					satisfied = true
					break
				}
			}
			if !satisfied {
				return false
			}
		}
		for ci := range m.IntSumLEs {
			delta := st.accumDeltas[ci][v]
			if delta > 0 && accumSums[ci]+delta > m.IntSumLEs[ci].Bound {
				return false
			}
		}
		return true
	}

	set := func(v cpmodel.BoolVar) {
		assign[v] = true
		for ci := range m.IntSumLEs {
			accumSums[ci] += st.accumDeltas[ci][v]
		}
	}

	// 阶段一：满足覆盖类下界约束
	for _, c := range m.LinearGEs {
		sum := 0
		for _, v := range c.Vars {
			if assign[v] {
				sum++
			}
		}
		for sum < c.Min {
			picked := cpmodel.BoolVar(-1)
			bestCoef := math.MinInt
			for _, v := range c.Vars {
				if !canSet(v) {
					continue
				}
				if st.objCoef[v] > bestCoef {
					bestCoef = st.objCoef[v]
					picked = v
				}
			}
			if picked < 0 {
				break
			}
			set(picked)
			sum++
		}
	}

	// 阶段二：按目标系数降序填满剩余合法变量
	order := make([]cpmodel.BoolVar, m.NumBoolVars())
	for i := range order {
		order[i] = cpmodel.BoolVar(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return st.objCoef[order[i]] > st.objCoef[order[j]]
	})
	for _, v := range order {
		if st.objCoef[v] > 0 && canSet(v) {
			set(v)
		}
	}

	return assign
}

// score 搜索评分：硬违反优先，其次目标最大化（分数越小越好）
func (st *searchState) score(assign []bool) float64 {
	violations, _ := st.model.Violations(assign)
	return float64(violations)*violationPenalty - float64(st.model.ObjectiveValue(assign))
}

// randomNeighbor 生成邻域解：随机翻转一个变量
// 保持固定为假与 AtMostOne 约束始终成立，其余约束交给评分
func (st *searchState) randomNeighbor(current []bool, rng *rand.Rand) []bool {
	m := st.model
	n := m.NumBoolVars()
	if n == 0 {
		return nil
	}

	v := cpmodel.BoolVar(rng.Intn(n))
	next := cloneAssign(current)

	if current[v] {
		next[v] = false
		return next
	}

	if m.IsFixedFalse(v) {
		return nil
	}
	// 组内已有占用时换位
	for _, gi := range st.varGroups[v] {
		for _, other := range m.AtMostOneGroups[gi] {
			if other != v && next[other] {
				next[other] = false
			}
		}
	}
	next[v] = true
	return next
}

// relaxedUpperBound 目标值的松弛上界：每个 AtMostOne 组至多贡献其最大正系数
func (st *searchState) relaxedUpperBound() int {
	m := st.model
	bound := 0
	counted := make([]bool, m.NumBoolVars())

	for _, group := range m.AtMostOneGroups {
		best := 0
		for _, v := range group {
			if counted[v] {
				continue
			}
			counted[v] = true
			if !m.IsFixedFalse(v) && st.objCoef[v] > best {
				best = st.objCoef[v]
			}
		}
		bound += best
	}
	for v := 0; v < m.NumBoolVars(); v++ {
		if !counted[v] && !m.IsFixedFalse(cpmodel.BoolVar(v)) && st.objCoef[v] > 0 {
			bound += st.objCoef[v]
		}
	}
	return bound
}

// cloneAssign 拷贝赋值
func cloneAssign(assign []bool) []bool {
	out := make([]bool, len(assign))
	copy(out, assign)
	return out
}
