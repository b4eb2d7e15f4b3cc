// Package solver 提供约束模型求解器
package solver

import (
	"context"
	"time"

	"github.com/yepai/yepai/pkg/scheduler/cpmodel"
)

// Status 求解状态
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusFeasible   Status = "feasible"
	StatusInfeasible Status = "infeasible"
	StatusUnknown    Status = "unknown"
)

// Options 求解参数
type Options struct {
	TimeLimit time.Duration `json:"time_limit"`
	Workers   int           `json:"workers"`
	Seed      int64         `json:"seed"`
}

// DefaultOptions 返回默认求解参数
func DefaultOptions() Options {
	return Options{
		TimeLimit: 180 * time.Second,
		Workers:   4,
		Seed:      1,
	}
}

// Solver 求解器接口
// 返回状态与布尔变量赋值；除可靠性外不承诺算法性质
type Solver interface {
	// Solve 在截止时间内求解模型
	Solve(ctx context.Context, m *cpmodel.Model, opts Options) (Status, []bool, error)

	// Name 返回求解器名称
	Name() string
}
