// Package repository 提供参照数据访问层
//
// 排班结果本身不持久化，这里只加载门店配置与员工名单，
// 作为编排器 DataSource 接口的 PostgreSQL 实现。
package repository

import (
	"context"
	"database/sql"

	"github.com/yepai/yepai/pkg/model"
)

// DB 数据访问依赖的最小接口
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ReferenceData 参照数据仓库，实现 orchestrator.DataSource
type ReferenceData struct {
	stores    *StoreRepository
	employees *EmployeeRepository
}

// NewReferenceData 创建参照数据仓库
func NewReferenceData(db DB) *ReferenceData {
	return &ReferenceData{
		stores:    NewStoreRepository(db),
		employees: NewEmployeeRepository(db),
	}
}

// LoadStore 按门店ID加载门店配置
func (r *ReferenceData) LoadStore(ctx context.Context, storeID string) (*model.Store, error) {
	return r.stores.GetByID(ctx, storeID)
}

// LoadEmployees 按门店ID加载员工列表
func (r *ReferenceData) LoadEmployees(ctx context.Context, storeID string) ([]*model.Employee, error) {
	return r.employees.ListByStore(ctx, storeID)
}
