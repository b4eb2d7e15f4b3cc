// Package repository 提供参照数据访问层
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yepai/yepai/pkg/model"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// ListByStore 加载门店的全部在职员工
// availability 与 certified_stations 以 JSONB 存储
func (r *EmployeeRepository) ListByStore(ctx context.Context, storeID string) ([]*model.Employee, error) {
	query := `
		SELECT id, name, employee_type, primary_station, certified_stations,
			is_manager, availability
		FROM employees
		WHERE store_id = $1 AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		var (
			emp       model.Employee
			certsJSON []byte
			availJSON []byte
		)
		if err := rows.Scan(
			&emp.ID, &emp.Name, &emp.EmployeeType, &emp.PrimaryStation,
			&certsJSON, &emp.IsManager, &availJSON,
		); err != nil {
			return nil, fmt.Errorf("扫描员工行失败: %w", err)
		}

		if len(certsJSON) > 0 {
			if err := json.Unmarshal(certsJSON, &emp.CertifiedStations); err != nil {
				return nil, fmt.Errorf("解析认证工作站失败: %w", err)
			}
		}
		if len(availJSON) > 0 {
			if err := json.Unmarshal(availJSON, &emp.Availability); err != nil {
				return nil, fmt.Errorf("解析可用性失败: %w", err)
			}
		}

		employees = append(employees, &emp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历员工行失败: %w", err)
	}
	return employees, nil
}

// GetByID 根据员工ID获取员工
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	query := `
		SELECT id, name, employee_type, primary_station, certified_stations,
			is_manager, availability
		FROM employees
		WHERE id = $1 AND deleted_at IS NULL
	`

	var (
		emp       model.Employee
		certsJSON []byte
		availJSON []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&emp.ID, &emp.Name, &emp.EmployeeType, &emp.PrimaryStation,
		&certsJSON, &emp.IsManager, &availJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}

	if len(certsJSON) > 0 {
		if err := json.Unmarshal(certsJSON, &emp.CertifiedStations); err != nil {
			return nil, fmt.Errorf("解析认证工作站失败: %w", err)
		}
	}
	if len(availJSON) > 0 {
		if err := json.Unmarshal(availJSON, &emp.Availability); err != nil {
			return nil, fmt.Errorf("解析可用性失败: %w", err)
		}
	}

	return &emp, nil
}
