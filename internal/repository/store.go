// Package repository 提供参照数据访问层
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yepai/yepai/pkg/model"
)

// StoreRepository 门店仓储
type StoreRepository struct {
	db DB
}

// NewStoreRepository 创建门店仓储
func NewStoreRepository(db DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// GetByID 根据门店ID获取门店配置
// 人员配置需求以 JSONB 存储
func (r *StoreRepository) GetByID(ctx context.Context, storeID string) (*model.Store, error) {
	query := `
		SELECT store_id, location_type, normal_requirements, peak_requirements,
			opening_time, closing_time, min_managers_on_duty
		FROM stores
		WHERE store_id = $1 AND deleted_at IS NULL
	`

	var (
		store      model.Store
		normalJSON []byte
		peakJSON   []byte
	)
	err := r.db.QueryRowContext(ctx, query, storeID).Scan(
		&store.StoreID, &store.LocationType, &normalJSON, &peakJSON,
		&store.OpeningTime, &store.ClosingTime, &store.MinManagersOnDuty,
	)
	if err != nil {
		return nil, fmt.Errorf("查询门店失败: %w", err)
	}

	if err := json.Unmarshal(normalJSON, &store.NormalRequirements); err != nil {
		return nil, fmt.Errorf("解析平峰人员需求失败: %w", err)
	}
	if err := json.Unmarshal(peakJSON, &store.PeakRequirements); err != nil {
		return nil, fmt.Errorf("解析高峰人员需求失败: %w", err)
	}

	// 高峰时段为固定营业参数
	store.LunchPeakStart = 11
	store.LunchPeakEnd = 14
	store.DinnerPeakStart = 17
	store.DinnerPeakEnd = 21

	return &store, nil
}
