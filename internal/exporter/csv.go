// Package exporter 提供排班结果导出
package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/yepai/yepai/pkg/model"
	"github.com/yepai/yepai/pkg/orchestrator"
)

// CSVExporter 将最终花名册导出为 CSV 表格
// 实现 orchestrator.Exporter
type CSVExporter struct {
	path string
}

// NewCSVExporter 创建 CSV 导出器
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Export 导出最终产物到文件
func (e *CSVExporter) Export(ctx context.Context, result *orchestrator.Result) error {
	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("创建导出文件失败: %w", err)
	}
	defer f.Close()

	return e.Write(f, result)
}

// Write 将花名册写入任意输出流
// 每行一名员工，列为员工信息、各日期班次代码与总工时
func (e *CSVExporter) Write(w io.Writer, result *orchestrator.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"employee_id", "employee_name", "employee_type", "is_manager", "primary_station"}
	header = append(header, result.Days...)
	header = append(header, "total_hours")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	for _, schedule := range result.Roster {
		row := []string{
			schedule.EmployeeID,
			schedule.EmployeeName,
			string(schedule.EmployeeType),
			fmt.Sprintf("%t", schedule.IsManager),
			string(schedule.PrimaryStation),
		}
		for _, day := range result.Days {
			code := model.ShiftDayOff
			if rec := schedule.ShiftOn(day); rec != nil {
				code = rec.ShiftCode
			}
			row = append(row, string(code))
		}
		row = append(row, fmt.Sprintf("%.1f", schedule.TotalHours))

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("写入员工行失败: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
