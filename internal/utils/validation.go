package utils

import (
	"fmt"
	"time"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidateShifts 检查门店班次定义的合法性。
// 允许跨越午夜的班次（end 早于 start 表示次日结束）。
func ValidateShifts(shifts []domain.Shift) error {
	seen := make(map[string]struct{})

	for _, shift := range shifts {
		if shift.ID == "" {
			return fmt.Errorf("班次缺少 ID")
		}
		if _, ok := seen[shift.ID]; ok {
			return fmt.Errorf("班次 ID %s 重复", shift.ID)
		}
		seen[shift.ID] = struct{}{}

		if shift.Name == "" {
			return fmt.Errorf("班次 %s 缺少名称", shift.ID)
		}
		if err := validateClock(shift.Start); err != nil {
			return fmt.Errorf("班次 %s 的开始时间无效: %w", shift.ID, err)
		}
		if err := validateClock(shift.End); err != nil {
			return fmt.Errorf("班次 %s 的结束时间无效: %w", shift.ID, err)
		}
		if shift.MinCoaches < 0 || shift.MaxCoaches < 0 {
			return fmt.Errorf("班次 %s 的人数需求不能为负数", shift.ID)
		}
		for _, day := range shift.DaysOfWeek {
			if day < 0 || day > 6 {
				return fmt.Errorf("班次 %s 的适用星期 %d 超出范围", shift.ID, day)
			}
		}
	}

	return nil
}

func validateClock(t string) error {
	if _, err := time.Parse("15:04", t); err != nil {
		return fmt.Errorf("时间 %q 不符合 HH:MM 格式", t)
	}
	return nil
}

// ValidateDateRange 检查 YYYY-MM-DD 格式的日期范围并返回范围内的所有日期
func ValidateDateRange(startDate, endDate string) ([]string, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("开始日期 %q 不符合 YYYY-MM-DD 格式", startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("结束日期 %q 不符合 YYYY-MM-DD 格式", endDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("结束日期不能早于开始日期")
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates, nil
}
