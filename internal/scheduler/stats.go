package scheduler

import (
	"sort"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

// 旧版系统中没有班次定义时使用的固定时间段
var (
	legacyMorningBlock  = domain.Shift{ID: domain.LegacyMorningShiftID, Name: "早班", Start: "10:00", End: "20:00"}
	legacyEveningBlock  = domain.Shift{ID: domain.LegacyEveningShiftID, Name: "晚班", Start: "13:00", End: "23:00"}
	legacyExtendedBlock = domain.Shift{ID: domain.LegacyEveningShiftID, Name: "晚班(延长)", Start: "13:00", End: "01:00"}
)

// ComputeStats 计算每个教练在日期范围内的工作量统计。
// 排班记录先按 (教练, 日期) 分组，每组内把班次换算成分钟区间后合并，
// 避免同一天的重叠班次被重复计入工时。这里和排班生成时的增量工时
// 使用同一套区间合并逻辑，对同一批排班必须给出一致的结果。
//
// 找不到门店班次定义的记录（旧版数据）回落到固定时间段。
func ComputeStats(coaches []*domain.Coach, schedules []domain.Schedule, stores []*domain.Store, dateRange []string) (map[string]*domain.WorkloadStats, error) {
	inRange := make(map[string]struct{}, len(dateRange))
	for _, d := range dateRange {
		inRange[d] = struct{}{}
	}

	storesByID := make(map[string]*domain.Store, len(stores))
	for _, s := range stores {
		storesByID[s.ID] = s
	}

	// 教练 ID -> 日期 -> 当天的排班记录
	groups := make(map[string]map[string][]domain.Schedule)
	for _, s := range schedules {
		if _, ok := inRange[s.DateStr]; !ok {
			continue
		}
		if groups[s.CoachID] == nil {
			groups[s.CoachID] = make(map[string][]domain.Schedule)
		}
		groups[s.CoachID][s.DateStr] = append(groups[s.CoachID][s.DateStr], s)
	}

	stats := make(map[string]*domain.WorkloadStats, len(coaches))
	for _, c := range coaches {
		stats[c.ID] = &domain.WorkloadStats{WorkedDates: []string{}}
	}

	for coachID, byDate := range groups {
		stat, exists := stats[coachID]
		if !exists {
			// 排班中出现了快照之外的教练，跳过而不是报错
			continue
		}

		for dateStr, items := range byDate {
			intervals := make([]interval, 0, len(items))
			for _, item := range items {
				shift := resolveShift(storesByID, item)
				iv, err := shiftInterval(shift)
				if err != nil {
					return nil, err
				}
				intervals = append(intervals, iv)
			}

			stat.TotalShifts += len(items)
			stat.TotalHours += mergeAndSumHours(intervals)
			stat.WorkedDates = append(stat.WorkedDates, dateStr)
		}

		sort.Strings(stat.WorkedDates)
	}

	return stats, nil
}

// resolveShift 查找排班记录对应的班次定义，找不到时回落到旧版固定
// 时间段。旧版记录的班次 ID 只会是 morning 或 evening，其余未知 ID
// 一律按晚班处理；带延长标记的晚班结束时间顺延到次日 01:00。
func resolveShift(storesByID map[string]*domain.Store, item domain.Schedule) *domain.Shift {
	if store, exists := storesByID[item.StoreID]; exists {
		if shift := store.FindShift(item.ShiftID); shift != nil {
			return shift
		}
	}

	if item.ShiftID == domain.LegacyMorningShiftID {
		return &legacyMorningBlock
	}
	if item.Extended {
		return &legacyExtendedBlock
	}
	return &legacyEveningBlock
}
