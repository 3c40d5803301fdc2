package scheduler

import (
	"sort"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

// 全职教练每周最多工作的天数，保证至少双休。兼职教练没有上限。
// 上限只约束配置了可用性的教练；没有配置可用性的教练在严格阶段
// 不受上限限制，只在放宽阶段被约束。
const maxFullTimeWorkDays = 5

// isAvailable 按可用性配置判断教练在某个星期几能否上某个班次：
//  1. 完全没有配置可用性 -> 任何班次都可以上
//  2. 配置了可用性但当天没有条目 -> 当天明确休息
//  3. 当天条目中有这个班次 -> 按配置的布尔值
//  4. 当天有条目但没有这个班次 -> 不可上班
//
// 旧版数据中的 canWorkMorning / canWorkEvening 字段在数据加载时
// 已经归一化成 morning / evening 班次 ID，这里不再区分新旧格式。
func isAvailable(c *domain.Coach, weekday int, shiftID string) bool {
	if c.Availability == nil || len(c.Availability.WeekSchedule) == 0 {
		return true
	}

	day, exists := c.Availability.WeekSchedule[weekday]
	if !exists {
		return false
	}

	ok, exists := day[shiftID]
	return exists && ok
}

// underFullTimeCap 检查全职教练的工作天数上限。当天已经在工作的教练
// 不会因为上限被排除，同一天可以继续接别的班次。
func underFullTimeCap(c *domain.Coach, st *GenerationState, dateStr string) bool {
	if !c.IsFullTime() {
		return true
	}
	if st.WorksOn(c.ID, dateStr) {
		return true
	}
	return st.DaysWorked(c.ID) < maxFullTimeWorkDays
}

// filterCandidates 按可用性和全职工作天数上限过滤教练池。
// 两个阶段对没有配置可用性的教练处理不同：严格阶段直接视为可用，
// 不检查工作天数上限；放宽阶段反而要检查上限，保障全职双休。
// 配置了可用性的教练在两个阶段都同时受可用性和上限约束，可用性
// 在任何阶段都不放宽。
func (g *Generator) filterCandidates(pool []*domain.Coach, dateStr string, weekday int, shiftID string, relaxed bool) []*domain.Coach {
	candidates := make([]*domain.Coach, 0, len(pool))
	for _, c := range pool {
		if c.Availability == nil || len(c.Availability.WeekSchedule) == 0 {
			if relaxed && !underFullTimeCap(c, g.state, dateStr) {
				continue
			}
			candidates = append(candidates, c)
			continue
		}
		if !isAvailable(c, weekday, shiftID) {
			continue
		}
		if !underFullTimeCap(c, g.state, dateStr) {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// rankCandidates 对候选教练按三级规则排序：
//  1. 主门店是当前门店的优先
//  2. 周末班优先给本周还没有上过周末班的教练
//  3. 累计工时少的优先
//
// 工时也相同时按教练 ID 排序，让同一份输入总是产生同一份排班。
func (g *Generator) rankCandidates(candidates []*domain.Coach, weekday int, storeID string) {
	weekend := isWeekendDay(weekday)

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		aPrimary := a.PrimaryStoreID() == storeID
		bPrimary := b.PrimaryStoreID() == storeID
		if aPrimary != bPrimary {
			return aPrimary
		}

		if weekend {
			aWorkedWeekend := g.state.WorkedAnyOf(a.ID, g.weekendDays)
			bWorkedWeekend := g.state.WorkedAnyOf(b.ID, g.weekendDays)
			if aWorkedWeekend != bWorkedWeekend {
				return !aWorkedWeekend
			}
		}

		if g.state.Hours(a.ID) != g.state.Hours(b.ID) {
			return g.state.Hours(a.ID) < g.state.Hours(b.ID)
		}

		return a.ID < b.ID
	})
}

// selectCoaches 为一个 (门店, 日期, 班次) 槽位挑选不超过 count 个教练。
// 先按严格约束过滤；严格候选不足时再执行放宽阶段的过滤并记录诊断信息，
// 取两个候选集中较大的一个。可用性从不放宽，两个阶段只在全职工作天数
// 上限对未配置可用性教练的处理上有差别。
func (g *Generator) selectCoaches(pool []*domain.Coach, count int, dateStr string, weekday int, shift *domain.Shift, store *domain.Store) []*domain.Coach {
	strict := g.filterCandidates(pool, dateStr, weekday, shift.ID, false)

	final := strict
	if len(strict) < count {
		g.warnf(store, dateStr, shift.ID, "严格约束下只有 %d 个候选教练，需要 %d 个", len(strict), count)

		relaxed := g.filterCandidates(pool, dateStr, weekday, shift.ID, true)
		g.infof(store, dateStr, shift.ID, "放宽约束后有 %d 个候选教练", len(relaxed))
		if len(relaxed) > len(strict) {
			final = relaxed
		}
	}

	g.rankCandidates(final, weekday, store.ID)

	if len(final) > count {
		final = final[:count]
	}
	return final
}
