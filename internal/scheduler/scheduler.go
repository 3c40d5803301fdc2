package scheduler

import (
	"fmt"
	"sort"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
	"github.com/google/uuid"
)

// Generator 在一份教练/门店快照上生成一周的排班。生成过程是单线程的
// 一次遍历，不读写数据库，输出一批新的排班记录和一组诊断信息；
// 持久化（先删后插的替换语义）由调用方负责。
// 同一个 Generator 实例不允许被并发使用。
type Generator struct {
	coaches     []*domain.Coach
	stores      []*domain.Store
	weekDays    []string
	weekdays    map[string]int                 // 日期 -> 星期几
	weekendDays []string                       // 本周的周五、周六、周日
	intervals   map[string]map[string]interval // 门店 ID -> 班次 ID -> 时间区间

	state     *GenerationState
	schedules []domain.Schedule
	warnings  []Warning
}

// New 构造 Generator 并预先解析所有日期和班次时间。
// 任何时间或日期格式错误都会让整次排班失败，错误的区间换算会污染
// 后续所有的公平性决策，不能带病运行。
func New(coaches []*domain.Coach, stores []*domain.Store, weekDays []string) (*Generator, error) {
	g := &Generator{
		coaches:   coaches,
		weekDays:  weekDays,
		weekdays:  make(map[string]int, len(weekDays)),
		intervals: make(map[string]map[string]interval),
		state:     newGenerationState(coaches),
	}

	for _, dateStr := range weekDays {
		weekday, err := weekdayOf(dateStr)
		if err != nil {
			return nil, err
		}
		g.weekdays[dateStr] = weekday
		if isWeekendDay(weekday) {
			g.weekendDays = append(g.weekendDays, dateStr)
		}
	}

	for _, store := range stores {
		// 已归档的门店不参与排班
		if store.Archived {
			continue
		}

		shiftIntervals := make(map[string]interval, len(store.Shifts))
		for i := range store.Shifts {
			iv, err := shiftInterval(&store.Shifts[i])
			if err != nil {
				return nil, fmt.Errorf("门店 %s: %w", store.Name, err)
			}
			shiftIntervals[store.Shifts[i].ID] = iv
		}

		g.stores = append(g.stores, store)
		g.intervals[store.ID] = shiftIntervals
	}

	return g, nil
}

// State 暴露生成过程的运行状态，供调用方在生成结束后读取
// 每个教练的工作天数和累计工时。
func (g *Generator) State() *GenerationState {
	return g.state
}

// Generate 按 门店 -> 日期 -> 班次 的顺序遍历并填充每一个槽位
func (g *Generator) Generate() *Result {
	for _, store := range g.stores {
		g.generateForStore(store)
	}

	g.auditRestDays()

	return &Result{
		Schedules: g.schedules,
		Warnings:  g.warnings,
	}
}

func (g *Generator) generateForStore(store *domain.Store) {
	if len(store.Shifts) == 0 {
		g.warnf(store, "", "", "门店没有配置班次，跳过")
		return
	}

	// 教练池：主门店教练在前，关联（副门店）教练在后
	var pool []*domain.Coach
	for _, c := range g.coaches {
		if c.PrimaryStoreID() == store.ID {
			pool = append(pool, c)
		}
	}
	for _, c := range g.coaches {
		if c.AffiliatedWith(store.ID) && c.PrimaryStoreID() != store.ID {
			pool = append(pool, c)
		}
	}

	if len(pool) == 0 {
		g.warnf(store, "", "", "门店没有关联任何教练，跳过")
		return
	}

	for _, dateStr := range g.weekDays {
		weekday := g.weekdays[dateStr]

		var applicable []domain.Shift
		for _, shift := range store.Shifts {
			if shift.AppliesOn(weekday) {
				applicable = append(applicable, shift)
			}
		}

		// 按开始时间从早到晚处理，让早班优先挑选教练
		sort.Slice(applicable, func(i, j int) bool {
			return g.intervals[store.ID][applicable[i].ID].start < g.intervals[store.ID][applicable[j].ID].start
		})

		for i := range applicable {
			g.fillSlot(store, pool, dateStr, weekday, &applicable[i])
		}
	}
}

func (g *Generator) fillSlot(store *domain.Store, storePool []*domain.Coach, dateStr string, weekday int, shift *domain.Shift) {
	minStaff, maxStaff := shift.Staffing()
	iv := g.intervals[store.ID][shift.ID]

	pool := make([]*domain.Coach, 0, len(storePool))
	for _, c := range storePool {
		// 当天已被其他门店占用的教练不可用
		if lockedStore, locked := g.state.StoreOn(c.ID, dateStr); locked && lockedStore != store.ID {
			continue
		}

		// 当天已有班次和本班次时间重叠的教练不可用
		conflict := false
		for _, assigned := range g.state.intervalsOn(c.ID, dateStr) {
			if overlaps(iv, assigned) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		pool = append(pool, c)
	}

	selected := g.selectCoaches(pool, maxStaff, dateStr, weekday, shift, store)

	if len(selected) == 0 {
		g.warnf(store, dateStr, shift.ID, "没有可用教练，班次保持空缺")
		return
	}
	if len(selected) < minStaff {
		g.warnf(store, dateStr, shift.ID, "只找到 %d 个教练，少于最低需求 %d 人，仍然分配", len(selected), minStaff)
	}

	for _, c := range selected {
		g.schedules = append(g.schedules, domain.Schedule{
			ID:        uuid.NewString(),
			DateStr:   dateStr,
			CoachID:   c.ID,
			StoreID:   store.ID,
			ShiftID:   shift.ID,
			ShiftName: shift.Name,
		})
		g.state.recordAssignment(c.ID, dateStr, store.ID, shift.ID, iv)
	}
}

// auditRestDays 是生成结束后的非阻塞检查：全职教练本周休息天数不足
// 2 天时记录警告，不影响已生成的结果。
func (g *Generator) auditRestDays() {
	for _, c := range g.coaches {
		if len(c.Stores) == 0 || !c.IsFullTime() {
			continue
		}

		worked := g.state.DaysWorked(c.ID)
		rest := len(g.weekDays) - worked
		if rest < 2 {
			g.warnings = append(g.warnings, Warning{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("全职教练 %s 本周工作 %d 天，休息 %d 天，少于建议的 2 天", c.Name, worked, rest),
			})
		}
	}
}

func (g *Generator) warnf(store *domain.Store, dateStr string, shiftID string, format string, args ...any) {
	g.warnings = append(g.warnings, Warning{
		Severity:  SeverityWarning,
		StoreID:   store.ID,
		StoreName: store.Name,
		DateStr:   dateStr,
		ShiftID:   shiftID,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (g *Generator) infof(store *domain.Store, dateStr string, shiftID string, format string, args ...any) {
	g.warnings = append(g.warnings, Warning{
		Severity:  SeverityInfo,
		StoreID:   store.ID,
		StoreName: store.Name,
		DateStr:   dateStr,
		ShiftID:   shiftID,
		Message:   fmt.Sprintf(format, args...),
	})
}
