package scheduler

import (
	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Warning: 一条可以定位到 (门店, 日期, 班次) 的诊断信息。
// 排班过程中所有的人手不足、配置缺失都以 Warning 的形式返回给调用方，
// 由调用方决定如何展示。
type Warning struct {
	Severity  Severity `json:"severity"`
	StoreID   string   `json:"storeID,omitempty"`
	StoreName string   `json:"storeName,omitempty"`
	DateStr   string   `json:"dateStr,omitempty"`
	ShiftID   string   `json:"shiftID,omitempty"`
	Message   string   `json:"message"`
}

// Result: 一次排班的完整输出
type Result struct {
	Schedules []domain.Schedule `json:"schedules"`
	Warnings  []Warning         `json:"warnings"`
}

type assignedShift struct {
	shiftID string
	iv      interval
}

// coachState: 单个教练在本次排班过程中的运行状态
type coachState struct {
	hours       float64                    // 累计工时，同日重叠班次已去除
	datesWorked map[string]struct{}        // 已工作的日期
	dailyStore  map[string]string          // 日期 -> 当天锁定的门店
	dailyShifts map[string][]assignedShift // 日期 -> 当天已分配的班次
}

// GenerationState 记录所有教练的运行状态。状态在所有门店的排班过程中
// 共享，用于保证同一天一个教练只会出现在一个门店。
type GenerationState struct {
	coaches map[string]*coachState
}

func newGenerationState(coaches []*domain.Coach) *GenerationState {
	st := &GenerationState{
		coaches: make(map[string]*coachState, len(coaches)),
	}
	for _, c := range coaches {
		st.coaches[c.ID] = &coachState{
			datesWorked: make(map[string]struct{}),
			dailyStore:  make(map[string]string),
			dailyShifts: make(map[string][]assignedShift),
		}
	}
	return st
}

func (st *GenerationState) Hours(coachID string) float64 {
	if cs, exists := st.coaches[coachID]; exists {
		return cs.hours
	}
	return 0
}

// DaysWorked 返回教练本周已工作的天数
func (st *GenerationState) DaysWorked(coachID string) int {
	if cs, exists := st.coaches[coachID]; exists {
		return len(cs.datesWorked)
	}
	return 0
}

// WorksOn 判断教练在某天是否已经有班次
func (st *GenerationState) WorksOn(coachID string, dateStr string) bool {
	cs, exists := st.coaches[coachID]
	if !exists {
		return false
	}
	_, works := cs.datesWorked[dateStr]
	return works
}

// WorkedAnyOf 判断教练是否在给定日期中的任何一天工作过
func (st *GenerationState) WorkedAnyOf(coachID string, dates []string) bool {
	cs, exists := st.coaches[coachID]
	if !exists {
		return false
	}
	for _, d := range dates {
		if _, works := cs.datesWorked[d]; works {
			return true
		}
	}
	return false
}

// StoreOn 返回教练某天被锁定的门店
func (st *GenerationState) StoreOn(coachID string, dateStr string) (string, bool) {
	cs, exists := st.coaches[coachID]
	if !exists {
		return "", false
	}
	storeID, locked := cs.dailyStore[dateStr]
	return storeID, locked
}

func (st *GenerationState) intervalsOn(coachID string, dateStr string) []interval {
	cs, exists := st.coaches[coachID]
	if !exists {
		return nil
	}
	assigned := cs.dailyShifts[dateStr]
	intervals := make([]interval, 0, len(assigned))
	for _, as := range assigned {
		intervals = append(intervals, as.iv)
	}
	return intervals
}

// recordAssignment 记录一条新分配并增量更新教练的累计工时。
// 先减去该教练当天原有的合并工时，再加上追加新班次后重新合并的工时，
// 这样同一天接多个重叠班次时不会重复计算。
func (st *GenerationState) recordAssignment(coachID string, dateStr string, storeID string, shiftID string, iv interval) {
	cs, exists := st.coaches[coachID]
	if !exists {
		return
	}

	prev := st.intervalsOn(coachID, dateStr)
	prevHours := mergeAndSumHours(prev)

	cs.dailyShifts[dateStr] = append(cs.dailyShifts[dateStr], assignedShift{shiftID: shiftID, iv: iv})
	curHours := mergeAndSumHours(append(prev, iv))

	cs.hours += curHours - prevHours
	cs.datesWorked[dateStr] = struct{}{}
	cs.dailyStore[dateStr] = storeID
}
