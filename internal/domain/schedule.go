package domain

import "time"

// Schedule: 一条排班记录，表示某个教练在某天到某个门店上某个班次。
// (date, store, shift, coach) 四元组在数据库中有唯一约束。
type Schedule struct {
	ID        string    `json:"id"`
	DateStr   string    `json:"dateStr"` // YYYY-MM-DD
	CoachID   string    `json:"coachID"`
	StoreID   string    `json:"storeID"`
	ShiftID   string    `json:"shiftID"`
	ShiftName string    `json:"shiftName"`
	Extended  bool      `json:"extended,omitempty"` // 旧版晚班延长到次日 01:00 的标记
	CreatedAt time.Time `json:"createdAt"`
}

// WorkloadStats: 一个教练在某个日期范围内的工作量统计。
// TotalHours 为去除同日重叠班次后的实际工时。
type WorkloadStats struct {
	TotalShifts int      `json:"totalShifts"`
	TotalHours  float64  `json:"totalHours"`
	WorkedDates []string `json:"workedDates"`
}
