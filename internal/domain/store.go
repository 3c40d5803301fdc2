package domain

import "time"

// Shift: 门店中的一个班次，时间为 HH:MM 格式。
// End 小于 Start 表示跨午夜（如 14:00-01:00）。
type Shift struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Start      string `json:"start"`
	End        string `json:"end"`
	DaysOfWeek []int  `json:"daysOfWeek,omitempty"` // 0=周日..6=周六，为空表示全周适用
	MinCoaches int    `json:"minCoaches,omitempty"`
	MaxCoaches int    `json:"maxCoaches,omitempty"`
}

// Staffing 返回归一化后的人数范围，未配置时默认各为 1
func (s *Shift) Staffing() (min int, max int) {
	min = s.MinCoaches
	if min <= 0 {
		min = 1
	}
	max = s.MaxCoaches
	if max <= 0 {
		max = 1
	}
	if max < min {
		max = min
	}
	return min, max
}

// AppliesOn 判断班次在某个星期几是否适用
func (s *Shift) AppliesOn(weekday int) bool {
	if len(s.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range s.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}

type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Shifts    []Shift   `json:"shifts"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// FindShift 按 ID 查找班次定义，找不到时返回 nil
func (s *Store) FindShift(shiftID string) *Shift {
	for i := range s.Shifts {
		if s.Shifts[i].ID == shiftID {
			return &s.Shifts[i]
		}
	}
	return nil
}
