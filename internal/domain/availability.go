package domain

import (
	"fmt"
	"strconv"
)

// 旧版数据中的早班/晚班在新版中对应的班次 ID
const (
	LegacyMorningShiftID = "morning"
	LegacyEveningShiftID = "evening"
)

// 旧版可用性数据使用的布尔字段名
const (
	legacyMorningKey = "canWorkMorning"
	legacyEveningKey = "canWorkEvening"
)

// DayAvailability: 班次 ID -> 当天该班次是否可上班
type DayAvailability map[string]bool

// WeekAvailability: 星期几 (0=周日..6=周六) -> 当天各班次的可用性。
// 某个星期几没有条目表示这一天明确不可上班；整个结构为空表示教练没有
// 配置过可用性，此时视为任何时间都可上班。
type WeekAvailability map[int]DayAvailability

type Availability struct {
	WeekSchedule WeekAvailability `json:"weekSchedule"`
}

// NormalizeWeekSchedule 将数据库中存储的原始可用性数据归一化为
// 以班次 ID 为键的标准形式。旧版数据中的 canWorkMorning / canWorkEvening
// 布尔字段会被映射到 morning / evening 班次 ID 上；如果新旧键同时存在，
// 以新键为准。
func NormalizeWeekSchedule(raw map[string]map[string]bool) (WeekAvailability, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	ws := make(WeekAvailability, len(raw))

	for dayKey, rawDay := range raw {
		day, err := strconv.Atoi(dayKey)
		if err != nil || day < 0 || day > 6 {
			return nil, fmt.Errorf("非法的星期键: %q", dayKey)
		}

		dayAvail := make(DayAvailability, len(rawDay))
		for shiftID, ok := range rawDay {
			switch shiftID {
			case legacyMorningKey, legacyEveningKey:
				// 旧键在下面单独处理
			default:
				dayAvail[shiftID] = ok
			}
		}

		if v, exists := rawDay[legacyMorningKey]; exists {
			if _, already := dayAvail[LegacyMorningShiftID]; !already {
				dayAvail[LegacyMorningShiftID] = v
			}
		}
		if v, exists := rawDay[legacyEveningKey]; exists {
			if _, already := dayAvail[LegacyEveningShiftID]; !already {
				dayAvail[LegacyEveningShiftID] = v
			}
		}

		ws[day] = dayAvail
	}

	return ws, nil
}
