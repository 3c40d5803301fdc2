package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

const (
	dateLayout    = "2006-01-02"
	minutesPerDay = 24 * 60
)

// interval: 以分钟为单位的时间段，start 从当天 00:00 起算。
// 跨午夜的班次 end 会超过 1440。
type interval struct {
	start int
	end   int
}

// toMinutes 将 HH:MM 格式的时间转换为从 00:00 起的分钟数
func toMinutes(t string) (int, error) {
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("非法的时间格式: %q", t)
	}
	hour, hourErr := strconv.Atoi(parts[0])
	minute, minuteErr := strconv.Atoi(parts[1])
	if hourErr != nil || minuteErr != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("非法的时间格式: %q", t)
	}
	return hour*60 + minute, nil
}

// shiftInterval 将班次的起止时间转换为分钟区间，
// 结束时间小于开始时间表示跨午夜（如 14:00-01:00）
func shiftInterval(shift *domain.Shift) (interval, error) {
	start, err := toMinutes(shift.Start)
	if err != nil {
		return interval{}, fmt.Errorf("班次 %s 的开始时间格式错误: %w", shift.ID, err)
	}
	end, err := toMinutes(shift.End)
	if err != nil {
		return interval{}, fmt.Errorf("班次 %s 的结束时间格式错误: %w", shift.ID, err)
	}
	if end < start {
		end += minutesPerDay
	}
	return interval{start: start, end: end}, nil
}

// mergeAndSumHours 合并重叠或相邻的时间段后计算总时长（小时）。
// 同一天的多个重叠班次经过合并后不会被重复计算。
func mergeAndSumHours(intervals []interval) float64 {
	if len(intervals) == 0 {
		return 0
	}
	if len(intervals) == 1 {
		return float64(intervals[0].end-intervals[0].start) / 60
	}

	sorted := make([]interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start < sorted[j].start
	})

	merged := []interval{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if cur.start <= last.end {
			if cur.end > last.end {
				last.end = cur.end
			}
		} else {
			merged = append(merged, cur)
		}
	}

	total := 0
	for _, iv := range merged {
		total += iv.end - iv.start
	}
	return float64(total) / 60
}

func overlaps(a, b interval) bool {
	return a.start < b.end && b.start < a.end
}

// weekdayOf 返回日期对应的星期几 (0=周日..6=周六)
func weekdayOf(dateStr string) (int, error) {
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return 0, fmt.Errorf("非法的日期格式: %q", dateStr)
	}
	return int(t.Weekday()), nil
}

// 周五、周六、周日视为周末
func isWeekendDay(weekday int) bool {
	return weekday == 0 || weekday == 5 || weekday == 6
}

// WeekDays 返回 start 所在自然周（从周一开始）的 7 个日期
func WeekDays(start time.Time) []string {
	offset := int(start.Weekday()) - 1
	if offset < 0 {
		offset = 6
	}
	monday := start.AddDate(0, 0, -offset)

	days := make([]string, 7)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i).Format(dateLayout)
	}
	return days
}
