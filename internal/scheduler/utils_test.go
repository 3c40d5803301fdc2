package scheduler

import (
	"testing"
	"time"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		hasError bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"13:30", 810, false},
		{"23:59", 1439, false},
		{"", 0, true},
		{"9", 0, true},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"ab:cd", 0, true},
		{"10:00:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := toMinutes(tt.input)
			if tt.hasError {
				if err == nil {
					t.Errorf("toMinutes(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("toMinutes(%q) unexpected error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("toMinutes(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestShiftIntervalRollover(t *testing.T) {
	shift := &domain.Shift{ID: "s1", Start: "14:00", End: "02:00"}

	iv, err := shiftInterval(shift)
	if err != nil {
		t.Fatalf("shiftInterval unexpected error: %v", err)
	}
	if iv.end-iv.start != 720 {
		t.Errorf("跨午夜班次 14:00-02:00 时长 = %d 分钟, want 720", iv.end-iv.start)
	}
	if iv.end <= minutesPerDay {
		t.Errorf("跨午夜班次的 end 应该超过 1440, got %d", iv.end)
	}
}

func TestShiftIntervalMalformed(t *testing.T) {
	tests := []struct {
		name  string
		shift domain.Shift
	}{
		{"开始时间非法", domain.Shift{ID: "s1", Start: "25:00", End: "18:00"}},
		{"结束时间非法", domain.Shift{ID: "s1", Start: "09:00", End: "bad"}},
		{"缺少时间", domain.Shift{ID: "s1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := shiftInterval(&tt.shift); err == nil {
				t.Error("shiftInterval expected error, got nil")
			}
		})
	}
}

func TestMergeAndSumHours(t *testing.T) {
	tests := []struct {
		name      string
		intervals []interval
		expected  float64
	}{
		{"空输入", nil, 0},
		{"单个时间段", []interval{{540, 1080}}, 9},
		{"不重叠", []interval{{540, 720}, {780, 900}}, 5},
		{"重叠去重", []interval{{600, 960}, {840, 1200}}, 10},
		{"完全包含", []interval{{540, 1080}, {600, 720}}, 9},
		{"首尾相接", []interval{{540, 720}, {720, 900}}, 6},
		{"乱序输入", []interval{{840, 1200}, {600, 960}}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mergeAndSumHours(tt.intervals)
			if result != tt.expected {
				t.Errorf("mergeAndSumHours = %v, want %v", result, tt.expected)
			}
		})
	}
}

// 用逐分钟覆盖标记的笨办法独立验证合并算法的正确性
func TestMergeAndSumHoursCoverage(t *testing.T) {
	cases := [][]interval{
		{{0, 60}, {30, 90}, {120, 180}},
		{{600, 960}, {840, 1200}, {1100, 1300}},
		{{100, 200}, {150, 160}, {190, 210}, {500, 501}},
	}

	for _, intervals := range cases {
		covered := make(map[int]bool)
		for _, iv := range intervals {
			for m := iv.start; m < iv.end; m++ {
				covered[m] = true
			}
		}
		expected := float64(len(covered)) / 60

		if result := mergeAndSumHours(intervals); result != expected {
			t.Errorf("mergeAndSumHours(%v) = %v, want %v", intervals, result, expected)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     interval
		expected bool
	}{
		{"相交", interval{600, 960}, interval{840, 1200}, true},
		{"不相交", interval{540, 720}, interval{780, 900}, false},
		{"首尾相接不算重叠", interval{540, 720}, interval{720, 900}, false},
		{"包含", interval{540, 1080}, interval{600, 720}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := overlaps(tt.a, tt.b); result != tt.expected {
				t.Errorf("overlaps(%v, %v) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
			// 重叠关系是对称的
			if result := overlaps(tt.b, tt.a); result != tt.expected {
				t.Errorf("overlaps(%v, %v) = %v, want %v", tt.b, tt.a, result, tt.expected)
			}
		})
	}
}

func TestWeekDays(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected []string
	}{
		{
			"周三",
			time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC),
			[]string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10", "2025-01-11", "2025-01-12"},
		},
		{
			"周一",
			time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			[]string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10", "2025-01-11", "2025-01-12"},
		},
		{
			"周日归入上一周",
			time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
			[]string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10", "2025-01-11", "2025-01-12"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WeekDays(tt.input)
			if len(result) != 7 {
				t.Fatalf("WeekDays 应该返回 7 天, got %d", len(result))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("WeekDays[%d] = %s, want %s", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	weekday, err := weekdayOf("2025-01-12")
	if err != nil {
		t.Fatalf("weekdayOf unexpected error: %v", err)
	}
	if weekday != 0 {
		t.Errorf("2025-01-12 是周日, weekdayOf = %d, want 0", weekday)
	}

	if _, err := weekdayOf("2025/01/12"); err == nil {
		t.Error("weekdayOf 对非法日期应该报错")
	}
}
