package scheduler

import (
	"math"
	"testing"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

func TestComputeStatsOverlapNotDoubleCounted(t *testing.T) {
	stores := []*domain.Store{
		{
			ID:   "store1",
			Name: "一号店",
			Shifts: []domain.Shift{
				{ID: "early", Name: "早班", Start: "10:00", End: "16:00"},
				{ID: "late", Name: "午晚班", Start: "14:00", End: "20:00"},
			},
		},
	}
	coaches := []*domain.Coach{{ID: "c1", Name: "教练A"}}
	schedules := []domain.Schedule{
		{ID: "1", DateStr: "2025-01-06", CoachID: "c1", StoreID: "store1", ShiftID: "early"},
		{ID: "2", DateStr: "2025-01-06", CoachID: "c1", StoreID: "store1", ShiftID: "late"},
	}

	stats, err := ComputeStats(coaches, schedules, stores, []string{"2025-01-06"})
	if err != nil {
		t.Fatalf("ComputeStats unexpected error: %v", err)
	}

	// 10:00-16:00 和 14:00-20:00 合并后是 10 小时，不是 12
	if stats["c1"].TotalHours != 10 {
		t.Errorf("TotalHours = %v, want 10", stats["c1"].TotalHours)
	}
	if stats["c1"].TotalShifts != 2 {
		t.Errorf("TotalShifts = %d, want 2", stats["c1"].TotalShifts)
	}
	if len(stats["c1"].WorkedDates) != 1 || stats["c1"].WorkedDates[0] != "2025-01-06" {
		t.Errorf("WorkedDates = %v, want [2025-01-06]", stats["c1"].WorkedDates)
	}
}

func TestComputeStatsLegacyFallback(t *testing.T) {
	// 门店没有任何班次定义，旧版数据回落到固定时间段
	stores := []*domain.Store{{ID: "store1", Name: "一号店"}}
	coaches := []*domain.Coach{{ID: "c1", Name: "教练A"}}
	schedules := []domain.Schedule{
		{ID: "1", DateStr: "2025-01-06", CoachID: "c1", StoreID: "store1", ShiftID: domain.LegacyMorningShiftID},
	}

	stats, err := ComputeStats(coaches, schedules, stores, []string{"2025-01-06"})
	if err != nil {
		t.Fatalf("ComputeStats unexpected error: %v", err)
	}

	// 旧版早班固定为 10:00-20:00
	if stats["c1"].TotalHours != 10 {
		t.Errorf("TotalHours = %v, want 10", stats["c1"].TotalHours)
	}
}

func TestComputeStatsLegacyExtendedEvening(t *testing.T) {
	stores := []*domain.Store{{ID: "store1", Name: "一号店"}}
	coaches := []*domain.Coach{{ID: "c1", Name: "教练A"}}
	schedules := []domain.Schedule{
		{ID: "1", DateStr: "2025-01-06", CoachID: "c1", StoreID: "store1", ShiftID: domain.LegacyEveningShiftID, Extended: true},
	}

	stats, err := ComputeStats(coaches, schedules, stores, []string{"2025-01-06"})
	if err != nil {
		t.Fatalf("ComputeStats unexpected error: %v", err)
	}

	// 延长晚班 13:00 到次日 01:00 共 12 小时
	if stats["c1"].TotalHours != 12 {
		t.Errorf("TotalHours = %v, want 12", stats["c1"].TotalHours)
	}
}

func TestComputeStatsRangeFilter(t *testing.T) {
	stores := []*domain.Store{allDayStore("store1", "一号店")}
	coaches := []*domain.Coach{{ID: "c1", Name: "教练A"}}
	schedules := []domain.Schedule{
		{ID: "1", DateStr: "2025-01-06", CoachID: "c1", StoreID: "store1", ShiftID: "store1-allday"},
		{ID: "2", DateStr: "2025-02-01", CoachID: "c1", StoreID: "store1", ShiftID: "store1-allday"},
	}

	stats, err := ComputeStats(coaches, schedules, stores, testWeek)
	if err != nil {
		t.Fatalf("ComputeStats unexpected error: %v", err)
	}

	if stats["c1"].TotalShifts != 1 {
		t.Errorf("范围外的排班不应该被统计, TotalShifts = %d, want 1", stats["c1"].TotalShifts)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	coaches := []*domain.Coach{{ID: "c1", Name: "教练A"}}

	stats, err := ComputeStats(coaches, nil, nil, testWeek)
	if err != nil {
		t.Fatalf("ComputeStats unexpected error: %v", err)
	}

	// 没有排班的教练也要有一条全零的统计
	if stats["c1"] == nil {
		t.Fatal("没有排班的教练应该有零值统计")
	}
	if stats["c1"].TotalHours != 0 || stats["c1"].TotalShifts != 0 || len(stats["c1"].WorkedDates) != 0 {
		t.Errorf("零值统计不对: %+v", stats["c1"])
	}
}

// 统计和生成时的增量工时必须对同一批排班给出一致的结果
func TestComputeStatsMatchesGeneratorAccounting(t *testing.T) {
	stores := []*domain.Store{
		{
			ID:   "store1",
			Name: "一号店",
			Shifts: []domain.Shift{
				{ID: "early", Name: "早班", Start: "10:00", End: "16:00"},
				{ID: "late", Name: "午晚班", Start: "14:00", End: "20:00", MaxCoaches: 2},
			},
		},
	}
	coaches := []*domain.Coach{
		partTimeCoach("c1", "教练A", "store1"),
		partTimeCoach("c2", "教练B", "store1"),
	}

	g := newTestGenerator(t, coaches, stores, testWeek)
	result := g.Generate()

	stats, err := ComputeStats(coaches, result.Schedules, stores, testWeek)
	if err != nil {
		t.Fatalf("ComputeStats unexpected error: %v", err)
	}

	for _, c := range coaches {
		generated := g.State().Hours(c.ID)
		aggregated := stats[c.ID].TotalHours
		if math.Abs(generated-aggregated) > 1e-9 {
			t.Errorf("教练 %s 的工时不一致: 生成时 %v, 统计时 %v", c.ID, generated, aggregated)
		}
	}
}
