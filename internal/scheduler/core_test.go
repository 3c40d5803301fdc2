package scheduler

import (
	"testing"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

func newTestGenerator(t *testing.T, coaches []*domain.Coach, stores []*domain.Store, weekDays []string) *Generator {
	t.Helper()
	g, err := New(coaches, stores, weekDays)
	if err != nil {
		t.Fatalf("New unexpected error: %v", err)
	}
	return g
}

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		name         string
		availability *domain.Availability
		weekday      int
		shiftID      string
		expected     bool
	}{
		{"没有配置可用性则全部可上", nil, 3, "s1", true},
		{"配置为空等同没有配置", &domain.Availability{}, 3, "s1", true},
		{
			"当天没有条目表示休息",
			&domain.Availability{WeekSchedule: domain.WeekAvailability{
				1: {"s1": true},
			}},
			3, "s1", false,
		},
		{
			"班次配置为 true",
			&domain.Availability{WeekSchedule: domain.WeekAvailability{
				3: {"s1": true},
			}},
			3, "s1", true,
		},
		{
			"班次明确配置为 false",
			&domain.Availability{WeekSchedule: domain.WeekAvailability{
				3: {"s1": false},
			}},
			3, "s1", false,
		},
		{
			"当天有条目但没有这个班次",
			&domain.Availability{WeekSchedule: domain.WeekAvailability{
				3: {"s2": true},
			}},
			3, "s1", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &domain.Coach{ID: "c1", Availability: tt.availability}
			if result := isAvailable(c, tt.weekday, tt.shiftID); result != tt.expected {
				t.Errorf("isAvailable = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestUnderFullTimeCap(t *testing.T) {
	fullTime := &domain.Coach{ID: "c1", EmploymentType: domain.EmploymentFullTime}
	partTime := &domain.Coach{ID: "c2", EmploymentType: domain.EmploymentPartTime}

	st := newGenerationState([]*domain.Coach{fullTime, partTime})
	days := []string{"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10"}
	for _, d := range days {
		st.recordAssignment("c1", d, "store1", "s1", interval{540, 1080})
		st.recordAssignment("c2", d, "store1", "s1", interval{540, 1080})
	}

	if underFullTimeCap(fullTime, st, "2025-01-11") {
		t.Error("全职教练已工作 5 天，第 6 天不应该可用")
	}
	if !underFullTimeCap(fullTime, st, "2025-01-10") {
		t.Error("全职教练当天已经在工作，同一天应该可以继续接班")
	}
	if !underFullTimeCap(partTime, st, "2025-01-11") {
		t.Error("兼职教练不受工作天数上限限制")
	}
}

// 工作天数上限只在放宽阶段约束没有配置可用性的全职教练；
// 配置了可用性的全职教练两个阶段都受上限约束
func TestFilterCandidatesFullTimeCap(t *testing.T) {
	unconfigured := &domain.Coach{ID: "c-a", EmploymentType: domain.EmploymentFullTime}
	configured := &domain.Coach{
		ID:             "c-b",
		EmploymentType: domain.EmploymentFullTime,
		Availability: &domain.Availability{WeekSchedule: domain.WeekAvailability{
			0: {"s1": true}, 1: {"s1": true}, 2: {"s1": true}, 3: {"s1": true},
			4: {"s1": true}, 5: {"s1": true}, 6: {"s1": true},
		}},
	}

	week := []string{
		"2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09",
		"2025-01-10", "2025-01-11", "2025-01-12",
	}
	g := newTestGenerator(t, []*domain.Coach{unconfigured, configured}, nil, week)
	for _, d := range week[:5] {
		g.state.recordAssignment("c-a", d, "store1", "s1", interval{540, 1080})
		g.state.recordAssignment("c-b", d, "store1", "s1", interval{540, 1080})
	}

	pool := []*domain.Coach{unconfigured, configured}

	strict := g.filterCandidates(pool, "2025-01-11", 6, "s1", false)
	if len(strict) != 1 || strict[0].ID != "c-a" {
		t.Errorf("严格阶段应该只剩没有配置可用性的教练, got %+v", coachIDs(strict))
	}

	relaxed := g.filterCandidates(pool, "2025-01-11", 6, "s1", true)
	if len(relaxed) != 0 {
		t.Errorf("放宽阶段两位教练都已排满 5 天, got %+v", coachIDs(relaxed))
	}
}

func coachIDs(coaches []*domain.Coach) []string {
	ids := make([]string, 0, len(coaches))
	for _, c := range coaches {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestRankCandidatesAffinity(t *testing.T) {
	a := &domain.Coach{ID: "c-a", Stores: []domain.CoachStore{{StoreID: "store2", IsPrimary: true}}}
	b := &domain.Coach{ID: "c-b", Stores: []domain.CoachStore{{StoreID: "store1", IsPrimary: true}}}

	g := newTestGenerator(t, []*domain.Coach{a, b}, nil, []string{"2025-01-06"})

	candidates := []*domain.Coach{a, b}
	g.rankCandidates(candidates, 1, "store1")

	if candidates[0].ID != "c-b" {
		t.Errorf("主门店教练应该排在前面, got %s", candidates[0].ID)
	}
}

func TestRankCandidatesWeekendFairness(t *testing.T) {
	a := &domain.Coach{ID: "c-a"}
	b := &domain.Coach{ID: "c-b"}

	// 2025-01-10 是周五，a 已经上过周六的班
	g := newTestGenerator(t, []*domain.Coach{a, b}, nil, []string{"2025-01-10", "2025-01-11"})
	g.state.recordAssignment("c-a", "2025-01-11", "store1", "s1", interval{540, 600})

	candidates := []*domain.Coach{a, b}
	g.rankCandidates(candidates, 5, "store1")

	if candidates[0].ID != "c-b" {
		t.Errorf("周末班应该优先给还没上过周末班的教练, got %s", candidates[0].ID)
	}

	// 非周末时不考虑周末公平性，按工时排序；b 补一点工时让 a 更闲
	g.state.recordAssignment("c-b", "2025-01-10", "store1", "s1", interval{540, 720})
	candidates = []*domain.Coach{b, a}
	g.rankCandidates(candidates, 3, "store1")
	if candidates[0].ID != "c-a" {
		t.Errorf("非周末按工时排序, got %s", candidates[0].ID)
	}
}

func TestRankCandidatesWorkloadAndTieBreak(t *testing.T) {
	a := &domain.Coach{ID: "c-a"}
	b := &domain.Coach{ID: "c-b"}
	c := &domain.Coach{ID: "c-c"}

	g := newTestGenerator(t, []*domain.Coach{a, b, c}, nil, []string{"2025-01-06"})
	g.state.recordAssignment("c-a", "2025-01-06", "store1", "s1", interval{540, 1080})

	candidates := []*domain.Coach{c, a, b}
	g.rankCandidates(candidates, 1, "store1")

	// b 和 c 工时相同且都比 a 少，按 ID 排序保证结果可复现
	if candidates[0].ID != "c-b" || candidates[1].ID != "c-c" || candidates[2].ID != "c-a" {
		t.Errorf("排序结果 = [%s %s %s], want [c-b c-c c-a]",
			candidates[0].ID, candidates[1].ID, candidates[2].ID)
	}
}

func TestSelectCoachesInsufficientCandidates(t *testing.T) {
	a := &domain.Coach{ID: "c-a"}
	store := &domain.Store{ID: "store1", Name: "一号店"}
	shift := &domain.Shift{ID: "s1", Name: "全天", Start: "09:00", End: "18:00"}

	g := newTestGenerator(t, []*domain.Coach{a}, nil, []string{"2025-01-06"})

	selected := g.selectCoaches([]*domain.Coach{a}, 3, "2025-01-06", 1, shift, store)

	if len(selected) != 1 {
		t.Fatalf("候选不足时应该返回全部可用教练, got %d", len(selected))
	}

	// 候选不足会留下一条警告和一条放宽约束的信息
	var warned, informed bool
	for _, w := range g.warnings {
		if w.StoreID != "store1" || w.DateStr != "2025-01-06" || w.ShiftID != "s1" {
			t.Errorf("诊断信息必须能定位到槽位: %+v", w)
		}
		switch w.Severity {
		case SeverityWarning:
			warned = true
		case SeverityInfo:
			informed = true
		}
	}
	if !warned || !informed {
		t.Errorf("候选不足时应该同时记录警告和放宽信息, warnings = %+v", g.warnings)
	}
}
