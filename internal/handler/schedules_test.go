package handler

import (
	"testing"
	"time"

	"github.com/fitstudio/coach-scheduler/backend/internal/scheduler"
)

// 生成和替换必须落在同一把锁上：对同一周发起的生成和替换，
// 锁键要完全一致，否则两边可以并发写同一批排班
func TestScheduleLockKeySharedByGenerateAndReplace(t *testing.T) {
	// 2025-01-08 是周三，展开后是 2025-01-06 ~ 2025-01-12
	start, err := time.Parse("2006-01-02", "2025-01-08")
	if err != nil {
		t.Fatalf("time.Parse unexpected error: %v", err)
	}
	weekDays := scheduler.WeekDays(start)

	generateKey := scheduleLockKey(weekDays[0], weekDays[6])
	replaceKey := scheduleLockKey("2025-01-06", "2025-01-12")

	if generateKey != replaceKey {
		t.Errorf("同一周的生成锁 %q 和替换锁 %q 不一致", generateKey, replaceKey)
	}
	if generateKey != "schedule_lock_2025-01-06_2025-01-12" {
		t.Errorf("锁键 = %q, want schedule_lock_2025-01-06_2025-01-12", generateKey)
	}
}

func TestScheduleLockKeyDistinctRanges(t *testing.T) {
	a := scheduleLockKey("2025-01-06", "2025-01-12")
	b := scheduleLockKey("2025-01-13", "2025-01-19")
	if a == b {
		t.Errorf("不同日期范围不应该共用同一把锁: %q", a)
	}
}

func TestBuildSchedulesRejectsBadDate(t *testing.T) {
	entries := []scheduleEntry{
		{DateStr: "2025/01/06", CoachID: "c1", StoreID: "s1", ShiftID: "sh1", ShiftName: "全天"},
	}
	if _, err := buildSchedules(entries); err == nil {
		t.Error("非 YYYY-MM-DD 的日期应该被拒绝")
	}
}
