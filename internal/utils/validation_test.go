package utils

import (
	"testing"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

func TestValidateShifts(t *testing.T) {
	tests := []struct {
		name    string
		shifts  []domain.Shift
		wantErr bool
	}{
		{
			name: "合法班次",
			shifts: []domain.Shift{
				{ID: "morning", Name: "早班", Start: "10:00", End: "14:00"},
				{ID: "evening", Name: "晚班", Start: "18:00", End: "22:00"},
			},
			wantErr: false,
		},
		{
			name: "跨午夜班次",
			shifts: []domain.Shift{
				{ID: "night", Name: "夜班", Start: "22:00", End: "02:00"},
			},
			wantErr: false,
		},
		{
			name: "缺少ID",
			shifts: []domain.Shift{
				{Name: "早班", Start: "10:00", End: "14:00"},
			},
			wantErr: true,
		},
		{
			name: "ID重复",
			shifts: []domain.Shift{
				{ID: "morning", Name: "早班", Start: "10:00", End: "14:00"},
				{ID: "morning", Name: "早班二", Start: "14:00", End: "18:00"},
			},
			wantErr: true,
		},
		{
			name: "缺少名称",
			shifts: []domain.Shift{
				{ID: "morning", Start: "10:00", End: "14:00"},
			},
			wantErr: true,
		},
		{
			name: "时间格式错误",
			shifts: []domain.Shift{
				{ID: "morning", Name: "早班", Start: "10:00:00", End: "14:00"},
			},
			wantErr: true,
		},
		{
			name: "人数需求为负",
			shifts: []domain.Shift{
				{ID: "morning", Name: "早班", Start: "10:00", End: "14:00", MinCoaches: -1},
			},
			wantErr: true,
		},
		{
			name: "适用星期超出范围",
			shifts: []domain.Shift{
				{ID: "morning", Name: "早班", Start: "10:00", End: "14:00", DaysOfWeek: []int{7}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShifts(tt.shifts)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShifts() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
		wantDays  int
		wantErr   bool
	}{
		{name: "单日", startDate: "2025-01-06", endDate: "2025-01-06", wantDays: 1},
		{name: "一周", startDate: "2025-01-06", endDate: "2025-01-12", wantDays: 7},
		{name: "跨月", startDate: "2025-01-30", endDate: "2025-02-02", wantDays: 4},
		{name: "结束早于开始", startDate: "2025-01-12", endDate: "2025-01-06", wantErr: true},
		{name: "格式错误", startDate: "2025/01/06", endDate: "2025-01-12", wantErr: true},
		{name: "空字符串", startDate: "", endDate: "2025-01-12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := ValidateDateRange(tt.startDate, tt.endDate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDateRange() error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(dates) != tt.wantDays {
				t.Errorf("期望 %d 个日期，实际 %d 个", tt.wantDays, len(dates))
			}
			if dates[0] != tt.startDate || dates[len(dates)-1] != tt.endDate {
				t.Errorf("日期范围首尾不正确: %v", dates)
			}
		})
	}
}

func TestGenerateEmailFromChineseName(t *testing.T) {
	email := GenerateEmailFromChineseName("张伟", "example.com")
	if len(email) == 0 {
		t.Fatal("生成的邮箱为空")
	}
	if got, want := email[len(email)-len("@example.com"):], "@example.com"; got != want {
		t.Errorf("邮箱域名不正确: %s", email)
	}
	// 拼音部分必须以 zhangwei 开头
	if email[:8] != "zhangwei" {
		t.Errorf("邮箱本地部分不是姓名拼音: %s", email)
	}
}
