package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "庆",
	"建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣", "健",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateEmailFromChineseName 根据中文姓名的拼音生成一个邮箱地址
func GenerateEmailFromChineseName(chineseName string, emailDomainName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	local := strings.Join(pinyinArray, "")

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local + "@" + emailDomainName
}

var coachColors = []string{
	"#ef4444", "#f97316", "#f59e0b", "#84cc16", "#22c55e",
	"#14b8a6", "#06b6d4", "#3b82f6", "#8b5cf6", "#ec4899",
}

var employmentTypes = []domain.EmploymentType{
	domain.EmploymentFullTime,
	domain.EmploymentPartTime,
}

func GenerateRandomCoach(emailDomainName string) *domain.Coach {
	name := GenerateRandomChineseName()

	return &domain.Coach{
		Name:           name,
		Color:          coachColors[rand.Intn(len(coachColors))],
		Avatar:         fmt.Sprintf("https://api.dicebear.com/9.x/initials/svg?seed=%s", strings.Join(pinyin.LazyConvert(name, nil), "")),
		Email:          GenerateEmailFromChineseName(name, emailDomainName),
		EmploymentType: employmentTypes[rand.Intn(len(employmentTypes))],
	}
}

var storeNamePrefixes = []string{"旗舰", "中心", "滨江", "城北", "城南", "万达", "银泰", "奥体"}

var demoShifts = []domain.Shift{
	{ID: "morning", Name: "早班", Start: "10:00", End: "14:00", MinCoaches: 1, MaxCoaches: 2},
	{ID: "afternoon", Name: "午班", Start: "14:00", End: "18:00", MinCoaches: 1, MaxCoaches: 2},
	{ID: "evening", Name: "晚班", Start: "18:00", End: "22:00", MinCoaches: 1, MaxCoaches: 3},
}

func GenerateRandomStore() *domain.Store {
	shifts := make([]domain.Shift, len(demoShifts))
	copy(shifts, demoShifts)

	return &domain.Store{
		Name:   storeNamePrefixes[rand.Intn(len(storeNamePrefixes))] + "店",
		Shifts: shifts,
	}
}

// GenerateRandomWeekSchedule 随机生成一份可用性配置，
// 大约一半的教练不配置（默认全周可用）
func GenerateRandomWeekSchedule(store *domain.Store) *domain.Availability {
	if rand.Intn(2) == 0 {
		return nil
	}

	ws := make(domain.WeekAvailability)
	for day := 0; day < 7; day++ {
		// 没有配置的天视为休息日
		if rand.Intn(4) == 0 {
			continue
		}

		dayAvail := make(domain.DayAvailability)
		for _, shift := range store.Shifts {
			dayAvail[shift.ID] = rand.Intn(5) > 0
		}
		ws[day] = dayAvail
	}

	if len(ws) == 0 {
		return nil
	}
	return &domain.Availability{WeekSchedule: ws}
}
