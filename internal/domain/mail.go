package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleMailItem struct {
	DateStr   string `json:"dateStr"`
	StoreName string `json:"storeName"`
	ShiftName string `json:"shiftName"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type SchedulePublishedMailData struct {
	CoachName string             `json:"coachName"`
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
	Items     []ScheduleMailItem `json:"items"`
}
