package domain

import "time"

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
)

// CoachStore: 教练和门店的关联关系，每个教练最多只能有一个主门店
type CoachStore struct {
	StoreID   string `json:"storeID"`
	IsPrimary bool   `json:"isPrimary"`
}

type Coach struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Color          string         `json:"color"`
	Avatar         string         `json:"avatar"`
	Email          string         `json:"email"`
	EmploymentType EmploymentType `json:"employmentType"`
	Stores         []CoachStore   `json:"stores"`
	Availability   *Availability  `json:"availability"`
	Archived       bool           `json:"archived"`
	CreatedAt      time.Time      `json:"createdAt"`
	Version        int32          `json:"-"`
}

func (c *Coach) IsFullTime() bool {
	return c.EmploymentType == EmploymentFullTime
}

// PrimaryStoreID 返回教练的主门店 ID，如果没有主门店则返回空字符串
func (c *Coach) PrimaryStoreID() string {
	for _, cs := range c.Stores {
		if cs.IsPrimary {
			return cs.StoreID
		}
	}
	return ""
}

func (c *Coach) AffiliatedWith(storeID string) bool {
	for _, cs := range c.Stores {
		if cs.StoreID == storeID {
			return true
		}
	}
	return false
}
