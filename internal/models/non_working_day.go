package models

import (
	"time"
)

// NonWorkingDay - день производственного календаря, который не является рабочим.
type NonWorkingDay struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;uniqueIndex" json:"date"`
	Year      int       `gorm:"index:idx_non_working_year_month" json:"year"`
	Month     int       `gorm:"index:idx_non_working_year_month" json:"month"`
	Day       int       `json:"day"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NonWorkingDay) TableName() string {
	return "non_working_days"
}
