package models

import (
	"time"
)

// DayStatus is the stored booking state of one farmhouse on one calendar day.
// A row exists only for days that were explicitly set at least once; absent
// rows mean "available, unlocked". Rows are overwritten, never deleted.
type DayStatus struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FarmhouseID uint      `gorm:"uniqueIndex:idx_day_status_fh_day;not null" json:"farmhouse_id"`
	Day         time.Time `gorm:"uniqueIndex:idx_day_status_fh_day;type:date;not null" json:"day"`
	IsBooked    bool      `gorm:"not null;default:false" json:"is_booked"`
	// AdminBooked marks the current state as set by an administrator; owners
	// cannot override such a day until an admin releases it.
	AdminBooked bool   `gorm:"not null;default:false" json:"admin_booked"`
	Note        string `json:"note"`
}
