package models

import "time"

// AvailabilitySlot is a weekly recurring window. StartTime and EndTime are
// zero-padded "15:04" strings, so lexical order matches time order.
type AvailabilitySlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint `gorm:"not null;uniqueIndex:ux_slot_exact,priority:1" json:"doctor_id"`
	Doctor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Weekday   int    `gorm:"not null;uniqueIndex:ux_slot_exact,priority:2" json:"weekday"`
	StartTime string `gorm:"size:5;not null;uniqueIndex:ux_slot_exact,priority:3" json:"start_time"`
	EndTime   string `gorm:"size:5;not null;uniqueIndex:ux_slot_exact,priority:4" json:"end_time"`
	Active    bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
