package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint `gorm:"not null;index" json:"patient_id"`
	Patient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patient"`

	DoctorID uint `gorm:"not null;index" json:"doctor_id"`
	Doctor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"doctor"`

	DateTime time.Time `gorm:"not null;index" json:"date_time"`

	Status string `gorm:"size:30;not null;default:'AGENDADA'" json:"status"`

	Notes        string `gorm:"size:500" json:"notes"`
	CancelReason string `gorm:"size:500" json:"cancel_reason"`
	OnlineLink   string `gorm:"size:255" json:"online_link"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
