package dto

import (
	"time"

	"github.com/medplus/clinic-scheduler/internal/domain/availability"
	"github.com/medplus/clinic-scheduler/internal/models"
)

type SlotDTO struct {
	ID        uint   `json:"id"`
	DoctorID  uint   `json:"doctor_id"`
	Weekday   string `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Active    bool   `json:"active"`
}

func Slot(s models.AvailabilitySlot) SlotDTO {
	return SlotDTO{
		ID:        s.ID,
		DoctorID:  s.DoctorID,
		Weekday:   availability.WeekdayName(time.Weekday(s.Weekday)),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Active:    s.Active,
	}
}

func Slots(in []models.AvailabilitySlot) []SlotDTO {
	out := make([]SlotDTO, 0, len(in))
	for _, s := range in {
		out = append(out, Slot(s))
	}
	return out
}
