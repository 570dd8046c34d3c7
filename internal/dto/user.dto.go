package dto

import (
	"github.com/medplus/clinic-scheduler/internal/models"
	"github.com/medplus/clinic-scheduler/internal/timezone"
)

type UserDTO struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	CPF       string         `json:"cpf,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	BirthDate string         `json:"birth_date,omitempty"`
	Address   models.Address `json:"address"`
	Active    bool           `json:"active"`
	Roles     []string       `json:"roles"`
	Kind      string         `json:"kind"`

	CRM            string `json:"crm,omitempty"`
	Specialty      string `json:"specialty,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
	AccessLevel    string `json:"access_level,omitempty"`
}

func User(u models.User) UserDTO {
	out := UserDTO{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
		Active:  u.Active,
		Roles:   u.RoleNames(),
		Kind:    string(u.Kind()),
	}
	if u.CPF != nil {
		out.CPF = *u.CPF
	}
	if u.BirthDate != nil {
		out.BirthDate = u.BirthDate.Format(timezone.DateLayout)
	}
	if u.Doctor != nil {
		out.CRM = u.Doctor.CRM
		out.Specialty = u.Doctor.Specialty
	}
	if u.Patient != nil {
		out.MedicalHistory = u.Patient.MedicalHistory
	}
	if u.Admin != nil {
		out.AccessLevel = u.Admin.AccessLevel
	}
	return out
}

func Users(in []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(in))
	for _, u := range in {
		out = append(out, User(u))
	}
	return out
}

// DoctorCardDTO is the public directory entry.
type DoctorCardDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	CRM       string `json:"crm"`
}

func DoctorCards(in []models.User) []DoctorCardDTO {
	out := make([]DoctorCardDTO, 0, len(in))
	for _, u := range in {
		card := DoctorCardDTO{ID: u.ID, Name: u.Name}
		if u.Doctor != nil {
			card.Specialty = u.Doctor.Specialty
			card.CRM = u.Doctor.CRM
		}
		out = append(out, card)
	}
	return out
}
