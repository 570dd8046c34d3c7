package models

import "time"

type Role string

const (
	RolePatient Role = "PACIENTE"
	RoleDoctor  Role = "MEDICO"
	RoleAdmin   Role = "ADMIN"
)

// Address is embedded into users with an addr_ column prefix.
type Address struct {
	Street     string `gorm:"size:255" json:"street"`
	Number     string `gorm:"size:20" json:"number"`
	Complement string `gorm:"size:100" json:"complement"`
	District   string `gorm:"size:100" json:"district"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:2" json:"state"`
	ZipCode    string `gorm:"size:9" json:"zip_code"`
}

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	CPF          *string    `gorm:"size:14;uniqueIndex" json:"cpf,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Phone        string     `gorm:"size:20" json:"phone"`
	Address      Address    `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	Active       bool       `gorm:"not null;default:true" json:"active"`

	Roles []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"roles"`

	// Exactly one of these is set, matching the user's primary role.
	Doctor  *DoctorProfile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"doctor,omitempty"`
	Patient *PatientProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"patient,omitempty"`
	Admin   *AdminProfile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"admin,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserRole struct {
	UserID uint `gorm:"primaryKey" json:"-"`
	Role   Role `gorm:"primaryKey;size:20" json:"role"`
}

type DoctorProfile struct {
	UserID    uint   `gorm:"primaryKey" json:"-"`
	CRM       string `gorm:"size:20;uniqueIndex;not null" json:"crm"`
	Specialty string `gorm:"size:100;index;not null" json:"specialty"`
}

type PatientProfile struct {
	UserID         uint   `gorm:"primaryKey" json:"-"`
	MedicalHistory string `gorm:"type:text" json:"medical_history"`
}

type AdminProfile struct {
	UserID      uint   `gorm:"primaryKey" json:"-"`
	AccessLevel string `gorm:"size:50" json:"access_level"`
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

func (u *User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, string(r.Role))
	}
	return out
}

// Kind reports which role-specific payload the user carries.
func (u *User) Kind() Role {
	switch {
	case u.Doctor != nil:
		return RoleDoctor
	case u.Admin != nil:
		return RoleAdmin
	case u.Patient != nil:
		return RolePatient
	default:
		return ""
	}
}
