package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/medplus/clinic-scheduler/internal/db"
	domainAppointment "github.com/medplus/clinic-scheduler/internal/domain/appointment"
	domainAvailability "github.com/medplus/clinic-scheduler/internal/domain/availability"
	domainUser "github.com/medplus/clinic-scheduler/internal/domain/user"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraint}
}

func TestMapSlotViolation(t *testing.T) {
	plain := errors.New("connection reset")
	other := &pgconn.PgError{Code: "23503", ConstraintName: db.DoctorSlotIndex}
	unknown := uniqueViolation("appointments_pkey")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"doctor index", uniqueViolation(db.DoctorSlotIndex), domainAppointment.ErrDoctorDoubleBooked},
		{"patient index", uniqueViolation(db.PatientSlotIndex), domainAppointment.ErrPatientDoubleBooked},
		{"wrapped doctor index", fmt.Errorf("insert: %w", uniqueViolation(db.DoctorSlotIndex)), domainAppointment.ErrDoctorDoubleBooked},
		{"unknown constraint", unknown, unknown},
		{"other pg code", other, other},
		{"non pg error", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapSlotViolation(tt.in))
		})
	}
}

func TestMapDuplicateSlot(t *testing.T) {
	plain := errors.New("timeout")

	assert.Equal(t, domainAvailability.ErrDuplicateSlot, mapDuplicateSlot(uniqueViolation("ux_slot_exact")))
	assert.Equal(t, plain, mapDuplicateSlot(plain))
	assert.NoError(t, mapDuplicateSlot(nil))
}

func TestMapUserViolation(t *testing.T) {
	plain := errors.New("boom")

	assert.Equal(t, domainUser.ErrEmailInUse, mapUserViolation(uniqueViolation("idx_users_email")))
	assert.Equal(t, domainUser.ErrCPFInUse, mapUserViolation(uniqueViolation("idx_users_cpf")))
	assert.Equal(t, domainUser.ErrCRMInUse, mapUserViolation(uniqueViolation("idx_doctor_profiles_crm")))
	assert.Equal(t, plain, mapUserViolation(plain))
}
