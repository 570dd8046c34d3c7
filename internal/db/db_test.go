package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotIndexes(t *testing.T) {
	stmts := slotIndexes()
	require.Len(t, stmts, 2)

	assert.Contains(t, stmts[0], DoctorSlotIndex)
	assert.Contains(t, stmts[0], "(doctor_id, date_time)")
	assert.Contains(t, stmts[1], PatientSlotIndex)
	assert.Contains(t, stmts[1], "(patient_id, date_time)")

	for _, s := range stmts {
		assert.True(t, strings.HasPrefix(s, "CREATE UNIQUE INDEX IF NOT EXISTS"))
		assert.Contains(t, s, "'CANCELADA_PACIENTE'")
		assert.Contains(t, s, "'REAGENDADA'")
		assert.Contains(t, s, "'NAO_COMPARECEU'")
		assert.NotContains(t, s, "'AGENDADA'")
	}
}
