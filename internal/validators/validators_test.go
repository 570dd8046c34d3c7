package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Weekday string `validate:"required,weekday"`
	Start   string `validate:"required,clock"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	tests := []struct {
		name string
		req  slotRequest
		ok   bool
	}{
		{"valid", slotRequest{"monday", "09:00"}, true},
		{"single digit hour", slotRequest{"MONDAY", "9:00"}, true},
		{"bad weekday", slotRequest{"FUNDAY", "09:00"}, false},
		{"bad clock", slotRequest{"MONDAY", "25:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestDetails(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	err := v.Struct(slotRequest{Weekday: "x"})
	details := Details(err)
	assert.Equal(t, "weekday", details["weekday"])
	assert.Equal(t, "required", details["start"])
}

func TestNewEmailCheck_FormatOnly(t *testing.T) {
	check := NewEmailCheck(false)
	assert.True(t, check("ana@example.com"))
	assert.False(t, check("ana@"))
	assert.False(t, check("@example.com"))
	assert.False(t, check("ana"))
}
