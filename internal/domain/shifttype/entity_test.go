package shifttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }

func TestShiftType_Hours(t *testing.T) {
	tests := []struct {
		name     string
		from, to *string
		want     string
	}{
		{"day shift", strPtr("06:00"), strPtr("14:00"), "8"},
		{"half hour", strPtr("07:30"), strPtr("15:00"), "7.5"},
		{"night shift over midnight", strPtr("22:00"), strPtr("06:00"), "8"},
		{"postgres time format", strPtr("06:00:00"), strPtr("14:20:00"), "8.33"},
		{"no hours", nil, nil, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ShiftType{HoursFrom: tt.from, HoursTo: tt.to}
			assert.Equal(t, tt.want, st.Hours().String())
		})
	}
}

func TestShiftType_AvailableIn(t *testing.T) {
	everywhere := ShiftType{}
	assert.True(t, everywhere.AvailableIn(7))

	limited := ShiftType{DepartmentIDs: []int64{1, 3}}
	assert.True(t, limited.AvailableIn(3))
	assert.False(t, limited.AvailableIn(2))
}

func TestShiftType_TemplateKey(t *testing.T) {
	assert.Equal(t, "id_4", ShiftType{TemplateID: int64Ptr(4), LegacyTemplate: strPtr("urlop")}.TemplateKey())
	assert.Equal(t, "urlop", ShiftType{LegacyTemplate: strPtr("urlop")}.TemplateKey())
	assert.Equal(t, "", ShiftType{}.TemplateKey())
	assert.False(t, ShiftType{LegacyTemplate: strPtr("")}.HasTemplate())
	assert.True(t, ShiftType{TemplateID: int64Ptr(1)}.HasTemplate())
}

func TestCreateShiftTypeRequest_Validate(t *testing.T) {
	valid := CreateShiftTypeRequest{Name: "1 zmiana", Code: "1", Color: "#b6dafc", HoursFrom: strPtr("06:00"), HoursTo: strPtr("14:00"), Shortcut: strPtr("1")}
	assert.NoError(t, valid.Validate())

	bad := CreateShiftTypeRequest{Name: "", Code: "TOOLONG", Color: "blue", HoursFrom: strPtr("6:00"), Shortcut: strPtr("hyper+x"), LegacyTemplate: strPtr("unknown")}
	err := bad.Validate()
	assert.Error(t, err)
	fields := err.(interface{ ToMap() map[string]string }).ToMap()
	for _, f := range []string{"name", "code", "color", "hours_from", "hours_to", "shortcut", "legacy_template"} {
		assert.Contains(t, fields, f)
	}
}
