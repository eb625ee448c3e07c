package keycombo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	assert.Equal(t, Combo("U"), New("u", false, false, false))
	assert.Equal(t, Combo("Ctrl+Shift+Alt+1"), New("1", true, true, true))
	assert.Equal(t, Combo("Shift+Delete"), New("delete", false, true, false))
	assert.Equal(t, Combo("Alt+Ź"), New("ź", false, false, true))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Combo
	}{
		{"u", "U"},
		{"ctrl+u", "Ctrl+U"},
		{"Shift+Ctrl+u", "Ctrl+Shift+U"},
		{"cmd+1", "Ctrl+1"},
		{"META+shift+z", "Ctrl+Shift+Z"},
		{"alt+option+w", "Alt+W"},
		{"ctrl++", "Ctrl++"},
		{"+", "+"},
		{" esc ", "Escape"},
		{"f2", "F2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmptyCombo)

	_, err = Parse("ctrl+")
	assert.ErrorIs(t, err, ErrEmptyCombo)

	_, err = Parse("hyper+u")
	assert.Error(t, err)
}

func TestParse_EquivalentSpellingsCollide(t *testing.T) {
	a := MustParse("Ctrl+Shift+U")
	b := MustParse("shift+cmd+u")
	assert.Equal(t, a, b)
}
