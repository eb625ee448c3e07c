package podanie

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLegacyTemplates(t *testing.T) {
	assert.Equal(t, LegacyLeave, NormalizeLegacy("nieznany"))
	assert.Equal(t, LegacyLeave, NormalizeLegacy(""))
	assert.Equal(t, LegacyOvertime, NormalizeLegacy(LegacyOvertime))
	assert.Equal(t, "Wniosek o pracę zdalną", LegacyLabel(LegacyRemoteWork))

	leave := LegacyTemplate(LegacyLeave)
	assert.True(t, leave.Enables(FieldSubstitute))
	assert.True(t, leave.Enables(FieldLeaveKind))
	assert.Contains(t, leave.BodyHTML, "[[TYP_PODANIA_SKRESLENIE]]")

	remote := LegacyTemplate(LegacyRemoteWork)
	assert.False(t, remote.Enables(FieldSubstitute))
	assert.Equal(t, "Wniosek o pracę zdalną", remote.Name)
}

func TestRequestCovers(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC) }
	r := Request{DateFrom: d(9), DateTo: d(13)}
	assert.True(t, r.Covers(d(9)))
	assert.True(t, r.Covers(d(13)))
	assert.False(t, r.Covers(d(8)))
	assert.False(t, r.Covers(d(14)))
}

func TestCreateRequestValidate(t *testing.T) {
	req := CreateRequest{DateFrom: "2025-10-13", DateTo: "2025-10-09"}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date_to")

	ok := CreateRequest{DateFrom: "2025-10-09", DateTo: "2025-10-13"}
	assert.NoError(t, ok.Validate())
}
