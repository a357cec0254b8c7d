package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStatusSameDay(t *testing.T) {
	marked := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	selected := time.Date(2026, 3, 2, 17, 45, 0, 0, time.Local)

	assert.Equal(t, PresenceCheckedIn, ResolveStatus(&marked, selected))
}

func TestResolveStatusOtherDays(t *testing.T) {
	marked := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	for _, selected := range []time.Time{
		time.Date(2026, 3, 1, 23, 59, 0, 0, time.Local),
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.Local),
		time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local),
		time.Date(2026, 4, 2, 0, 0, 0, 0, time.Local),
	} {
		assert.Equal(t, PresenceNotCheckedIn, ResolveStatus(&marked, selected), selected.String())
	}
	assert.Equal(t, PresenceNotCheckedIn, ResolveStatus(nil, marked))
}

func TestResolveLayersException(t *testing.T) {
	selected := time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)
	mark := &Mark{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local), ExceptionOpen: true}

	assert.Equal(t, PresenceException, Resolve(mark, selected))
	assert.Equal(t, PresenceNotCheckedIn, Resolve(mark, selected.AddDate(0, 0, 1)))
	assert.Equal(t, PresenceNotCheckedIn, Resolve(nil, selected))

	mark.ExceptionOpen = false
	assert.Equal(t, PresenceCheckedIn, Resolve(mark, selected))
}

func TestPresenceValid(t *testing.T) {
	assert.True(t, PresenceException.Valid())
	assert.False(t, Presence("Active").Valid())
}

func TestRecordJSONCarriesDateKey(t *testing.T) {
	record := Record{EmployeeID: "EMP001", Status: PresenceCheckedIn, AttendanceDate: day("2026-03-02")}

	raw, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "2026-03-02", decoded["attendanceDate"])
	assert.Equal(t, "checkedin", decoded["status"])
	assert.Equal(t, "EMP001", decoded["employeeId"])
}
