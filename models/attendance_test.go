package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" present ")
	require.NoError(t, err)
	assert.Equal(t, StatusPresent, s)

	s, err = ParseStatus("ABSENT")
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, s)

	_, err = ParseStatus("late")
	assert.Error(t, err)
}

func TestRecordFilter_Match(t *testing.T) {
	r := AttendanceRecord{Date: "2024-06-02", MembershipNumber: "M1", Group: "Youth", Status: StatusPresent}

	assert.True(t, RecordFilter{}.Match(r))
	assert.True(t, RecordFilter{From: "2024-06-02", To: "2024-06-02"}.Match(r))
	assert.True(t, RecordFilter{From: "2024-06-01", To: "2024-06-30", Group: "Youth", MemberID: "M1", Status: StatusPresent}.Match(r))

	assert.False(t, RecordFilter{From: "2024-06-03"}.Match(r))
	assert.False(t, RecordFilter{To: "2024-06-01"}.Match(r))
	assert.False(t, RecordFilter{Group: "Adults"}.Match(r))
	assert.False(t, RecordFilter{MemberID: "M2"}.Match(r))
	assert.False(t, RecordFilter{Status: StatusAbsent}.Match(r))
}

func TestAttendanceRecord_Key(t *testing.T) {
	r := AttendanceRecord{Date: "2024-06-02", MembershipNumber: "M1", Group: "Youth"}
	assert.Equal(t, SessionKey{Date: "2024-06-02", Group: "Youth"}, r.Key())
	assert.Equal(t, "2024-06-02/Youth", r.Key().String())
}
