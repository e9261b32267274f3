package attendance

import (
	"bytes"
	"testing"
	"time"

	"attendify/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	ts := time.Date(2024, 6, 2, 9, 30, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{Date: "2024-06-02", MembershipNumber: "M1", FullName: "Ann Lee", Group: "Youth", Status: models.StatusPresent, Timestamp: &ts},
		{Date: "2024-06-02", MembershipNumber: "M2", FullName: "Ben, Jr.", Group: "Youth", Status: models.StatusAbsent},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, false))
	assert.Equal(t,
		"Date,Membership Number,Full Name,Group,Status\n"+
			"2024-06-02,M1,Ann Lee,Youth,Present\n"+
			"2024-06-02,M2,\"Ben, Jr.\",Youth,Absent\n",
		buf.String())

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, records, true))
	assert.Equal(t,
		"Date,Membership Number,Full Name,Group,Status,Timestamp\n"+
			"2024-06-02,M1,Ann Lee,Youth,Present,2024-06-02T09:30:00Z\n"+
			"2024-06-02,M2,\"Ben, Jr.\",Youth,Absent,\n",
		buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, false))
	assert.Equal(t, "Date,Membership Number,Full Name,Group,Status\n", buf.String())
}
