package recordsRepo

import (
	"errors"
	"strings"
	"time"

	"attendify/database/tabular"
	"attendify/models"
)

// Column names, in export order.
const (
	ColDate             = "Date"
	ColMembershipNumber = "Membership Number"
	ColFullName         = "Full Name"
	ColGroup            = "Group"
	ColStatus           = "Status"
	ColTimestamp        = "Timestamp"
)

// Codec is the fixed schema of a stored attendance row.
var Codec tabular.Codec[models.AttendanceRecord] = recordCodec{}

type recordCodec struct{}

func (recordCodec) Header() []string {
	return []string{ColDate, ColMembershipNumber, ColFullName, ColGroup, ColStatus, ColTimestamp}
}

func (recordCodec) Required() []string {
	return []string{ColDate, ColMembershipNumber, ColGroup, ColStatus}
}

func (recordCodec) Encode(r models.AttendanceRecord) []string {
	ts := ""
	if r.Timestamp != nil {
		ts = r.Timestamp.Format(time.RFC3339)
	}
	return []string{string(r.Date), r.MembershipNumber, r.FullName, r.Group, string(r.Status), ts}
}

func (recordCodec) Decode(row []string) (models.AttendanceRecord, error) {
	var r models.AttendanceRecord
	if len(row) < 5 {
		return r, errors.New("too few columns")
	}
	date, err := models.ParseDate(row[0])
	if err != nil {
		return r, err
	}
	status, err := models.ParseStatus(row[4])
	if err != nil {
		return r, err
	}
	r = models.AttendanceRecord{
		Date:             date,
		MembershipNumber: strings.TrimSpace(row[1]),
		FullName:         strings.TrimSpace(row[2]),
		Group:            strings.TrimSpace(row[3]),
		Status:           status,
	}
	if r.MembershipNumber == "" {
		return r, errors.New("membership number is required")
	}
	if r.Group == "" {
		return r, errors.New("group is required")
	}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[5]))
		if err != nil {
			return r, errors.New("invalid timestamp " + row[5])
		}
		r.Timestamp = &ts
	}
	return r, nil
}

func (recordCodec) Key(r models.AttendanceRecord) string {
	return string(r.Date) + "|" + r.Group + "|" + r.MembershipNumber
}
