package attendance

import (
	"io"

	recordsRepo "attendify/database/repository/records"
	"attendify/database/tabular"
	"attendify/models"
)

// WriteCSV exports records as Date, Membership Number, Full Name, Group, Status and, when
// withTimestamp is set, Timestamp.
func WriteCSV(w io.Writer, records []models.AttendanceRecord, withTimestamp bool) error {
	header := recordsRepo.Codec.Header()
	rows := tabular.EncodeRows(recordsRepo.Codec, records)
	if !withTimestamp {
		header = header[:len(header)-1]
		for i, r := range rows {
			rows[i] = r[:len(r)-1]
		}
	}
	return tabular.WriteCSV(w, header, rows)
}
