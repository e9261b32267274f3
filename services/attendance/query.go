package attendance

import (
	"context"
	"sort"

	"attendify/models"
	"attendify/utils"
)

// Query returns the records matching filter, ordered by date, group and membership number.
func (l *Ledger) Query(ctx context.Context, filter models.RecordFilter) ([]models.AttendanceRecord, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	all, err := l.records.LoadAll(ctx)
	if err != nil {
		return nil, storeError("load records", err)
	}

	out := make([]models.AttendanceRecord, 0, len(all))
	for _, r := range all {
		if filter.Match(r) {
			out = append(out, r)
		}
	}
	SortRecords(out)
	return out, nil
}

// SortRecords orders records by date, group and membership number.
func SortRecords(records []models.AttendanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.MembershipNumber < b.MembershipNumber
	})
}

func validateFilter(f models.RecordFilter) error {
	var fields []utils.FieldError
	if f.From != "" && !f.From.Valid() {
		fields = append(fields, utils.FieldError{Field: "from", Error: "not a YYYY-MM-DD date"})
	}
	if f.To != "" && !f.To.Valid() {
		fields = append(fields, utils.FieldError{Field: "to", Error: "not a YYYY-MM-DD date"})
	}
	if len(fields) == 0 && f.From != "" && f.To != "" && f.To.Before(f.From) {
		fields = append(fields, utils.FieldError{Field: "to", Error: "must not be before from"})
	}
	if f.Status != "" && f.Status != models.StatusPresent && f.Status != models.StatusAbsent {
		fields = append(fields, utils.FieldError{Field: "status", Error: "must be Present or Absent"})
	}
	if len(fields) > 0 {
		return utils.NewValidationError("invalid filter", fields...)
	}
	return nil
}
