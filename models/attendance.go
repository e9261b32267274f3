// File: models/attendance.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the attendance outcome of one member in one session.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// ParseStatus accepts any casing of "present" or "absent".
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return StatusPresent, nil
	case "absent":
		return StatusAbsent, nil
	}
	return "", fmt.Errorf("invalid status %q: expected Present or Absent", s)
}

// AttendanceRecord is a single ledger row. At most one exists per (Date, Group, MembershipNumber).
type AttendanceRecord struct {
	Date             Date       `bson:"date" json:"date" firestore:"date"`
	MembershipNumber string     `bson:"membershipNumber" json:"membershipNumber" firestore:"membershipNumber"`
	FullName         string     `bson:"fullName" json:"fullName" firestore:"fullName"`
	Group            string     `bson:"group" json:"group" firestore:"group"`
	Status           Status     `bson:"status" json:"status" firestore:"status"`
	Timestamp        *time.Time `bson:"timestamp,omitempty" json:"timestamp,omitempty" firestore:"timestamp,omitempty"` // When the session was submitted
}

// Key returns the session the record belongs to.
func (r AttendanceRecord) Key() SessionKey {
	return SessionKey{Date: r.Date, Group: r.Group}
}

// SessionKey identifies one (date, group) submission; it is the unit of replacement.
type SessionKey struct {
	Date  Date   `json:"date"`
	Group string `json:"group"`
}

func (k SessionKey) String() string {
	return string(k.Date) + "/" + k.Group
}

// SessionResult summarizes a reconciled session submission.
type SessionResult struct {
	Date          Date   `json:"date"`
	Group         string `json:"group"`
	PresentCount  int    `json:"presentCount"`
	AbsentCount   int    `json:"absentCount"`
	ReplacedCount int    `json:"replacedCount"` // Rows of an earlier submission for the same key
}

// RecordFilter narrows a ledger query. Zero fields match everything; From and To are inclusive.
type RecordFilter struct {
	From     Date   `json:"from,omitempty" form:"from"`
	To       Date   `json:"to,omitempty" form:"to"`
	Group    string `json:"group,omitempty" form:"group"`
	MemberID string `json:"member,omitempty" form:"member"`
	Status   Status `json:"status,omitempty" form:"status"`
}

// Match reports whether r passes every set criterion of f.
func (f RecordFilter) Match(r AttendanceRecord) bool {
	if f.From != "" && r.Date.Before(f.From) {
		return false
	}
	if f.To != "" && r.Date.After(f.To) {
		return false
	}
	if f.Group != "" && r.Group != f.Group {
		return false
	}
	if f.MemberID != "" && r.MembershipNumber != f.MemberID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}
