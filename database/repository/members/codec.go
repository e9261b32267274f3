package membersRepo

import (
	"errors"
	"strings"

	"attendify/database/tabular"
	"attendify/models"
)

// Roster column names.
const (
	ColMembershipNumber = "Membership Number"
	ColFullName         = "Full Name"
	ColGroup            = "Group"
	ColEmail            = "Email"
	ColPhone            = "Phone"
)

// Codec is the fixed schema of a roster row.
var Codec tabular.Codec[models.Member] = memberCodec{}

type memberCodec struct{}

func (memberCodec) Header() []string {
	return []string{ColMembershipNumber, ColFullName, ColGroup, ColEmail, ColPhone}
}

func (memberCodec) Required() []string {
	return []string{ColMembershipNumber, ColFullName, ColGroup}
}

func (memberCodec) Encode(m models.Member) []string {
	return []string{m.MembershipNumber, m.FullName, m.Group, m.Email, m.Phone}
}

func (memberCodec) Decode(row []string) (models.Member, error) {
	var m models.Member
	if len(row) < 3 {
		return m, errors.New("too few columns")
	}
	m = models.Member{
		MembershipNumber: strings.TrimSpace(row[0]),
		FullName:         strings.TrimSpace(row[1]),
		Group:            strings.TrimSpace(row[2]),
	}
	if len(row) > 3 {
		m.Email = strings.TrimSpace(row[3])
	}
	if len(row) > 4 {
		m.Phone = strings.TrimSpace(row[4])
	}
	switch {
	case m.MembershipNumber == "":
		return m, errors.New("membership number is required")
	case m.FullName == "":
		return m, errors.New("full name is required")
	case m.Group == "":
		return m, errors.New("group is required")
	}
	return m, nil
}

func (memberCodec) Key(m models.Member) string { return m.MembershipNumber }
