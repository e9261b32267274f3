package members

import (
	"fmt"
	"reflect"
	"strings"

	"attendify/models"
	"attendify/utils"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	validate := validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// cleanMember trims every field.
func cleanMember(m models.Member) models.Member {
	return models.Member{
		MembershipNumber: strings.TrimSpace(m.MembershipNumber),
		FullName:         strings.TrimSpace(m.FullName),
		Group:            strings.TrimSpace(m.Group),
		Email:            strings.TrimSpace(m.Email),
		Phone:            strings.TrimSpace(m.Phone),
	}
}

// validateRoster checks every member and rejects repeated membership numbers.
func (s *DefaultMemberService) validateRoster(members []models.Member) error {
	var fields []utils.FieldError
	seen := make(map[string]int, len(members))

	for i, m := range members {
		prefix := fmt.Sprintf("members[%d].", i)
		if err := s.validate.Struct(m); err != nil {
			verrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return err
			}
			for _, fe := range verrs {
				fields = append(fields, utils.FieldError{Field: prefix + fe.Field(), Error: fieldMessage(fe)})
			}
		}
		if m.MembershipNumber == "" {
			continue
		}
		if first, dup := seen[m.MembershipNumber]; dup {
			fields = append(fields, utils.FieldError{
				Field: prefix + "membershipNumber",
				Error: fmt.Sprintf("duplicate of members[%d]", first),
			})
			continue
		}
		seen[m.MembershipNumber] = i
	}

	if len(fields) > 0 {
		return utils.NewValidationError("invalid roster", fields...)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	}
	return "failed on the '" + fe.Tag() + "' rule"
}
