package members

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	membersRepo "attendify/database/repository/members"
	"attendify/database/tabular"
	"attendify/models"
	"attendify/utils"

	"go.uber.org/zap"
)

// ReplaceAll overwrites the whole directory with members. Nothing is written if any member
// is invalid.
func (s *DefaultMemberService) ReplaceAll(ctx context.Context, members []models.Member) error {
	cleaned := make([]models.Member, len(members))
	for i, m := range members {
		cleaned[i] = cleanMember(m)
	}
	if len(cleaned) == 0 {
		return utils.NewValidationError("roster is empty")
	}
	if err := s.validateRoster(cleaned); err != nil {
		return err
	}

	if err := s.Repo.SaveAll(ctx, cleaned); err != nil {
		return storeError("save members", err)
	}
	s.Logger.Info("Member directory replaced", zap.Int("members", len(cleaned)))
	return nil
}

// ImportCSV replaces the directory with the roster in r. The header must carry Membership
// Number, Full Name and Group; Email and Phone are optional. Any bad row rejects the upload.
func (s *DefaultMemberService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := tabular.ReadCSV(r)
	if err != nil {
		return 0, &utils.ValidationError{Err: fmt.Errorf("unreadable roster file: %w", err)}
	}
	if len(rows) == 0 {
		return 0, utils.NewValidationError("roster file is empty")
	}

	members, err := tabular.DecodeRows(membersRepo.Codec, rows[0], rows[1:])
	if err != nil {
		if errors.Is(err, tabular.ErrSchema) || errors.Is(err, tabular.ErrInvalidRow) {
			return 0, &utils.ValidationError{Err: err}
		}
		return 0, err
	}
	if err := s.ReplaceAll(ctx, members); err != nil {
		return 0, err
	}
	return len(members), nil
}

func (s *DefaultMemberService) ListAll(ctx context.Context) ([]models.Member, error) {
	members, err := s.Repo.LoadAll(ctx)
	if err != nil {
		return nil, storeError("load members", err)
	}
	return members, nil
}

// ListByGroup returns the roster of group in directory order.
func (s *DefaultMemberService) ListByGroup(ctx context.Context, group string) ([]models.Member, error) {
	group = strings.TrimSpace(group)
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Member
	for _, m := range all {
		if m.Group == group {
			out = append(out, m)
		}
	}
	return out, nil
}

// Groups returns the sorted distinct group names.
func (s *DefaultMemberService) Groups(ctx context.Context) ([]string, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	groups := []string{}
	for _, m := range all {
		if _, ok := seen[m.Group]; ok {
			continue
		}
		seen[m.Group] = struct{}{}
		groups = append(groups, m.Group)
	}
	sort.Strings(groups)
	return groups, nil
}

// storeError separates a directory that loaded but holds bad rows from a store that could
// not be reached. Only the latter is reported as unavailable.
func storeError(op string, err error) error {
	if utils.IsValidation(err) || utils.IsStoreUnavailable(err) {
		return err
	}
	if errors.Is(err, tabular.ErrInvalidRow) || errors.Is(err, tabular.ErrSchema) {
		return fmt.Errorf("members: stored data is invalid during %s: %w", op, err)
	}
	return &utils.StoreUnavailableError{Op: op, Err: err}
}
