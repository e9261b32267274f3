package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"attendify/database/tabular"
	"attendify/models"
	"attendify/utils"

	"go.uber.org/zap"
)

// RecordSession stores the attendance of one (date, group) session. Rows of any earlier
// submission for the same key are replaced; every other session is left as it was.
//
// roster is the full member list of group at submission time and present must be a subset of
// it. With the PresentAndAbsent policy the session ends up with exactly one row per roster
// member.
func (l *Ledger) RecordSession(ctx context.Context, date models.Date, group string, present, roster []string) (*models.SessionResult, error) {
	group = strings.TrimSpace(group)
	rosterIDs, presentSet, err := validateSession(date, group, present, roster)
	if err != nil {
		return nil, err
	}

	members, err := l.groupMembers(ctx, group)
	if err != nil {
		return nil, err
	}
	var unknown []string
	for _, id := range rosterIDs {
		if _, ok := members[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return nil, utils.NewValidationError("roster does not match the directory",
			utils.FieldError{Field: "roster", Error: fmt.Sprintf("not members of %s: %s", group, strings.Join(unknown, ", "))})
	}

	return l.reconcile(ctx, models.SessionKey{Date: date, Group: group}, rosterIDs, presentSet, members)
}

// RecordGroupSession records a session against the group's current directory roster.
func (l *Ledger) RecordGroupSession(ctx context.Context, date models.Date, group string, present []string) (*models.SessionResult, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return nil, utils.NewValidationError("invalid session", utils.FieldError{Field: "group", Error: "this field is required"})
	}
	roster, err := l.directory.ListByGroup(ctx, group)
	if err != nil {
		return nil, storeError("load roster", err)
	}
	ids := make([]string, len(roster))
	for i, m := range roster {
		ids[i] = m.MembershipNumber
	}
	return l.RecordSession(ctx, date, group, present, ids)
}

// Clear removes every record and returns how many were removed.
func (l *Ledger) Clear(ctx context.Context) (int, error) {
	release, err := l.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	existing, err := l.records.LoadAll(ctx)
	if err != nil {
		return 0, storeError("load records", err)
	}
	if err := l.records.SaveAll(ctx, nil); err != nil {
		return 0, storeError("save records", err)
	}
	l.logger.Info("Attendance ledger cleared", zap.Int("removed", len(existing)))
	return len(existing), nil
}

func (l *Ledger) reconcile(ctx context.Context, key models.SessionKey, roster []string, present map[string]struct{}, members map[string]models.Member) (*models.SessionResult, error) {
	release, err := l.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := l.records.LoadAll(ctx)
	if err != nil {
		return nil, storeError("load records", err)
	}

	retained := make([]models.AttendanceRecord, 0, len(existing)+len(roster))
	replaced := 0
	for _, r := range existing {
		if r.Key() == key {
			replaced++
			continue
		}
		retained = append(retained, r)
	}

	ts := l.now().UTC().Truncate(time.Second)
	result := &models.SessionResult{Date: key.Date, Group: key.Group, ReplacedCount: replaced}
	for _, id := range roster {
		status := models.StatusAbsent
		if _, ok := present[id]; ok {
			status = models.StatusPresent
			result.PresentCount++
		} else {
			result.AbsentCount++
		}
		if status == models.StatusAbsent && l.policy == PresentOnly {
			continue
		}
		stamp := ts
		retained = append(retained, models.AttendanceRecord{
			Date:             key.Date,
			MembershipNumber: id,
			FullName:         members[id].FullName,
			Group:            key.Group,
			Status:           status,
			Timestamp:        &stamp,
		})
	}

	if err := l.records.SaveAll(ctx, retained); err != nil {
		return nil, storeError("save records", err)
	}

	l.logger.Info("Attendance session recorded",
		zap.String("date", string(key.Date)),
		zap.String("group", key.Group),
		zap.Int("present", result.PresentCount),
		zap.Int("absent", result.AbsentCount),
		zap.Int("replaced", result.ReplacedCount),
	)
	return result, nil
}

// lock takes the ledger write lock, waiting at most lockWait.
func (l *Ledger) lock(ctx context.Context) (func(), error) {
	lctx, cancel := context.WithTimeout(ctx, l.lockWait)
	defer cancel()

	release, err := l.locker.Acquire(lctx, utils.LedgerLockKey)
	if err == nil {
		return release, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, &utils.ConflictError{Key: utils.LedgerLockKey, Err: err}
	}
	return nil, storeError("lock ledger", err)
}

// groupMembers returns the directory members of group keyed by membership number.
func (l *Ledger) groupMembers(ctx context.Context, group string) (map[string]models.Member, error) {
	roster, err := l.directory.ListByGroup(ctx, group)
	if err != nil {
		return nil, storeError("load roster", err)
	}
	if len(roster) == 0 {
		return nil, utils.NewValidationError("unknown group",
			utils.FieldError{Field: "group", Error: fmt.Sprintf("%q has no members in the directory", group)})
	}
	out := make(map[string]models.Member, len(roster))
	for _, m := range roster {
		out[m.MembershipNumber] = m
	}
	return out, nil
}

// validateSession checks the submission shape and returns the cleaned roster, in order, and
// the present set.
func validateSession(date models.Date, group string, present, roster []string) ([]string, map[string]struct{}, error) {
	var fields []utils.FieldError
	if !date.Valid() {
		fields = append(fields, utils.FieldError{Field: "date", Error: fmt.Sprintf("%q is not a YYYY-MM-DD date", date)})
	}
	if group == "" {
		fields = append(fields, utils.FieldError{Field: "group", Error: "this field is required"})
	}

	rosterIDs := make([]string, 0, len(roster))
	inRoster := make(map[string]struct{}, len(roster))
	for i, id := range roster {
		id = strings.TrimSpace(id)
		if id == "" {
			fields = append(fields, utils.FieldError{Field: fmt.Sprintf("roster[%d]", i), Error: "blank membership number"})
			continue
		}
		if _, dup := inRoster[id]; dup {
			fields = append(fields, utils.FieldError{Field: fmt.Sprintf("roster[%d]", i), Error: "duplicate membership number " + id})
			continue
		}
		inRoster[id] = struct{}{}
		rosterIDs = append(rosterIDs, id)
	}
	if len(roster) == 0 {
		fields = append(fields, utils.FieldError{Field: "roster", Error: "group roster is empty"})
	}

	presentSet := make(map[string]struct{}, len(present))
	var outside []string
	for _, id := range present {
		id = strings.TrimSpace(id)
		if _, ok := inRoster[id]; !ok {
			outside = append(outside, id)
			continue
		}
		presentSet[id] = struct{}{}
	}
	if len(outside) > 0 {
		sort.Strings(outside)
		fields = append(fields, utils.FieldError{Field: "present", Error: "not in the group roster: " + strings.Join(outside, ", ")})
	}

	if len(fields) > 0 {
		return nil, nil, utils.NewValidationError("invalid session", fields...)
	}
	return rosterIDs, presentSet, nil
}

// storeError classifies a store failure. Rows that fail schema checks are data errors, not an
// unreachable store.
func storeError(op string, err error) error {
	if utils.IsValidation(err) || utils.IsStoreUnavailable(err) {
		return err
	}
	if errors.Is(err, tabular.ErrInvalidRow) || errors.Is(err, tabular.ErrSchema) {
		return fmt.Errorf("attendance: stored data is invalid during %s: %w", op, err)
	}
	return &utils.StoreUnavailableError{Op: op, Err: err}
}
