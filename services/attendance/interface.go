package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	recordsRepo "attendify/database/repository/records"
	"attendify/models"

	"go.uber.org/zap"
)

// LedgerService owns the attendance history.
type LedgerService interface {
	RecordSession(ctx context.Context, date models.Date, group string, present, roster []string) (*models.SessionResult, error)
	RecordGroupSession(ctx context.Context, date models.Date, group string, present []string) (*models.SessionResult, error)
	Query(ctx context.Context, filter models.RecordFilter) ([]models.AttendanceRecord, error)
	Clear(ctx context.Context) (int, error)
}

// Directory is the part of the member directory the ledger reads.
type Directory interface {
	ListByGroup(ctx context.Context, group string) ([]models.Member, error)
}

// Policy decides which rows a session stores.
type Policy string

const (
	// PresentAndAbsent stores one row per roster member.
	PresentAndAbsent Policy = "present_and_absent"
	// PresentOnly stores rows for present members only; absence is implied by a missing row.
	PresentOnly Policy = "present_only"
)

// ParsePolicy accepts the configuration spelling of a policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PresentAndAbsent, PresentOnly:
		return p, nil
	case "":
		return PresentAndAbsent, nil
	}
	return "", fmt.Errorf("unknown attendance policy %q", s)
}

// Ledger is the production LedgerService. Every write reads the whole table, reconciles it
// in memory and writes it back with one SaveAll while holding the ledger lock.
type Ledger struct {
	records   recordsRepo.RecordRepository
	directory Directory
	logger    *zap.Logger

	policy   Policy
	locker   Locker
	lockWait time.Duration
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPolicy sets the row policy. The default is PresentAndAbsent.
func WithPolicy(p Policy) Option {
	return func(l *Ledger) { l.policy = p }
}

// WithLocker replaces the in-process lock, typically with a RedisLocker shared by several
// instances. wait bounds how long a write queues for the lock.
func WithLocker(locker Locker, wait time.Duration) Option {
	return func(l *Ledger) {
		l.locker = locker
		l.lockWait = wait
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger returns a ledger over records that validates rosters against directory.
func NewLedger(records recordsRepo.RecordRepository, directory Directory, logger *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		records:   records,
		directory: directory,
		logger:    logger,
		policy:    PresentAndAbsent,
		locker:    NewLocalLocker(),
		lockWait:  10 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
