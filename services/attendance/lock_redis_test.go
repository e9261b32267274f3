package attendance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	recordsRepo "attendify/database/repository/records"
	"attendify/models"
	"attendify/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := NewRedisLocker(client, ttl, zap.NewNop())
	locker.retry = 5 * time.Millisecond
	return locker, mr
}

func TestRedisLocker_AcquireWaitRelease(t *testing.T) {
	locker, mr := newTestRedisLocker(t, time.Minute)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, utils.LedgerLockKey)
	require.NoError(t, err)
	assert.True(t, mr.Exists(redisLockPrefix+utils.LedgerLockKey))
	assert.Equal(t, time.Minute, mr.TTL(redisLockPrefix+utils.LedgerLockKey))

	short, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(short, utils.LedgerLockKey)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan func(), 1)
	go func() {
		r, err := locker.Acquire(ctx, utils.LedgerLockKey)
		if assert.NoError(t, err) {
			acquired <- r
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second holder got the lock while the first still held it")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	release() // second call is a no-op

	select {
	case r := <-acquired:
		r()
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the released lock")
	}
	assert.False(t, mr.Exists(redisLockPrefix+utils.LedgerLockKey))
}

func TestRedisLocker_ExpiredHolderCannotReleaseNewLock(t *testing.T) {
	locker, mr := newTestRedisLocker(t, 5*time.Second)
	ctx := context.Background()
	key := redisLockPrefix + utils.LedgerLockKey

	stale, err := locker.Acquire(ctx, utils.LedgerLockKey)
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)
	require.False(t, mr.Exists(key))

	current, err := locker.Acquire(ctx, utils.LedgerLockKey)
	require.NoError(t, err)
	token, err := mr.Get(key)
	require.NoError(t, err)

	stale()
	require.True(t, mr.Exists(key), "expired holder deleted the current holder's lock")
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, token, got)

	current()
	assert.False(t, mr.Exists(key))
}

func TestRedisLocker_StoreDown(t *testing.T) {
	locker, mr := newTestRedisLocker(t, time.Minute)
	mr.SetError("ERR server unavailable")

	_, err := locker.Acquire(context.Background(), utils.LedgerLockKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}

func TestLedger_SharedRedisLockSerializesInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	repo := recordsRepo.NewMemoryRecordRepo()
	ctx := context.Background()

	// Two instances over one store, each with its own client.
	var ledgers []*Ledger
	for i := 0; i < 2; i++ {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		locker := NewRedisLocker(client, time.Minute, zap.NewNop())
		locker.retry = time.Millisecond
		ledgers = append(ledgers, newTestLedger(t, repo, WithLocker(locker, 5*time.Second)))
	}

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			date := models.Date(fmt.Sprintf("2024-06-%02d", i+1))
			_, err := ledgers[i%2].RecordSession(ctx, date, "Youth", []string{"M1"}, youth)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	rows := loadAll(t, repo)
	assert.Len(t, rows, 6*len(youth))
	for i := 0; i < 6; i++ {
		key := models.SessionKey{Date: models.Date(fmt.Sprintf("2024-06-%02d", i+1)), Group: "Youth"}
		assert.Len(t, statusByMember(rows, key), len(youth), key)
	}
	assert.False(t, mr.Exists(redisLockPrefix+utils.LedgerLockKey))
}

func TestLedger_RedisLockHeldElsewhereIsConflict(t *testing.T) {
	locker, _ := newTestRedisLocker(t, time.Minute)
	repo := recordsRepo.NewMemoryRecordRepo()
	ledger := newTestLedger(t, repo, WithLocker(locker, 30*time.Millisecond))

	release, err := locker.Acquire(context.Background(), utils.LedgerLockKey)
	require.NoError(t, err)
	defer release()

	_, err = ledger.RecordSession(context.Background(), "2024-06-02", "Youth", []string{"M1"}, youth)
	require.Error(t, err)
	assert.True(t, utils.IsConflict(err))
	assert.Empty(t, loadAll(t, repo))
}
