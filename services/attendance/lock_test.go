package attendance

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalLocker()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(context.Background(), "k")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLocker_TimeoutAndRelease(t *testing.T) {
	locker := NewLocalLocker()
	release, err := locker.Acquire(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Other keys are independent.
	other, err := locker.Acquire(context.Background(), "other")
	require.NoError(t, err)
	other()

	release()
	release() // second call is a no-op

	again, err := locker.Acquire(context.Background(), "k")
	require.NoError(t, err)
	again()
}
