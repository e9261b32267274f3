package tabular

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestPadGrid_BlanksLeftoverCells(t *testing.T) {
	grid := [][]string{{"Name", "Count"}, {"a", "1"}}
	previous := [][]string{{"Name", "Count", "Old"}, {"a", "1", "x"}, {"b", "2"}, {"c", "3"}}

	out := padGrid(grid, previous)
	require.Len(t, out, 4)
	assert.Equal(t, []interface{}{"Name", "Count", ""}, out[0])
	assert.Equal(t, []interface{}{"a", "1", ""}, out[1])
	assert.Equal(t, []interface{}{"", "", ""}, out[2])
	assert.Equal(t, []interface{}{"", "", ""}, out[3])
}

func TestPadGrid_NoPrevious(t *testing.T) {
	out := padGrid([][]string{{"Name"}, {"a"}}, nil)
	assert.Equal(t, [][]interface{}{{"Name"}, {"a"}}, out)
}

func TestCellsToStrings(t *testing.T) {
	out := cellsToStrings([][]interface{}{{"a", 1.5, nil}, {}})
	assert.Equal(t, [][]string{{"a", "1.5", ""}, {}}, out)
}

func TestRangeFrom_QuotesSheetName(t *testing.T) {
	table := &SheetsTable[item]{sheet: "Bob's Tab"}
	assert.Equal(t, "'Bob''s Tab'", table.rangeFrom(""))
	assert.Equal(t, "'Bob''s Tab'!A1", table.rangeFrom("A1"))
}

func TestBackoff_RetriesRateLimits(t *testing.T) {
	var slept []time.Duration
	b := Backoff{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Sleep: func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		},
	}

	calls := 0
	err := b.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("read: %w", &googleapi.Error{Code: http.StatusTooManyRequests})
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}

func TestBackoff_GivesUp(t *testing.T) {
	b := Backoff{MaxRetries: 2, BaseDelay: time.Millisecond, Sleep: func(context.Context, time.Duration) error { return nil }}

	calls := 0
	err := b.Do(context.Background(), func() error {
		calls++
		return &googleapi.Error{Code: http.StatusTooManyRequests}
	})
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 3, calls)
}

func TestBackoff_DoesNotRetryOtherErrors(t *testing.T) {
	b := Backoff{MaxRetries: 5, BaseDelay: time.Millisecond, Sleep: func(context.Context, time.Duration) error { return nil }}

	calls := 0
	boom := errors.New("boom")
	err := b.Do(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	calls = 0
	err = b.Do(context.Background(), func() error {
		calls++
		return &googleapi.Error{Code: http.StatusForbidden}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestSleepContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
