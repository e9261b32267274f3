package tabular

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

// SheetsTable keeps a table in one tab of a Google spreadsheet, header in row 1.
type SheetsTable[T any] struct {
	svc           *sheets.Service
	spreadsheetID string
	sheet         string
	codec         Codec[T]
	backoff       Backoff
}

// NewSheetsTable returns a table over the named tab. Rate-limited calls are retried up to
// maxRetries times.
func NewSheetsTable[T any](svc *sheets.Service, spreadsheetID, sheet string, codec Codec[T], maxRetries int) *SheetsTable[T] {
	return &SheetsTable[T]{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
		codec:         codec,
		backoff:       Backoff{MaxRetries: maxRetries, BaseDelay: time.Second, Sleep: SleepContext},
	}
}

func (t *SheetsTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	cells, err := t.read(ctx)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, nil
	}
	return DecodeRows(t.codec, cells[0], cells[1:])
}

// SaveAll overwrites the tab with one Values.Update call. Rows beyond the new table, left from
// a longer previous table, are blanked in the same call.
func (t *SheetsTable[T]) SaveAll(ctx context.Context, rows []T) error {
	current, err := t.read(ctx)
	if err != nil {
		return err
	}

	grid := append([][]string{t.codec.Header()}, EncodeRows(t.codec, rows)...)
	values := padGrid(grid, current)

	return t.backoff.Do(ctx, func() error {
		_, err := t.svc.Spreadsheets.Values.
			Update(t.spreadsheetID, t.rangeFrom("A1"), &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", t.sheet, err)
		}
		return nil
	})
}

// Ping fetches the spreadsheet title.
func (t *SheetsTable[T]) Ping(ctx context.Context) error {
	_, err := t.svc.Spreadsheets.Get(t.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

func (t *SheetsTable[T]) read(ctx context.Context) ([][]string, error) {
	var resp *sheets.ValueRange
	err := t.backoff.Do(ctx, func() error {
		var err error
		resp, err = t.svc.Spreadsheets.Values.Get(t.spreadsheetID, t.rangeFrom("")).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to read sheet %s: %w", t.sheet, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cellsToStrings(resp.Values), nil
}

func (t *SheetsTable[T]) rangeFrom(cell string) string {
	name := "'" + strings.ReplaceAll(t.sheet, "'", "''") + "'"
	if cell == "" {
		return name
	}
	return name + "!" + cell
}

// padGrid widens and lengthens grid so that writing it from A1 covers every cell of previous.
func padGrid(grid, previous [][]string) [][]interface{} {
	width := 0
	for _, r := range grid {
		width = max(width, len(r))
	}
	for _, r := range previous {
		width = max(width, len(r))
	}
	height := max(len(grid), len(previous))

	out := make([][]interface{}, height)
	for i := range out {
		row := make([]interface{}, width)
		for j := range row {
			row[j] = ""
		}
		if i < len(grid) {
			for j, c := range grid[i] {
				row[j] = c
			}
		}
		out[i] = row
	}
	return out
}

func cellsToStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, r := range values {
		row := make([]string, len(r))
		for j, c := range r {
			if c != nil {
				row[j] = fmt.Sprint(c)
			}
		}
		out[i] = row
	}
	return out
}

// Backoff retries calls rejected by a rate limit with exponentially growing delays.
type Backoff struct {
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
}

// Do runs fn, retrying while it fails with a rate-limit error and attempts remain.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !IsRateLimited(err) || attempt >= b.MaxRetries {
			return err
		}
		if serr := b.Sleep(ctx, delay); serr != nil {
			return err
		}
		delay *= 2
	}
}

// IsRateLimited reports whether err is a Google API quota rejection.
func IsRateLimited(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusTooManyRequests
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
