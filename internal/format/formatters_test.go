package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kensetsu-dev/kensetsu/internal/format"
	"github.com/kensetsu-dev/kensetsu/internal/types"
)

func TestCurrency(t *testing.T) {
	require.Equal(t, "¥0", format.Currency(0))
	require.Equal(t, "¥1,234,567", format.Currency(1_234_567))
	require.Equal(t, "¥999,999,999,999", format.Currency(999_999_999_999))
	require.Equal(t, "¥-1,000", format.Currency(-1000))
}

func TestNumber(t *testing.T) {
	require.Equal(t, "100", format.Number(100))
	require.Equal(t, "1,000", format.Number(1000))
	require.Equal(t, "-12,345", format.Number(-12345))
}

func TestDurationBoundaries(t *testing.T) {
	// Same start and end date.
	require.Equal(t, "same day", format.Duration("2024-01-01", "2024-01-01"))

	// A 31-day inclusive span stays in days.
	require.Equal(t, "31 days", format.Duration("2024-01-01", "2024-01-31"))

	// Exactly seven days becomes one week.
	require.Equal(t, "1 week", format.Duration("2024-01-01", "2024-01-07"))

	require.Equal(t, "2 weeks", format.Duration("2024-01-01", "2024-01-14"))
	require.Equal(t, "1 month", format.Duration("2024-01-01", "2024-01-30"))
	require.Equal(t, "1 year", format.Duration("2024-01-01", "2024-12-30"))
}

func TestDurationMissingOrInvalid(t *testing.T) {
	require.Equal(t, "-", format.Duration("", "2024-01-01"))
	require.Equal(t, "-", format.Duration("2024-01-01", ""))
	require.Equal(t, "-", format.Duration("junk", "2024-01-01"))
}

func TestDurationReversedDates(t *testing.T) {
	require.Equal(t, format.Duration("2024-01-01", "2024-01-31"), format.Duration("2024-01-31", "2024-01-01"))
}

func TestBudgetRatio(t *testing.T) {
	require.Equal(t, 0, format.BudgetRatio(0, 10_000_000))
	require.Equal(t, 0, format.BudgetRatio(10_000_000, 0))
	require.Equal(t, 90, format.BudgetRatio(9_000_000, 10_000_000))
	require.Equal(t, 150, format.BudgetRatio(15_000_000, 10_000_000))
}

func TestDate(t *testing.T) {
	require.Equal(t, "-", format.Date(""))
	require.Equal(t, "-", format.Date("not-a-date"))
	require.Equal(t, "Jan 2, 2024", format.Date("2024-01-02"))
}

func TestProgress(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 0, format.Progress(types.StatusPlanned, "", "", now))
	require.Equal(t, 100, format.Progress(types.StatusCompleted, "", "", now))
	require.Equal(t, 50, format.Progress(types.StatusInProgress, "", "", now))
	require.Equal(t, 0, format.Progress(types.StatusInProgress, "2024-07-01", "2024-08-01", now))
	require.Equal(t, 100, format.Progress(types.StatusInProgress, "2024-01-01", "2024-02-01", now))

	// Halfway through the schedule.
	p := format.Progress(types.StatusInProgress, "2024-05-01", "2024-07-02", now)
	require.InDelta(t, 50, p, 2)
}

func TestColorForStatus(t *testing.T) {
	require.Equal(t, "bg-blue-50", format.ColorForStatus(types.StatusPlanned).Bg)
	require.Equal(t, "bg-yellow-50", format.ColorForStatus(types.StatusInProgress).Bg)
	require.Equal(t, "bg-green-50", format.ColorForStatus(types.StatusCompleted).Bg)
	require.Equal(t, "bg-gray-50", format.ColorForStatus("unknown").Bg)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", format.Truncate("short", 10))
	require.Equal(t, "long t...", format.Truncate("long truncated", 6))
	require.Equal(t, "日本語...", format.Truncate("日本語のテキスト", 3))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, "just now", format.RelativeTime(now.Add(-30*time.Second), now))
	require.Equal(t, "5 minutes ago", format.RelativeTime(now.Add(-5*time.Minute), now))
	require.Equal(t, "2 hours ago", format.RelativeTime(now.Add(-2*time.Hour), now))
	require.Equal(t, "3 days ago", format.RelativeTime(now.Add(-72*time.Hour), now))
	require.Equal(t, "2 weeks ago", format.RelativeTime(now.Add(-14*24*time.Hour), now))
}

func TestPercentage(t *testing.T) {
	require.Equal(t, "90.0%", format.Percentage(90, 1))
	require.Equal(t, "33.33%", format.Percentage(33.333, 2))
}
