// Package format holds the presentation-formatting helpers for project
// records: currency, dates, durations and budget ratios.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/kensetsu-dev/kensetsu/internal/types"
	"github.com/kensetsu-dev/kensetsu/internal/validation"
)

// Currency renders an amount as comma-grouped Japanese yen.
func Currency(amount int64) string {
	return "¥" + Number(amount)
}

// Number renders an integer with thousands separators.
func Number(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign = "-"
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digit)
	}
	return sign + string(out)
}

// Date renders an ISO yyyy-mm-dd string for display. Missing or unparseable
// values render as "-".
func Date(iso string) string {
	if iso == "" {
		return "-"
	}
	t, err := time.Parse(validation.DateLayout, iso)
	if err != nil {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

func DateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04")
}

// RelativeTime renders how long ago t was, in the coarsest sensible unit.
func RelativeTime(t time.Time, now time.Time) string {
	diff := now.Sub(t)

	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)

	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return plural(minutes, "minute") + " ago"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	case days < 7:
		return plural(days, "day") + " ago"
	case days < 28:
		return plural(days/7, "week") + " ago"
	case days < 365:
		return plural(days/30, "month") + " ago"
	default:
		return plural(days/365, "year") + " ago"
	}
}

func Percentage(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64) + "%"
}

// Duration renders the span between two ISO dates, counting both endpoints.
// The span is named in weeks, months or years only at exact multiples
// (7/30/365 days); everything else stays in days.
func Duration(startISO, endISO string) string {
	if startISO == "" || endISO == "" {
		return "-"
	}
	start, err := time.Parse(validation.DateLayout, startISO)
	if err != nil {
		return "-"
	}
	end, err := time.Parse(validation.DateLayout, endISO)
	if err != nil {
		return "-"
	}
	if end.Before(start) {
		start, end = end, start
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days == 1 {
		return "same day"
	}
	switch {
	case days%365 == 0:
		return plural(days/365, "year")
	case days%30 == 0:
		return plural(days/30, "month")
	case days%7 == 0:
		return plural(days/7, "week")
	}
	return plural(days, "day")
}

// BudgetRatio is the execution budget as a rounded percentage of the
// contract amount. A zero contract amount yields 0 rather than dividing.
func BudgetRatio(executionBudget, contractAmount int64) int {
	if contractAmount == 0 {
		return 0
	}
	return int(math.Round(float64(executionBudget) / float64(contractAmount) * 100))
}

// Progress estimates completion percentage from status and schedule.
// In-progress projects interpolate between the planned dates; without dates
// the estimate is 50.
func Progress(status types.ProjectStatus, startISO, endISO string, now time.Time) int {
	switch status {
	case types.StatusPlanned:
		return 0
	case types.StatusCompleted:
		return 100
	case types.StatusInProgress:
		if startISO == "" || endISO == "" {
			return 50
		}
		start, err1 := time.Parse(validation.DateLayout, startISO)
		end, err2 := time.Parse(validation.DateLayout, endISO)
		if err1 != nil || err2 != nil {
			return 50
		}
		if now.Before(start) {
			return 0
		}
		if now.After(end) {
			return 100
		}
		total := end.Sub(start)
		if total <= 0 {
			return 100
		}
		elapsed := now.Sub(start)
		p := int(math.Round(float64(elapsed) / float64(total) * 100))
		if p < 0 {
			return 0
		}
		if p > 100 {
			return 100
		}
		return p
	}
	return 0
}

// StatusColor is the styling triple the list and detail views apply per
// status.
type StatusColor struct {
	Bg     string `json:"bg"`
	Text   string `json:"text"`
	Border string `json:"border"`
}

func ColorForStatus(status types.ProjectStatus) StatusColor {
	switch status {
	case types.StatusPlanned:
		return StatusColor{Bg: "bg-blue-50", Text: "text-blue-800", Border: "border-blue-200"}
	case types.StatusInProgress:
		return StatusColor{Bg: "bg-yellow-50", Text: "text-yellow-800", Border: "border-yellow-200"}
	case types.StatusCompleted:
		return StatusColor{Bg: "bg-green-50", Text: "text-green-800", Border: "border-green-200"}
	}
	return StatusColor{Bg: "bg-gray-50", Text: "text-gray-800", Border: "border-gray-200"}
}

// Truncate shortens text to maxLen runes, appending an ellipsis when cut.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
