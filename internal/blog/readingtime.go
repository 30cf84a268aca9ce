package blog

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// WordsPerMinute is the reading speed behind ReadingTime.
const WordsPerMinute = 200

// ReadingTime estimates how long content takes to read.
type ReadingTime struct {
	Minutes int    `json:"minutes"`
	Text    string `json:"text"`
}

// EstimateReadingTime rounds words/WordsPerMinute up, with a floor of one minute.
func EstimateReadingTime(content string) ReadingTime {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return ReadingTime{
		Minutes: minutes,
		Text:    fmt.Sprintf("%d min read", minutes),
	}
}

// RelativeDate renders t relative to now, e.g. "2 days ago" or "Yesterday".
func RelativeDate(t, now time.Time) string {
	diff := now.Sub(t)
	days := int(diff.Hours() / 24)

	if days == 0 {
		hours := int(diff.Hours())
		if hours == 0 {
			minutes := int(diff.Minutes())
			if minutes < 1 {
				return "Just now"
			}
			return plural(minutes, "minute") + " ago"
		}
		return plural(hours, "hour") + " ago"
	}

	switch {
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week") + " ago"
	case days < 365:
		return plural(days/30, "month") + " ago"
	default:
		return plural(days/365, "year") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
