package workspace

import "time"

var quotes = []string{
	"Great things never come from comfort zones.",
	"Don't wait for opportunity. Create it.",
	"Success is the sum of small efforts, repeated day in and day out.",
	"Failure is simply the opportunity to begin again, this time more intelligently.",
}

// DailyQuote returns the same quote for every call on a given calendar day.
func DailyQuote(now time.Time) string {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return quotes[int(day%int64(len(quotes)))]
}
