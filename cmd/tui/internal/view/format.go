package view

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const dbTimeout = 5 * time.Second

// FormatWon renders a whole-KRW amount like "₩12,000" or "-₩4,000".
func FormatWon(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)

	var sb strings.Builder
	sb.WriteString(sign)
	sb.WriteString("₩")

	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if i > 0 {
			sb.WriteString(",")
		}

		sb.WriteString(digits[i : i+3])
	}

	return sb.String()
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
