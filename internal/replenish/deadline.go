package replenish

import (
	"math"
	"strings"
	"time"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

// deadlineLayout matches the fixed lexical form "H:MM AM|PM" (12-hour clock,
// no leading zero required).
const deadlineLayout = "3:04 PM"

// Deadline urgency thresholds, in minutes remaining.
const (
	urgentWithinMinutes = 30
	soonWithinMinutes   = 120
)

// MinutesUntilDeadline returns how many minutes remain until the given
// time-of-day deadline today, negative once passed. An empty or unparseable
// deadline string yields +Inf: no deadline, never urgent, never overdue.
func MinutesUntilDeadline(deadline string, now time.Time) float64 {
	parsed, ok := parseDeadlineClock(deadline)
	if !ok {
		return math.Inf(1)
	}

	at := time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, now.Location())

	return at.Sub(now).Minutes()
}

// EvaluateDeadline derives the reminder state for one vendor schedule at the
// given instant. Callers are expected to pass only schedules whose OrderDay
// matches today; the scheduler itself does not filter.
func EvaluateDeadline(d domain.VendorDeadline, now time.Time) domain.DeadlineReminder {
	minutes := MinutesUntilDeadline(d.Deadline, now)
	overdue := minutes < 0

	var urgency domain.DeadlineUrgency
	switch {
	case overdue || minutes <= urgentWithinMinutes:
		urgency = domain.UrgencyUrgent
	case minutes <= soonWithinMinutes:
		urgency = domain.UrgencySoon
	default:
		urgency = domain.UrgencyToday
	}

	return domain.DeadlineReminder{
		VendorName:           d.VendorName,
		OrderDay:             d.OrderDay,
		Deadline:             d.Deadline,
		DeliveryDay:          d.DeliveryDay,
		MinutesUntilDeadline: minutes,
		IsOverdue:            overdue,
		Urgency:              urgency,
	}
}

func parseDeadlineClock(s string) (time.Time, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, false
	}

	parsed, err := time.Parse(deadlineLayout, s)
	if err != nil {
		return time.Time{}, false
	}

	return parsed, true
}
