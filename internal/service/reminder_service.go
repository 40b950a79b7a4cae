package service

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopops/opsdash/backend-go/internal/config"
	"github.com/shopops/opsdash/backend-go/internal/domain"
	"github.com/shopops/opsdash/backend-go/internal/replenish"
)

// ReminderService evaluates vendor ordering deadlines. Only schedules whose
// order day matches the current day-of-week are evaluated; the rest are not
// classified at all.
type ReminderService struct {
	settings *config.ReplenishSettings
}

func NewReminderService(settings *config.ReplenishSettings) *ReminderService {
	return &ReminderService{settings: settings}
}

// DueToday returns reminders for every vendor that takes orders today, sorted
// by urgency bucket and then by time remaining.
func (s *ReminderService) DueToday(now time.Time) []domain.DeadlineReminder {
	reminders := make([]domain.DeadlineReminder, 0)
	for _, deadline := range s.settings.VendorDeadlines {
		if deadline.OrderDay != now.Weekday() {
			continue
		}

		reminder := replenish.EvaluateDeadline(deadline, now)
		// Infinite minutes with a deadline string present means the string did
		// not parse; the vendor silently loses its cutoff otherwise.
		if deadline.Deadline != "" && math.IsInf(reminder.MinutesUntilDeadline, 1) {
			log.Warn().
				Str("vendor", deadline.VendorName).
				Str("deadline", deadline.Deadline).
				Msg("reminders: unparseable deadline, treating vendor as having no cutoff")
		}
		reminders = append(reminders, reminder)
	}

	sort.Slice(reminders, func(i, j int) bool {
		a, b := reminders[i], reminders[j]
		if a.Urgency.Rank() != b.Urgency.Rank() {
			return a.Urgency.Rank() < b.Urgency.Rank()
		}
		if a.MinutesUntilDeadline != b.MinutesUntilDeadline {
			return a.MinutesUntilDeadline < b.MinutesUntilDeadline
		}
		return a.VendorName < b.VendorName
	})

	return reminders
}
