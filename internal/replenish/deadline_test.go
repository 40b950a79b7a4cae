package replenish

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shopops/opsdash/backend-go/internal/domain"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 12, hour, minute, 0, 0, time.UTC) // a Tuesday
}

func TestMinutesUntilDeadline(t *testing.T) {
	assert.InDelta(t, -15, MinutesUntilDeadline("2:30 PM", at(14, 45)), 1e-9)
	assert.InDelta(t, 90, MinutesUntilDeadline("2:30 PM", at(13, 0)), 1e-9)
	assert.InDelta(t, 0, MinutesUntilDeadline("11:00 AM", at(11, 0)), 1e-9)
	assert.InDelta(t, -30, MinutesUntilDeadline("12:00 AM", at(0, 30)), 1e-9)
}

func TestMinutesUntilDeadlineMalformedIsInfinite(t *testing.T) {
	for _, s := range []string{"", "noon", "14:30", "2:30", "2:30PMX", "25:00 PM"} {
		assert.True(t, math.IsInf(MinutesUntilDeadline(s, at(9, 0)), 1), "input %q", s)
	}
}

func TestEvaluateDeadlineBuckets(t *testing.T) {
	deadline := domain.VendorDeadline{VendorName: "Hillside Dairy", OrderDay: time.Tuesday, Deadline: "2:30 PM"}

	tests := []struct {
		name    string
		now     time.Time
		urgency domain.DeadlineUrgency
		overdue bool
	}{
		{"overdue", at(14, 45), domain.UrgencyUrgent, true},
		{"within 30 minutes", at(14, 5), domain.UrgencyUrgent, false},
		{"within 2 hours", at(13, 0), domain.UrgencySoon, false},
		{"later today", at(9, 0), domain.UrgencyToday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reminder := EvaluateDeadline(deadline, tt.now)
			assert.Equal(t, tt.urgency, reminder.Urgency)
			assert.Equal(t, tt.overdue, reminder.IsOverdue)
		})
	}
}

func TestEvaluateDeadlineNoDeadlineNeverUrgent(t *testing.T) {
	reminder := EvaluateDeadline(domain.VendorDeadline{VendorName: "Mill Co", Deadline: "call them"}, at(23, 59))

	assert.True(t, math.IsInf(reminder.MinutesUntilDeadline, 1))
	assert.False(t, reminder.IsOverdue)
	assert.Equal(t, domain.UrgencyToday, reminder.Urgency)
}
