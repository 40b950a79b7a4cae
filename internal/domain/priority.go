package domain

import "strings"

// Priority is the urgency tier of a low-stock alert. Tiers are totally
// ordered: lower rank is more urgent.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityWarning
	PriorityWatch
	PriorityOK
)

var priorityLabels = map[Priority]string{
	PriorityCritical: "critical",
	PriorityWarning:  "warning",
	PriorityWatch:    "watch",
	PriorityOK:       "ok",
}

var priorityRanks = map[string]Priority{
	"critical": PriorityCritical,
	"warning":  PriorityWarning,
	"watch":    PriorityWatch,
	"ok":       PriorityOK,
}

// String returns a human-readable label for a priority tier.
func (p Priority) String() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}

	return "ok"
}

// MarshalJSON renders the priority as its label.
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON parses a priority label.
func (p *Priority) UnmarshalJSON(data []byte) error {
	label := strings.Trim(string(data), `"`)
	if rank, ok := ParsePriority(label); ok {
		*p = rank
	} else {
		*p = PriorityOK
	}
	return nil
}

// ParsePriority returns the tier for a given label (case-insensitive).
func ParsePriority(label string) (Priority, bool) {
	rank, ok := priorityRanks[strings.ToLower(label)]

	return rank, ok
}

// DeadlineUrgency buckets a vendor-order reminder by how soon the cutoff is.
type DeadlineUrgency string

const (
	UrgencyUrgent DeadlineUrgency = "urgent"
	UrgencySoon   DeadlineUrgency = "soon"
	UrgencyToday  DeadlineUrgency = "today"
)

var urgencyRanks = map[DeadlineUrgency]int{
	UrgencyUrgent: 0,
	UrgencySoon:   1,
	UrgencyToday:  2,
}

// Rank returns the sort rank of an urgency bucket (lower is more urgent).
func (u DeadlineUrgency) Rank() int {
	if rank, ok := urgencyRanks[u]; ok {
		return rank
	}

	return len(urgencyRanks)
}
