package types

import "time"

// DateLabel is a coarse relative-date label attached to a suggested memory.
// Labels are mnemonic aids, not legal records: anything unrecognized resolves
// to the reference date rather than failing.
type DateLabel string

const (
	DateLabelToday     DateLabel = "today"
	DateLabelYesterday DateLabel = "yesterday"
	DateLabelThisWeek  DateLabel = "this week"
	DateLabelNotSure   DateLabel = "not sure"
)

// AllDateLabels returns all valid date labels
func AllDateLabels() []DateLabel {
	return []DateLabel{
		DateLabelToday,
		DateLabelYesterday,
		DateLabelThisWeek,
		DateLabelNotSure,
	}
}

// IsValid checks if the date label is valid
func (l DateLabel) IsValid() bool {
	switch l {
	case DateLabelToday,
		DateLabelYesterday,
		DateLabelThisWeek,
		DateLabelNotSure:
		return true
	default:
		return false
	}
}

// String returns the string representation of the date label
func (l DateLabel) String() string {
	return string(l)
}

// Resolve maps the label to an absolute calendar date relative to ref,
// truncated to midnight in ref's location. "yesterday" is ref minus one
// calendar day. "this week" resolves to ref itself: the label carries no
// weekday information, so no weekday is inferred. Absent, "not sure" and
// unrecognized labels all resolve to ref.
func (l DateLabel) Resolve(ref time.Time) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	switch l {
	case DateLabelYesterday:
		return day.AddDate(0, 0, -1)
	default:
		return day
	}
}
