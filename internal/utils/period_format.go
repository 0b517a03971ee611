package utils

import "time"

// PeriodLabelLayout is the short month/year label of a reporting period, e.g. "Jan 2024".
const PeriodLabelLayout = "Jan 2006"

// FormatPeriodLabel returns the month/year label of t in UTC.
func FormatPeriodLabel(t time.Time) string {
	return t.UTC().Format(PeriodLabelLayout)
}

// FormatPeriod labels a reporting period. Periods within a single month use
// one label, longer periods are rendered as a range.
func FormatPeriod(start, end time.Time) string {
	from, to := FormatPeriodLabel(start), FormatPeriodLabel(end)
	if end.IsZero() || from == to {
		return from
	}
	return from + " – " + to
}
