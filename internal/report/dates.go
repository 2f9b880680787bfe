package report

import "time"

// DateLayout is the calendar date format used in report names and in the
// fecha field.
const DateLayout = "2006-01-02"

// Zone is the fixed UTC-5 offset reports are dated in. It has no DST.
var Zone = time.FixedZone("UTC-5", -5*60*60)

// DateFor returns the report date for an instant: t shifted to UTC-5.
func DateFor(t time.Time) string {
	return t.In(Zone).Format(DateLayout)
}

// LocalDate returns the calendar date of t in the process's local zone.
// The report server looks reports up by this date, which can differ from
// DateFor around midnight when the host is not on UTC-5.
func LocalDate(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}
