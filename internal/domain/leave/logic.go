package leave

import (
	"errors"
	"time"
)

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// CalculateRequestDays returns the inclusive leave day count with
// segment boundaries. A non-full-day segment trims its boundary day by
// half, so a single day taken shift_start to shift_middle counts 0.5.
func CalculateRequestDays(start, end time.Time, startSegment, endSegment Segment) (float64, error) {
	days, err := CalculateDays(start, end)
	if err != nil {
		return 0, err
	}

	sameDay := start.Equal(end)
	if sameDay && startSegment.Half() && endSegment.Half() {
		return 0, errors.New("invalid half-day range")
	}

	if startSegment.Half() {
		days -= 0.5
	}
	if endSegment.Half() {
		days -= 0.5
	}
	if days <= 0 {
		return 0, errors.New("invalid half-day range")
	}
	return days, nil
}

// RangesOverlap reports whether two inclusive date ranges intersect.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// DateOnly truncates a timestamp to midnight UTC so date comparisons
// behave as date-only comparisons.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthKey identifies one (year, month) balance row.
type MonthKey struct {
	Year  int
	Month time.Month
}

func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (k MonthKey) Next() MonthKey {
	if k.Month == time.December {
		return MonthKey{Year: k.Year + 1, Month: time.January}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// QuotaMonth returns the (year, month) whose balance row governs a
// leave starting at the given date.
func QuotaMonth(start time.Time) MonthKey {
	return MonthKeyOf(start)
}
