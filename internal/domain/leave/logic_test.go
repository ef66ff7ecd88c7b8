package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDaysInclusive(t *testing.T) {
	days, err := CalculateDays(date(2026, time.March, 10), date(2026, time.March, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %v", days)
	}
}

func TestCalculateDaysSingleDay(t *testing.T) {
	days, err := CalculateDays(date(2026, time.March, 10), date(2026, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day, got %v", days)
	}
}

func TestCalculateDaysRejectsReversedRange(t *testing.T) {
	if _, err := CalculateDays(date(2026, time.March, 12), date(2026, time.March, 10)); err == nil {
		t.Fatal("expected error for reversed range")
	}
}

func TestCalculateRequestDaysHalfDayBoundaries(t *testing.T) {
	cases := []struct {
		name         string
		start, end   time.Time
		startSegment Segment
		endSegment   Segment
		want         float64
	}{
		{"full days", date(2026, time.March, 10), date(2026, time.March, 12), SegmentFullDay, SegmentFullDay, 3},
		{"half start", date(2026, time.March, 10), date(2026, time.March, 12), SegmentShiftMiddle, SegmentFullDay, 2.5},
		{"half end", date(2026, time.March, 10), date(2026, time.March, 12), SegmentFullDay, SegmentShiftStart, 2.5},
		{"both halves", date(2026, time.March, 10), date(2026, time.March, 12), SegmentShiftEnd, SegmentShiftStart, 2},
		{"single half day", date(2026, time.March, 10), date(2026, time.March, 10), SegmentShiftStart, SegmentFullDay, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateRequestDays(tc.start, tc.end, tc.startSegment, tc.endSegment)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v days, got %v", tc.want, got)
			}
		})
	}
}

func TestCalculateRequestDaysRejectsDoubleHalfSingleDay(t *testing.T) {
	_, err := CalculateRequestDays(date(2026, time.March, 10), date(2026, time.March, 10), SegmentShiftStart, SegmentShiftEnd)
	if err == nil {
		t.Fatal("expected error for two half segments on one day")
	}
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name                   string
		aStart, aEnd           time.Time
		bStart, bEnd           time.Time
		want                   bool
	}{
		{"disjoint", date(2026, 3, 1), date(2026, 3, 3), date(2026, 3, 5), date(2026, 3, 7), false},
		{"touching endpoints", date(2026, 3, 1), date(2026, 3, 5), date(2026, 3, 5), date(2026, 3, 7), true},
		{"contained", date(2026, 3, 1), date(2026, 3, 10), date(2026, 3, 4), date(2026, 3, 6), true},
		{"identical", date(2026, 3, 4), date(2026, 3, 6), date(2026, 3, 4), date(2026, 3, 6), true},
		{"adjacent days", date(2026, 3, 1), date(2026, 3, 4), date(2026, 3, 5), date(2026, 3, 7), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RangesOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestMonthKeyNextWrapsYear(t *testing.T) {
	next := MonthKey{Year: 2026, Month: time.December}.Next()
	if next.Year != 2027 || next.Month != time.January {
		t.Fatalf("expected 2027 January, got %d %s", next.Year, next.Month)
	}
}

func TestMonthKeyBefore(t *testing.T) {
	a := MonthKey{Year: 2026, Month: time.March}
	b := MonthKey{Year: 2026, Month: time.April}
	c := MonthKey{Year: 2027, Month: time.January}
	if !a.Before(b) || !b.Before(c) || b.Before(a) {
		t.Fatal("month key ordering broken")
	}
}

func TestDateOnlyNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("plus5", 5*3600)
	got := DateOnly(time.Date(2026, time.March, 10, 23, 45, 0, 0, loc))
	want := date(2026, time.March, 10)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseSegmentCanonicalizesCase(t *testing.T) {
	cases := []struct {
		raw  string
		want Segment
	}{
		{"", SegmentFullDay},
		{"full_day", SegmentFullDay},
		{"Full_Day", SegmentFullDay},
		{"FULL_DAY", SegmentFullDay},
		{"  Shift_Start ", SegmentShiftStart},
		{"shift_end", SegmentShiftEnd},
	}
	for _, tc := range cases {
		got, ok := ParseSegment(tc.raw)
		if !ok {
			t.Fatalf("expected %q accepted", tc.raw)
		}
		if got != tc.want {
			t.Fatalf("expected %q canonicalized to %q, got %q", tc.raw, tc.want, got)
		}
	}

	if _, ok := ParseSegment("afternoon"); ok {
		t.Fatal("expected unknown segment rejected")
	}
}

func TestParseSegmentPreservesFullDayMath(t *testing.T) {
	// A mixed-case full_day must not be mistaken for a half segment:
	// the canonical value keeps multi-day counts whole and keeps a
	// single full day valid.
	seg, ok := ParseSegment("Full_Day")
	if !ok {
		t.Fatal("expected Full_Day accepted")
	}
	if seg.Half() {
		t.Fatal("expected canonical full_day to not be a half segment")
	}

	days, err := CalculateRequestDays(date(2026, time.March, 10), date(2026, time.March, 12), seg, seg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 3 {
		t.Fatalf("expected 3 days, got %v", days)
	}

	if _, err := CalculateRequestDays(date(2026, time.March, 10), date(2026, time.March, 10), seg, seg); err != nil {
		t.Fatalf("single full day must be valid, got %v", err)
	}
}

func TestSegmentValid(t *testing.T) {
	for _, s := range []Segment{SegmentFullDay, SegmentShiftStart, SegmentShiftMiddle, SegmentShiftEnd} {
		if !s.Valid() {
			t.Fatalf("expected %s valid", s)
		}
	}
	if Segment("afternoon").Valid() {
		t.Fatal("expected unknown segment invalid")
	}
}

func TestBalanceEffectiveQuotaFloorsAtZero(t *testing.T) {
	b := LeaveBalance{PaidQuota: 2, NextMonthDeduction: 3}
	if b.EffectiveQuota() != 0 {
		t.Fatalf("expected 0 effective quota, got %v", b.EffectiveQuota())
	}
	if b.RemainingPaid() != 0 {
		t.Fatalf("expected 0 remaining, got %v", b.RemainingPaid())
	}
}

func TestBalanceRemainingPaid(t *testing.T) {
	b := LeaveBalance{PaidQuota: 2, NextMonthDeduction: 0.5, PaidUsed: 1}
	if got := b.RemainingPaid(); got != 0.5 {
		t.Fatalf("expected 0.5 remaining, got %v", got)
	}
}
