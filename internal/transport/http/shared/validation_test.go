package shared

import (
	"testing"
)

func TestValidatorCollectsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("reason", "", "is required")
	v.Enum("segment", "afternoon", []string{"full_day", "shift_start"}, "must be a valid segment")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
}

func TestValidatorEnumAcceptsCaseInsensitive(t *testing.T) {
	v := NewValidator()
	v.Enum("segment", "Full_Day", []string{"full_day"}, "must be a valid segment")
	if v.HasIssues() {
		t.Fatalf("expected no issues, got %v", v.Issues())
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	parsed, ok := v.Date("startDate", "2026-03-10")
	if !ok || v.HasIssues() {
		t.Fatalf("expected valid date, issues: %v", v.Issues())
	}
	if parsed.Year() != 2026 {
		t.Fatalf("unexpected year %d", parsed.Year())
	}

	if _, ok := v.Date("endDate", "10/03/2026"); ok {
		t.Fatal("expected invalid date format rejected")
	}
	if !v.HasIssues() {
		t.Fatal("expected issue recorded")
	}
}

func TestValidatorDateOrder(t *testing.T) {
	v := NewValidator()
	start, _ := v.Date("startDate", "2026-03-12")
	end, _ := v.Date("endDate", "2026-03-10")
	v.DateOrder("startDate", start, "endDate", end)
	if !v.HasIssues() {
		t.Fatal("expected reversed range rejected")
	}
}

func TestParseDateAcceptsRFC3339(t *testing.T) {
	parsed, err := ParseDate("2026-03-10T08:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Day() != 10 {
		t.Fatalf("unexpected day %d", parsed.Day())
	}
}
