package extract

import (
	"testing"
	"time"
)

func TestParseRelativeText(t *testing.T) {
	cases := []struct {
		in       string
		relative string
		recent   bool
	}{
		{"Just now", "just now", true},
		{"5 min ago", "5m ago", true},
		{"45 minutes ago", "45m ago", true},
		{"1 hour ago", "1h ago", true},
		{"3 hours ago", "3h ago", false},
		{"10:30 AM", "today", false},
		{"Today", "today", false},
		{"Yesterday", "yesterday", false},
		{"3 days ago", "3d ago", false},
		{"", "unknown", false},
		{"Last Tuesday sometime", "last tuesday sometime", false},
	}
	for _, c := range cases {
		rel, recent := parseRelativeText(c.in)
		if rel != c.relative || recent != c.recent {
			t.Errorf("parseRelativeText(%q) = (%q, %v), want (%q, %v)",
				c.in, rel, recent, c.relative, c.recent)
		}
	}
}

func TestParseSeparatorDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	d, ok := parseSeparatorDate("Today", now)
	if !ok || !d.Equal(now) {
		t.Fatalf("today: got %v ok=%v", d, ok)
	}

	d, ok = parseSeparatorDate("Yesterday", now)
	if !ok || d.Day() != 9 {
		t.Fatalf("yesterday: got %v ok=%v", d, ok)
	}

	d, ok = parseSeparatorDate("OCT 15, 2025", now)
	if !ok || d.Year() != 2025 || d.Month() != time.October || d.Day() != 15 {
		t.Fatalf("full date: got %v ok=%v", d, ok)
	}

	// Month-day with no year that would land in the future reads as last year.
	d, ok = parseSeparatorDate("Nov 2", now)
	if !ok || d.Year() != 2025 || d.Month() != time.November {
		t.Fatalf("future short date: got %v ok=%v", d, ok)
	}

	d, ok = parseSeparatorDate("Jan 22", now)
	if !ok || d.Year() != 2026 {
		t.Fatalf("past short date: got %v ok=%v", d, ok)
	}

	if _, ok = parseSeparatorDate("nonsense", now); ok {
		t.Fatal("expected nonsense to fail")
	}
}

func TestRelativeFromDate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago      time.Duration
		relative string
		recent   bool
	}{
		{30 * time.Second, "just now", true},
		{10 * time.Minute, "10m ago", true},
		{90 * time.Minute, "1h ago", true},
		{5 * time.Hour, "5h ago", false},
		{26 * time.Hour, "yesterday", false},
		{4 * 24 * time.Hour, "4d ago", false},
		{20 * 24 * time.Hour, "20d ago", false},
		{35 * 24 * time.Hour, "about 5 weeks ago", false},
	}
	for _, c := range cases {
		rel, recent := relativeFromDate(now.Add(-c.ago), now)
		if rel != c.relative || recent != c.recent {
			t.Errorf("relativeFromDate(-%v) = (%q, %v), want (%q, %v)",
				c.ago, rel, recent, c.relative, c.recent)
		}
	}

	// Past two months the wording keeps the calendar date for follow-up
	// context.
	rel, recent := relativeFromDate(now.Add(-70*24*time.Hour), now)
	if rel != "2 months ago (Dec 30)" || recent {
		t.Errorf("70 days: got (%q, %v)", rel, recent)
	}
	rel, _ = relativeFromDate(now.Add(-31*24*time.Hour), now)
	if rel != "about 4 weeks ago" {
		t.Errorf("31 days: got %q", rel)
	}
}

func TestSanitize(t *testing.T) {
	in := "Reach me at jane.doe@example.com or +1 555-123-4567, see https://example.com/x"
	got := Sanitize(in)
	want := "Reach me at [EMAIL] or [PHONE], see [LINK]"
	if got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
}
