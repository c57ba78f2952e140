package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"linkdraft/internal/dom"
	"linkdraft/internal/selector"
)

// stamp is the normalized form of one message timestamp.
type stamp struct {
	raw      string
	relative string
	recent   bool
}

var (
	minutesAgoRe = regexp.MustCompile(`(?i)(\d+)\s*(?:min|minute|m)\s*(?:ago)?`)
	hoursAgoRe   = regexp.MustCompile(`(?i)(\d+)\s*(?:hour|hr|h)\s*(?:ago)?`)
	daysAgoRe    = regexp.MustCompile(`(?i)(\d+)\s*(?:day|d)\s*(?:ago)?`)
	clockRe      = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}\s*(am|pm)?$`)
	fullDateRe   = regexp.MustCompile(`(?i)([a-z]+)\s+(\d{1,2}),?\s*(\d{4})`)
	shortDateRe  = regexp.MustCompile(`(?i)([a-z]+)\s+(\d{1,2})`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseRelativeText normalizes free-form timestamp text ("5 min ago",
// "2 hours", "Yesterday"). Text it cannot classify passes through untouched;
// a wrong guess is worse than showing the site's own wording.
func parseRelativeText(text string) (relative string, recent bool) {
	t := strings.ToLower(strings.TrimSpace(text))

	if strings.Contains(t, "just now") || strings.Contains(t, "now") {
		return "just now", true
	}

	if m := minutesAgoRe.FindStringSubmatch(t); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%dm ago", mins), mins < 60
	}

	if m := hoursAgoRe.FindStringSubmatch(t); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%dh ago", hours), hours < 2
	}

	// A bare clock time means "today" on the site, which is not recent
	// enough to treat the conversation as live.
	if strings.Contains(t, "today") || clockRe.MatchString(t) {
		return "today", false
	}

	if strings.Contains(t, "yesterday") {
		return "yesterday", false
	}

	if m := daysAgoRe.FindStringSubmatch(t); m != nil {
		days, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%dd ago", days), false
	}

	if t == "" {
		return "unknown", false
	}
	return t, false
}

// parseSeparatorDate resolves date-separator text ("Today", "Yesterday",
// "OCT 15, 2025", "Jan 22") into an absolute date. A month-day without a year
// that lands in the future is read as last year.
func parseSeparatorDate(text string, now time.Time) (time.Time, bool) {
	t := strings.ToLower(strings.TrimSpace(text))

	if t == "today" {
		return now, true
	}
	if t == "yesterday" {
		return now.AddDate(0, 0, -1), true
	}

	if m := fullDateRe.FindStringSubmatch(text); m != nil {
		if month, ok := monthAbbrev(m[1]); ok {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
		}
	}

	if m := shortDateRe.FindStringSubmatch(text); m != nil {
		if month, ok := monthAbbrev(m[1]); ok {
			day, _ := strconv.Atoi(m[2])
			date := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
			if date.After(now) {
				date = date.AddDate(-1, 0, 0)
			}
			return date, true
		}
	}

	return time.Time{}, false
}

func monthAbbrev(name string) (time.Month, bool) {
	if len(name) < 3 {
		return 0, false
	}
	m, ok := monthIndex[strings.ToLower(name)[:3]]
	return m, ok
}

// relativeFromDate renders an absolute time as the relative wording prompts
// expect. Older entries keep the month and day so follow-up advice can name
// how long the silence has been.
func relativeFromDate(date, now time.Time) (relative string, recent bool) {
	diff := now.Sub(date)
	mins := int(diff.Minutes())
	hours := int(diff.Hours())
	days := hours / 24

	switch {
	case mins < 1:
		return "just now", true
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins), true
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours), hours < 2
	case days == 1:
		return "yesterday", false
	case days < 30:
		return fmt.Sprintf("%dd ago", days), false
	case days < 60:
		return fmt.Sprintf("about %d weeks ago", days/7), false
	default:
		months := days / 30
		plural := ""
		if months > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%d month%s ago (%s)", months, plural, date.Format("Jan 2")), false
	}
}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDatetimeAttr(value string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateSeparator is a parsed thread date heading with its document position.
type dateSeparator struct {
	pos  int
	date time.Time
	ok   bool
}

func collectDateSeparators(res *selector.Resolver, thread *dom.Node, now time.Time) []dateSeparator {
	var seps []dateSeparator
	for _, node := range res.ResolveAll(selector.DateSeparator, thread) {
		text := node.Text()
		if text == "" {
			continue
		}
		date, ok := parseSeparatorDate(text, now)
		seps = append(seps, dateSeparator{pos: node.Pos(), date: date, ok: ok})
	}
	return seps
}

// dateContextFor returns the nearest preceding separator's date for a node.
func dateContextFor(node *dom.Node, seps []dateSeparator) (time.Time, bool) {
	var best time.Time
	found := false
	for _, sep := range seps {
		if sep.pos <= node.Pos() && sep.ok {
			best = sep.date
			found = true
		}
	}
	return best, found
}

// resolveStamp pulls a timestamp out of a message scope. Precedence: machine
// datetime attribute, then a bare clock time combined with the surrounding
// date separator, then free-form relative text, then the separator alone.
func resolveStamp(res *selector.Resolver, scope *dom.Node, dateCtx time.Time, hasCtx bool, now time.Time) (stamp, bool) {
	if node := res.Resolve(selector.MessageTimestamp, scope); node != nil {
		if dt := node.AttrOr("datetime", ""); dt != "" {
			if abs, ok := parseDatetimeAttr(dt); ok {
				rel, recent := relativeFromDate(abs, now)
				return stamp{raw: dt, relative: rel, recent: recent}, true
			}
		}
		if text := node.Text(); text != "" {
			if hasCtx && clockRe.MatchString(text) {
				rel, recent := relativeFromDate(dateCtx, now)
				return stamp{raw: dateCtx.Format(time.RFC3339), relative: rel, recent: recent}, true
			}
			rel, recent := parseRelativeText(text)
			return stamp{raw: text, relative: rel, recent: recent}, true
		}
	}

	if hasCtx {
		rel, recent := relativeFromDate(dateCtx, now)
		return stamp{raw: dateCtx.Format(time.RFC3339), relative: rel, recent: recent}, true
	}

	return stamp{}, false
}
