package prompt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Follow-up advisories. The exact wording steers the model away from
// answering a months-old message as if it just arrived.
const (
	gapThreePlusMonths = `3+ months have passed - If they mentioned being busy/having a project, reference it as likely completed ("Hope the project went well!") and ask if now is a better time to connect.`
	gapOneToTwoMonths  = "1-2 months have passed - Mention the time gap briefly and check if timing is better now."
	gapAboutAMonth     = "About a month has passed - Acknowledge the time and ask if timing is better now."
)

func gapAboutNMonths(n int) string {
	return fmt.Sprintf("About %d months have passed - Acknowledge the time gap naturally and ask if timing is better now. If they mentioned a project/busy period, reference it positively.", n)
}

func gapAboutNMonthsFromDays(n int) string {
	return fmt.Sprintf("About %d months have passed - Acknowledge the time gap and ask if timing is better now. If they mentioned a project/busy period, reference it positively.", n)
}

var (
	gapMinutesRe = regexp.MustCompile(`(\d+)\s*m(?:in)?(?:ute)?s?\s*ago`)
	gapHoursRe   = regexp.MustCompile(`(\d+)\s*h(?:our)?s?\s*ago`)
	gapDaysRe    = regexp.MustCompile(`(\d+)\s*d(?:ay)?s?\s*ago`)
	gapWeeksRe   = regexp.MustCompile(`(?:about\s+)?(\d+)\s*weeks?\s*ago`)
	gapMonthsRe  = regexp.MustCompile(`(\d+)\s*months?\s*ago`)
	gapDateRe    = regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+(\d+)`)
)

var gapMonths = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// analyzeTimeGap turns relative-time wording into a follow-up advisory, or ""
// when the gap is too short to call out. Anything under two weeks stays
// silent; making small talk about a three-day pause reads as desperate.
func analyzeTimeGap(lastMessageTime string, now time.Time) string {
	if lastMessageTime == "" {
		return ""
	}
	t := strings.ToLower(lastMessageTime)

	if m := gapMonthsRe.FindStringSubmatch(t); m != nil {
		months, _ := strconv.Atoi(m[1])
		switch {
		case months >= 3:
			return gapThreePlusMonths
		case months >= 2:
			return gapAboutNMonths(months)
		default:
			return gapOneToTwoMonths
		}
	}

	if m := gapWeeksRe.FindStringSubmatch(t); m != nil {
		weeks, _ := strconv.Atoi(m[1])
		if weeks >= 4 {
			return gapAboutAMonth
		}
		return ""
	}

	if gapMinutesRe.MatchString(t) || gapHoursRe.MatchString(t) {
		return ""
	}
	if m := gapDaysRe.FindStringSubmatch(t); m != nil {
		days, _ := strconv.Atoi(m[1])
		switch {
		case days < 30:
			return ""
		case days < 60:
			return gapOneToTwoMonths
		case days < 90:
			return gapAboutNMonthsFromDays(days / 30)
		default:
			return gapThreePlusMonths
		}
	}

	if strings.Contains(t, "today") || strings.Contains(t, "just now") || strings.Contains(t, "yesterday") {
		return ""
	}

	// Date literals ("Oct 15"): a month-day in the future is last year's.
	if m := gapDateRe.FindStringSubmatch(t); m != nil {
		month := gapMonths[m[1]]
		day, _ := strconv.Atoi(m[2])
		date := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
		if date.After(now) {
			date = date.AddDate(-1, 0, 0)
		}
		days := int(now.Sub(date).Hours()) / 24
		switch {
		case days < 30:
			return ""
		case days < 60:
			return gapOneToTwoMonths
		case days < 90:
			return gapAboutNMonthsFromDays(days / 30)
		default:
			return gapThreePlusMonths
		}
	}

	return ""
}
