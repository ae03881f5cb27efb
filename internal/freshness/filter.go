// Package freshness decides whether an announcement is already stale before
// it is allowed into the job catalog.
package freshness

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Skip reasons, recorded in run stats and logs.
const (
	ReasonExpired   = "application_window_closed"
	ReasonStaleYear = "stale_year_in_title"
)

// endDateFormats are the date layouts seen across government portals.
var endDateFormats = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02.01.2006",
	"2 January 2006",
	"02 January 2006",
	"2 Jan 2006",
}

var yearTokenPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// staleYearWindow is how far back a year token in a title is still
// considered, before it is simply ignored as noise (phone numbers, pay
// scales). Years inside the window but at least two behind the run year mark
// a cached or re-surfaced old listing.
const (
	staleYearWindow = 10
	staleYearLag    = 2
)

// Evaluate applies both rejection rules and returns the skip decision with
// its reason. The two rules are independent: the stale-year heuristic
// defends against scrapers replaying old listings whose dates are missing
// or malformed.
func Evaluate(title, applicationEndDate string, now time.Time) (bool, string) {
	if IsExpired(applicationEndDate, now) {
		return true, ReasonExpired
	}

	if HasStaleYear(title, now) {
		return true, ReasonStaleYear
	}

	return false, ""
}

// IsExpired reports whether the extracted application end date parses to a
// valid date strictly before now. Unparseable or empty dates never expire a
// notice — that is the stale-year rule's job.
func IsExpired(applicationEndDate string, now time.Time) bool {
	raw := strings.TrimSpace(applicationEndDate)
	if raw == "" {
		return false
	}

	for _, layout := range endDateFormats {
		endDate, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		// The application window includes the end date itself.
		return endDate.AddDate(0, 0, 1).Before(now)
	}

	return false
}

// HasStaleYear reports whether the title carries a year token that is
// definitionally old relative to the run year.
func HasStaleYear(title string, now time.Time) bool {
	runYear := now.Year()

	for _, token := range yearTokenPattern.FindAllString(title, -1) {
		year, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if year <= runYear-staleYearLag && year > runYear-staleYearWindow {
			return true
		}
	}

	return false
}
