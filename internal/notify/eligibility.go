package notify

import "time"

// Eligibility is the outcome of the per-user gate. Ineligible is not an
// error: Reason carries the suppression label.
type Eligibility struct {
	Eligible bool
	Reason   string
}

var eligible = Eligibility{Eligible: true}

func suppressed(reason string) Eligibility {
	return Eligibility{Reason: reason}
}

// CheckEligibility runs the ordered per-user gate: master flag, category flag,
// quiet hours, daily cap. Short-circuits on the first failing check. Pure
// decision over snapshots — sentToday is the caller's log count since local
// start of day.
//
// An absent category key fails open: users are notified for types they have
// never expressed a preference about. This default-allow policy is deliberate.
func CheckEligibility(prefs Preferences, t Type, now time.Time, sentToday int) Eligibility {
	if !prefs.Enabled {
		return suppressed(ReasonDisabled)
	}
	if enabled, ok := prefs.Categories[t]; ok && !enabled {
		return suppressed(ReasonCategoryDisabled)
	}
	if prefs.QuietHours.Enabled && inQuietWindow(prefs.QuietHours, now) {
		return suppressed(ReasonQuietHours)
	}
	if prefs.MaxPerDay > 0 && sentToday >= prefs.MaxPerDay {
		return suppressed(ReasonDailyLimit)
	}
	return eligible
}

// inQuietWindow reports whether now falls inside the quiet-hours window.
// Same-day windows are [start, end); overnight windows (start > end) wrap
// past midnight: in-window ⇔ now >= start OR now < end.
func inQuietWindow(qh QuietHours, now time.Time) bool {
	current := now.Format("15:04")
	start, end := qh.Start, qh.End
	if start == "" || end == "" {
		return false
	}
	if start <= end {
		return start <= current && current < end
	}
	return current >= start || current < end
}

// StartOfDay returns midnight of now's day in now's location. The daily cap
// counts from server-local midnight, not the user's timezone.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
