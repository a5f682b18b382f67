package timeutils

import "time"

// Greeting returns the Brazilian time-of-day salutation used to open the
// department menu prompt. Boundaries follow the console convention:
// morning 05:00-11:59, afternoon 12:00-17:59, evening otherwise.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "Bom dia"
	case h >= 12 && h < 18:
		return "Boa tarde"
	default:
		return "Boa noite"
	}
}

// SameCalendarDay reports whether both instants fall on the same date in the
// given location.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
