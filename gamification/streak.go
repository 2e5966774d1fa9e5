package gamification

import "time"

// StreakState is the slice of a profile the streak rule reads and writes.
type StreakState struct {
	Current      int
	Longest      int
	LastActivity *time.Time
}

// CalendarDay truncates t to midnight UTC of its own calendar date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats the calendar date of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return CalendarDay(t).Format("2006-01-02")
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(CalendarDay(b).Sub(CalendarDay(a)).Hours() / 24)
}

// ApplyStreak runs the streak transition for activity happening on today.
// A last activity date in the future is treated as today.
func ApplyStreak(s StreakState, today time.Time) StreakState {
	day := CalendarDay(today)
	next := s

	if s.LastActivity == nil {
		next.Current = 1
	} else {
		switch gap := DaysBetween(*s.LastActivity, day); {
		case gap <= 0:
		case gap == 1:
			next.Current = s.Current + 1
		default:
			next.Current = 1
		}
	}

	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	next.LastActivity = &day
	return next
}
