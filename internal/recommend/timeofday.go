package recommend

import "time"

// DetectTimeOfDay buckets a clock time into the daypart enum for callers that
// do not supply one explicitly. Boundaries follow the app's convention:
// morning 05:00-11:59, afternoon 12:00-16:59, evening 17:00-20:59, night
// otherwise.
func DetectTimeOfDay(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return Morning
	case h >= 12 && h < 17:
		return Afternoon
	case h >= 17 && h < 21:
		return Evening
	default:
		return Night
	}
}
