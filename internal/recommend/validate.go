package recommend

import (
	"fmt"
	"strings"
)

// Input validation happens per mode, before any prompt is rendered or any
// provider call is made. Enumerated values are rejected when unrecognized,
// never coerced to a default.

func validMood(m Mood) bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

func validTimeOfDay(t TimeOfDay) bool {
	for _, v := range TimesOfDay {
		if t == v {
			return true
		}
	}
	return false
}

func validContentType(ct ContentType) bool {
	for _, v := range ContentTypes {
		if ct == v {
			return true
		}
	}
	return false
}

// Validate checks the request against the personalized-mode input schema.
func (r PersonalizedRequest) Validate() error {
	if !validMood(r.Mood) {
		return &ValidationError{Field: "mood", Reason: fmt.Sprintf("unrecognized value %q", r.Mood)}
	}
	if !validTimeOfDay(r.TimeOfDay) {
		return &ValidationError{Field: "timeOfDay", Reason: fmt.Sprintf("unrecognized value %q", r.TimeOfDay)}
	}
	return nil
}

// Validate checks the request against the search-mode input schema.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return &ValidationError{Field: "query", Reason: "must not be empty"}
	}
	if !validMood(r.Mood) {
		return &ValidationError{Field: "mood", Reason: fmt.Sprintf("unrecognized value %q", r.Mood)}
	}
	if !validTimeOfDay(r.TimeOfDay) {
		return &ValidationError{Field: "timeOfDay", Reason: fmt.Sprintf("unrecognized value %q", r.TimeOfDay)}
	}
	if !validContentType(r.ContentType) {
		return &ValidationError{Field: "contentType", Reason: fmt.Sprintf("unrecognized value %q", r.ContentType)}
	}
	return nil
}

// Validate checks the request against the surprise-mode input schema.
func (r SurpriseRequest) Validate() error {
	if !validContentType(r.ContentType) {
		return &ValidationError{Field: "contentType", Reason: fmt.Sprintf("unrecognized value %q", r.ContentType)}
	}
	return nil
}

// Validate checks the request against the group-mode input schema.
func (r GroupRequest) Validate() error {
	if strings.TrimSpace(r.User1ProfileSummary) == "" {
		return &ValidationError{Field: "user1ProfileSummary", Reason: "must not be empty"}
	}
	if strings.TrimSpace(r.User2ProfileSummary) == "" {
		return &ValidationError{Field: "user2ProfileSummary", Reason: "must not be empty"}
	}
	if !validTimeOfDay(r.TimeOfDay) {
		return &ValidationError{Field: "timeOfDay", Reason: fmt.Sprintf("unrecognized value %q", r.TimeOfDay)}
	}
	if !validContentType(r.ContentType) {
		return &ValidationError{Field: "contentType", Reason: fmt.Sprintf("unrecognized value %q", r.ContentType)}
	}
	return nil
}

// Validate checks the request against the analysis-mode input schema,
// including every embedded history entry.
func (r AnalysisRequest) Validate() error {
	if !validMood(r.Mood) {
		return &ValidationError{Field: "mood", Reason: fmt.Sprintf("unrecognized value %q", r.Mood)}
	}
	if !validTimeOfDay(r.TimeOfDay) {
		return &ValidationError{Field: "timeOfDay", Reason: fmt.Sprintf("unrecognized value %q", r.TimeOfDay)}
	}
	for i, e := range r.History {
		if err := e.validate(fmt.Sprintf("history[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (e ViewingHistoryEntry) validate(path string) error {
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: path + ".title", Reason: "must not be empty"}
	}
	if e.Rating < 1 || e.Rating > 5 {
		return &ValidationError{Field: path + ".rating", Reason: fmt.Sprintf("must be in [1,5], got %d", e.Rating)}
	}
	if e.MoodAtWatch != "" && !validMood(e.MoodAtWatch) {
		return &ValidationError{Field: path + ".moodAtWatch", Reason: fmt.Sprintf("unrecognized value %q", e.MoodAtWatch)}
	}
	if e.TimeOfDayAtWatch != "" && !validTimeOfDay(e.TimeOfDayAtWatch) {
		return &ValidationError{Field: path + ".timeOfDayAtWatch", Reason: fmt.Sprintf("unrecognized value %q", e.TimeOfDayAtWatch)}
	}
	return nil
}
