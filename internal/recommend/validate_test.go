package recommend

import (
	"errors"
	"testing"
)

func wantValidationError(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if ve.Field != field {
		t.Fatalf("field=%q, want %q", ve.Field, field)
	}
}

func TestPersonalizedRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := PersonalizedRequest{Mood: MoodRelaxed, TimeOfDay: Morning}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	wantValidationError(t, PersonalizedRequest{Mood: "Meh", TimeOfDay: Morning}.Validate(), "mood")
	wantValidationError(t, PersonalizedRequest{Mood: MoodHappy, TimeOfDay: "Dawn"}.Validate(), "timeOfDay")
	// Casing matters: the sets are closed literal values, not case-folded.
	wantValidationError(t, PersonalizedRequest{Mood: "happy", TimeOfDay: Morning}.Validate(), "mood")
}

func TestSearchRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := SearchRequest{Query: "q", Mood: MoodHappy, TimeOfDay: Night, ContentType: Both}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	wantValidationError(t, SearchRequest{Query: "", Mood: MoodHappy, TimeOfDay: Night, ContentType: Both}.Validate(), "query")
	wantValidationError(t, SearchRequest{Query: "q", Mood: MoodHappy, TimeOfDay: Night, ContentType: "movies"}.Validate(), "contentType")
}

func TestSurpriseRequest_Validate(t *testing.T) {
	t.Parallel()

	if err := (SurpriseRequest{ContentType: TVSeries}).Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	wantValidationError(t, SurpriseRequest{ContentType: ""}.Validate(), "contentType")
}

func TestGroupRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := GroupRequest{
		User1ProfileSummary: "Sam: thrillers",
		User2ProfileSummary: "Alex: comedies",
		TimeOfDay:           Evening,
		ContentType:         Both,
	}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := ok
	bad.User1ProfileSummary = "   "
	wantValidationError(t, bad.Validate(), "user1ProfileSummary")
}

func TestViewingHistoryEntry_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		entry ViewingHistoryEntry
		field string
	}{
		{name: "empty title", entry: ViewingHistoryEntry{Title: " ", Rating: 3}, field: "history[0].title"},
		{name: "rating too low", entry: ViewingHistoryEntry{Title: "A", Rating: 0}, field: "history[0].rating"},
		{name: "rating too high", entry: ViewingHistoryEntry{Title: "A", Rating: 6}, field: "history[0].rating"},
		{name: "bad time tag", entry: ViewingHistoryEntry{Title: "A", Rating: 3, TimeOfDayAtWatch: "Noon"}, field: "history[0].timeOfDayAtWatch"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := AnalysisRequest{Mood: MoodHappy, TimeOfDay: Morning, History: []ViewingHistoryEntry{tc.entry}}
			wantValidationError(t, req.Validate(), tc.field)
		})
	}

	good := AnalysisRequest{
		Mood: MoodHappy, TimeOfDay: Morning,
		History: []ViewingHistoryEntry{
			{Title: "A", Rating: 1},
			{Title: "B", Rating: 5, Completed: true, MoodAtWatch: MoodNostalgic, TimeOfDayAtWatch: Night},
		},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid history rejected: %v", err)
	}
}
