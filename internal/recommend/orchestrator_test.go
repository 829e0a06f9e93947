package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

type stubInvoker struct {
	payload json.RawMessage
	err     error

	calls      int
	lastPrompt string
	lastSchema OutputSchema
}

func (s *stubInvoker) Invoke(_ context.Context, prompt string, schema OutputSchema) (json.RawMessage, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastSchema = schema
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func itemsPayload(n int, reasonPrefix string) json.RawMessage {
	items := make([]RecommendationItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, RecommendationItem{
			Title:       fmt.Sprintf("Title %d", i+1),
			Description: fmt.Sprintf("Description %d", i+1),
			Reason:      fmt.Sprintf("%s %d", reasonPrefix, i+1),
			Platform:    "Netflix",
		})
	}
	b, err := json.Marshal(recommendationPayload{Recommendations: items})
	if err != nil {
		panic(err)
	}
	return b
}

func TestPersonalized_NullOutputIsFatal(t *testing.T) {
	t.Parallel()

	inv := &stubInvoker{payload: json.RawMessage(`{"recommendations":null}`)}
	svc := NewService(inv)

	_, err := svc.Personalized(context.Background(), PersonalizedRequest{
		Mood: MoodHappy, TimeOfDay: Evening, ViewingHistory: "[]",
	})

	var empty *EmptyOutputError
	if !errors.As(err, &empty) {
		t.Fatalf("err=%v, want EmptyOutputError", err)
	}
	if empty.Mode != ModePersonalized {
		t.Fatalf("mode=%s", empty.Mode)
	}
}

func TestLenientModes_NullOutputReturnsEmptySequence(t *testing.T) {
	t.Parallel()

	null := json.RawMessage(`{"recommendations":null}`)

	cases := []struct {
		name string
		run  func(svc *Service) ([]RecommendationItem, error)
	}{
		{name: "search", run: func(svc *Service) ([]RecommendationItem, error) {
			return svc.Search(context.Background(), SearchRequest{
				Query: "robots", Mood: MoodHappy, TimeOfDay: Evening, ContentType: Movies,
			})
		}},
		{name: "surprise", run: func(svc *Service) ([]RecommendationItem, error) {
			return svc.Surprise(context.Background(), SurpriseRequest{ContentType: Both})
		}},
		{name: "group", run: func(svc *Service) ([]RecommendationItem, error) {
			return svc.Group(context.Background(), GroupRequest{
				User1ProfileSummary: "Sam likes thrillers",
				User2ProfileSummary: "Alex likes comedies",
				TimeOfDay:           Night, ContentType: Both,
			})
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(&stubInvoker{payload: null})
			items, err := tc.run(svc)
			if err != nil {
				t.Fatalf("err=%v, want empty sequence", err)
			}
			if items == nil || len(items) != 0 {
				t.Fatalf("items=%v, want non-nil empty slice", items)
			}
		})
	}
}

func TestLenientModes_ItemMissingMandatoryFieldReturnsEmptySequence(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(`{"recommendations":[{"title":"Ok","description":"Fine","reason":"Good","platform":"Netflix"},{"title":"Broken","description":"","reason":"x","platform":"Hulu"}]}`)
	svc := NewService(&stubInvoker{payload: payload})

	items, err := svc.Search(context.Background(), SearchRequest{
		Query: "robots", Mood: MoodHappy, TimeOfDay: Evening, ContentType: Movies,
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items=%v, want empty sequence when any item is incomplete", items)
	}
}

func TestValidation_FailsFastBeforeAnyInvocation(t *testing.T) {
	t.Parallel()

	inv := &stubInvoker{payload: itemsPayload(1, "reason")}
	svc := NewService(inv)

	cases := []struct {
		name      string
		run       func() error
		wantField string
	}{
		{
			name: "personalized bad mood",
			run: func() error {
				_, err := svc.Personalized(context.Background(), PersonalizedRequest{Mood: "Grumpy", TimeOfDay: Evening})
				return err
			},
			wantField: "mood",
		},
		{
			name: "search bad content type",
			run: func() error {
				_, err := svc.Search(context.Background(), SearchRequest{Query: "q", Mood: MoodSad, TimeOfDay: Night, ContentType: "SHORTS"})
				return err
			},
			wantField: "contentType",
		},
		{
			name: "search empty query",
			run: func() error {
				_, err := svc.Search(context.Background(), SearchRequest{Query: "  ", Mood: MoodSad, TimeOfDay: Night, ContentType: Both})
				return err
			},
			wantField: "query",
		},
		{
			name: "group missing profile",
			run: func() error {
				_, err := svc.Group(context.Background(), GroupRequest{User1ProfileSummary: "x", TimeOfDay: Night, ContentType: Both})
				return err
			},
			wantField: "user2ProfileSummary",
		},
		{
			name: "analysis bad rating",
			run: func() error {
				_, err := svc.AnalyzeWatchPattern(context.Background(), AnalysisRequest{
					Mood: MoodHappy, TimeOfDay: Morning,
					History: []ViewingHistoryEntry{{Title: "A", Rating: 9}},
				})
				return err
			},
			wantField: "history[0].rating",
		},
		{
			name: "analysis bad mood tag",
			run: func() error {
				_, err := svc.AnalyzeWatchPattern(context.Background(), AnalysisRequest{
					Mood: MoodHappy, TimeOfDay: Morning,
					History: []ViewingHistoryEntry{{Title: "A", Rating: 3, MoodAtWatch: "Sleepy"}},
				})
				return err
			},
			wantField: "history[0].moodAtWatch",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err=%v, want ValidationError", err)
			}
			if ve.Field != tc.wantField {
				t.Fatalf("field=%q, want %q", ve.Field, tc.wantField)
			}
		})
	}

	if inv.calls != 0 {
		t.Fatalf("invoker called %d times for invalid input, want 0", inv.calls)
	}
}

func TestSearch_EndToEnd(t *testing.T) {
	t.Parallel()

	inv := &stubInvoker{payload: itemsPayload(6, "Matches the query and fits the evening mood")}
	svc := NewService(inv)

	items, err := svc.Search(context.Background(), SearchRequest{
		Query:          "a movie about a friendly robot",
		Mood:           MoodHappy,
		TimeOfDay:      Evening,
		ViewingHistory: "[]",
		ContentType:    Movies,
		Language:       "Any",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("len(items)=%d, want 6", len(items))
	}
	for i, it := range items {
		if it.Title == "" || it.Description == "" || it.Reason == "" || it.Platform == "" {
			t.Fatalf("item %d has an empty mandatory field: %+v", i, it)
		}
	}

	for _, want := range []string{
		"a movie about a friendly robot",
		string(MoodHappy),
		string(Evening),
		"MOVIES ONLY",
	} {
		if !strings.Contains(inv.lastPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, inv.lastPrompt)
		}
	}
	if inv.lastSchema.Name != recommendationSchema.Name {
		t.Fatalf("schema=%q", inv.lastSchema.Name)
	}
}

func TestSurprise_EndToEnd(t *testing.T) {
	t.Parallel()

	inv := &stubInvoker{payload: itemsPayload(6, "A sharp contrast to your action-heavy history")}
	svc := NewService(inv)

	items, err := svc.Surprise(context.Background(), SurpriseRequest{
		ViewingHistory: `[{"title":"Action Flick","rating":5}]`,
		ContentType:    Both,
	})
	if err != nil {
		t.Fatalf("Surprise: %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("len(items)=%d, want 6", len(items))
	}
	for i, it := range items {
		if !strings.Contains(it.Reason, "contrast") {
			t.Fatalf("item %d reason does not reference divergence: %q", i, it.Reason)
		}
	}
	if !strings.Contains(inv.lastPrompt, "Action Flick") {
		t.Fatalf("prompt missing history baseline:\n%s", inv.lastPrompt)
	}
	if !strings.Contains(inv.lastPrompt, "diverge") {
		t.Fatalf("prompt missing divergence framing:\n%s", inv.lastPrompt)
	}
}

func TestGroup_EndToEnd(t *testing.T) {
	t.Parallel()

	inv := &stubInvoker{payload: json.RawMessage(`{"recommendations":[
		{"title":"A","description":"d","reason":"Admin gets the thriller pacing, Parth gets the humour","platform":"Netflix"},
		{"title":"B","description":"d","reason":"Parth will like the leads, Admin the plot","platform":"Hulu"},
		{"title":"C","description":"d","reason":"Works for both Admin and Parth","platform":"Prime Video"}
	]}`)}
	svc := NewService(inv)

	items, err := svc.Group(context.Background(), GroupRequest{
		User1ProfileSummary: "Admin: loves thrillers and heist plots",
		User2ProfileSummary: "Parth: comfort comedies, nothing scary",
		TimeOfDay:           Evening,
		ContentType:         Both,
	})
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(items) < 3 || len(items) > 4 {
		t.Fatalf("len(items)=%d, want 3-4", len(items))
	}
	for i, it := range items {
		if !strings.Contains(it.Reason, "Admin") && !strings.Contains(it.Reason, "Parth") {
			t.Fatalf("item %d reason references neither profile name: %q", i, it.Reason)
		}
	}
	for _, want := range []string{"Admin", "Parth", "BY THE NAME"} {
		if !strings.Contains(inv.lastPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, inv.lastPrompt)
		}
	}
}

func TestAnalyze_MissingFieldEnumeration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		want    []string
	}{
		{
			name:    "missing contentMix",
			payload: `{"explanation":"x","moodWeight":60,"historyWeight":40,"contentMix":null}`,
			want:    []string{"contentMix"},
		},
		{
			name:    "null output lists all four",
			payload: `null`,
			want:    []string{"explanation", "moodWeight", "historyWeight", "contentMix"},
		},
		{
			name:    "empty explanation counts as missing",
			payload: `{"explanation":"  ","moodWeight":60,"historyWeight":40,"contentMix":[]}`,
			want:    []string{"explanation"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(&stubInvoker{payload: json.RawMessage(tc.payload)})
			_, err := svc.AnalyzeWatchPattern(context.Background(), AnalysisRequest{
				Mood: MoodHappy, TimeOfDay: Morning,
			})
			var mf *MandatoryFieldMissingError
			if !errors.As(err, &mf) {
				t.Fatalf("err=%v, want MandatoryFieldMissingError", err)
			}
			if !reflect.DeepEqual(mf.Fields, tc.want) {
				t.Fatalf("fields=%v, want %v", mf.Fields, tc.want)
			}
		})
	}
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	payload := `{"explanation":"Mood drives most picks.","moodWeight":70,"historyWeight":30,"contentMix":[{"genre":"Comedy","proportion":0.6},{"genre":"Drama","proportion":0.4}]}`
	inv := &stubInvoker{payload: json.RawMessage(payload)}
	svc := NewService(inv)

	got, err := svc.AnalyzeWatchPattern(context.Background(), AnalysisRequest{
		Mood:      MoodSad,
		TimeOfDay: Night,
		History: []ViewingHistoryEntry{
			{Title: "Old Comfort Show", Rating: 5, Completed: true, MoodAtWatch: MoodSad},
			{Title: "Prestige Drama", Rating: 4, Completed: false},
		},
	})
	if err != nil {
		t.Fatalf("AnalyzeWatchPattern: %v", err)
	}
	if got.MoodWeight != 70 || got.HistoryWeight != 30 {
		t.Fatalf("weights=%v/%v", got.MoodWeight, got.HistoryWeight)
	}
	if len(got.ContentMix) != 2 {
		t.Fatalf("contentMix=%v", got.ContentMix)
	}
	for _, gs := range got.ContentMix {
		if gs.Proportion < 0 || gs.Proportion > 1 {
			t.Fatalf("proportion out of range: %v", gs.Proportion)
		}
	}
	// The serialized history, including the mood-at-watch tag, must reach the prompt.
	for _, want := range []string{"Old Comfort Show", string(MoodSad)} {
		if !strings.Contains(inv.lastPrompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, inv.lastPrompt)
		}
	}
	if inv.lastSchema.Name != analysisSchema.Name {
		t.Fatalf("schema=%q", inv.lastSchema.Name)
	}
}

func TestAnalyze_OutOfRangeWeightIsSchemaViolation(t *testing.T) {
	t.Parallel()

	payload := `{"explanation":"x","moodWeight":120,"historyWeight":30,"contentMix":[]}`
	svc := NewService(&stubInvoker{payload: json.RawMessage(payload)})

	_, err := svc.AnalyzeWatchPattern(context.Background(), AnalysisRequest{Mood: MoodHappy, TimeOfDay: Morning})
	var osv *OutputSchemaViolation
	if !errors.As(err, &osv) {
		t.Fatalf("err=%v, want OutputSchemaViolation", err)
	}
	if !strings.Contains(osv.Error(), "moodWeight") {
		t.Fatalf("violation does not name the field: %v", osv)
	}
}

func TestMalformedPayloadIsSchemaViolation(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubInvoker{payload: json.RawMessage(`{"recommendations": "not an array"}`)})
	_, err := svc.Search(context.Background(), SearchRequest{
		Query: "q", Mood: MoodHappy, TimeOfDay: Evening, ContentType: Both,
	})
	var osv *OutputSchemaViolation
	if !errors.As(err, &osv) {
		t.Fatalf("err=%v, want OutputSchemaViolation", err)
	}
}

func TestProviderErrorSurfacesVerbatim(t *testing.T) {
	t.Parallel()

	cause := &ProviderError{Kind: ProviderRateLimited, Err: errors.New("429 too many requests")}
	svc := NewService(&stubInvoker{err: cause})

	_, err := svc.Surprise(context.Background(), SurpriseRequest{ContentType: Movies})
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err=%v, want ProviderError", err)
	}
	if pe.Kind != ProviderRateLimited {
		t.Fatalf("kind=%s", pe.Kind)
	}
}

func TestRepeatedInvocationIsStructurallyIdentical(t *testing.T) {
	t.Parallel()

	inv := &stubInvoker{payload: itemsPayload(6, "same reason")}
	svc := NewService(inv)
	req := SearchRequest{Query: "robots", Mood: MoodExcited, TimeOfDay: Afternoon, ContentType: TVSeries}

	first, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	firstPrompt := inv.lastPrompt

	second, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("outputs differ across identical invocations")
	}
	if firstPrompt != inv.lastPrompt {
		t.Fatalf("prompts differ across identical invocations")
	}
}
