package recommend

import (
	"context"
	"encoding/json"
	"strings"
)

// Invoker sends a rendered prompt plus an output schema to the LLM provider
// and returns the raw JSON payload, or fails. Implementations must not retry
// and must not return partial results; retry policy belongs to the caller.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, schema OutputSchema) (json.RawMessage, error)
}

// emptyPolicy is a mode's rule for a null/absent item sequence. Recommendation
// absence is a normal no-results state for most modes, but the personalized
// mode treats it as a provider fault.
type emptyPolicy int

const (
	emptyIsFatal emptyPolicy = iota
	emptyReturnsNone
)

// Service exposes the five orchestrators. Each call is an independent,
// request-scoped flow: validate, render, invoke, decode, normalize. Beyond the
// injected invoker there is no state, so concurrent calls share nothing.
type Service struct {
	invoker Invoker
}

// NewService returns a Service backed by the given invoker.
func NewService(invoker Invoker) *Service {
	return &Service{invoker: invoker}
}

// Personalized recommends titles for the viewer's current mood and time of
// day. A null provider output is fatal for this mode.
func (s *Service) Personalized(ctx context.Context, req PersonalizedRequest) ([]RecommendationItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pctx := promptContext{
		Mood:           string(req.Mood),
		TimeOfDay:      string(req.TimeOfDay),
		ViewingHistory: historyOrNone(req.ViewingHistory),
		Example:        exampleFor(ModePersonalized),
	}
	return s.runItemMode(ctx, ModePersonalized, pctx, emptyIsFatal)
}

// Search recommends exactly-six titles for a free-text query, filtered by the
// viewer's context. Content-type filtering is a prompt instruction, not a
// post-filter.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]RecommendationItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pctx := promptContext{
		Query:           sanitizeFreeText(req.Query, maxQueryChars),
		Mood:            string(req.Mood),
		TimeOfDay:       string(req.TimeOfDay),
		ViewingHistory:  historyOrNone(req.ViewingHistory),
		ContentType:     string(req.ContentType),
		ContentTypeRule: contentTypeRule(req.ContentType),
		Language:        languageRule(req.Language),
		Example:         exampleFor(ModeSearch),
	}
	return s.runItemMode(ctx, ModeSearch, pctx, emptyReturnsNone)
}

// Surprise recommends titles that diverge from the viewer's history baseline.
func (s *Service) Surprise(ctx context.Context, req SurpriseRequest) ([]RecommendationItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pctx := promptContext{
		ViewingHistory:  historyOrNone(req.ViewingHistory),
		ContentType:     string(req.ContentType),
		ContentTypeRule: contentTypeRule(req.ContentType),
		Example:         exampleFor(ModeSurprise),
	}
	return s.runItemMode(ctx, ModeSurprise, pctx, emptyReturnsNone)
}

// Group recommends compromise titles for two viewers, with per-name reasons.
func (s *Service) Group(ctx context.Context, req GroupRequest) ([]RecommendationItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pctx := promptContext{
		User1Profile:    sanitizeFreeText(req.User1ProfileSummary, maxProfileChars),
		User2Profile:    sanitizeFreeText(req.User2ProfileSummary, maxProfileChars),
		TimeOfDay:       string(req.TimeOfDay),
		ContentType:     string(req.ContentType),
		ContentTypeRule: contentTypeRule(req.ContentType),
		Example:         exampleFor(ModeGroup),
	}
	return s.runItemMode(ctx, ModeGroup, pctx, emptyReturnsNone)
}

// runItemMode is the shared flow behind every item-producing mode. The modes
// differ only in validated input, prompt context, and empty-output policy.
func (s *Service) runItemMode(ctx context.Context, mode Mode, pctx promptContext, policy emptyPolicy) ([]RecommendationItem, error) {
	prompt, err := renderPrompt(mode, pctx)
	if err != nil {
		return nil, err
	}

	schema := OutputSchemaFor(mode)
	raw, err := s.invoker.Invoke(ctx, prompt, schema)
	if err != nil {
		return nil, err
	}

	var payload recommendationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &OutputSchemaViolation{Schema: schema.Name, Err: err}
	}
	return normalizeItems(mode, payload.Recommendations, policy)
}

// normalizeItems applies the per-mode fallback policy. A lenient mode degrades
// to an empty sequence both for absent output and for items missing a
// mandatory field; a fatal mode surfaces absence as EmptyOutputError and
// leaves field checks to schema validation.
func normalizeItems(mode Mode, items []RecommendationItem, policy emptyPolicy) ([]RecommendationItem, error) {
	if items == nil {
		if policy == emptyIsFatal {
			return nil, &EmptyOutputError{Mode: mode}
		}
		return []RecommendationItem{}, nil
	}
	if policy == emptyReturnsNone {
		for _, it := range items {
			if itemIncomplete(it) {
				return []RecommendationItem{}, nil
			}
		}
	}
	return items, nil
}

func itemIncomplete(it RecommendationItem) bool {
	return strings.TrimSpace(it.Title) == "" ||
		strings.TrimSpace(it.Description) == "" ||
		strings.TrimSpace(it.Reason) == "" ||
		strings.TrimSpace(it.Platform) == ""
}

// AnalyzeWatchPattern produces a single watch-pattern analysis. Unlike the
// recommendation modes, an incomplete output here is a contract violation and
// fails loudly with the full list of omitted fields.
func (s *Service) AnalyzeWatchPattern(ctx context.Context, req AnalysisRequest) (WatchPatternAnalysis, error) {
	if err := req.Validate(); err != nil {
		return WatchPatternAnalysis{}, err
	}
	pctx := promptContext{
		Mood:        string(req.Mood),
		TimeOfDay:   string(req.TimeOfDay),
		HistoryJSON: serializeHistory(req.History),
		Example:     exampleFor(ModeAnalysis),
	}
	prompt, err := renderPrompt(ModeAnalysis, pctx)
	if err != nil {
		return WatchPatternAnalysis{}, err
	}

	raw, err := s.invoker.Invoke(ctx, prompt, analysisSchema)
	if err != nil {
		return WatchPatternAnalysis{}, err
	}

	var payload analysisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return WatchPatternAnalysis{}, &OutputSchemaViolation{Schema: analysisSchema.Name, Err: err}
	}

	// A JSON null decodes into a payload with every pointer nil, so an absent
	// output naturally reports all four mandatory fields.
	if missing := payload.missingFields(); len(missing) > 0 {
		return WatchPatternAnalysis{}, &MandatoryFieldMissingError{Fields: missing}
	}
	if err := payload.checkBounds(); err != nil {
		return WatchPatternAnalysis{}, err
	}

	return WatchPatternAnalysis{
		Explanation:   strings.TrimSpace(*payload.Explanation),
		MoodWeight:    *payload.MoodWeight,
		HistoryWeight: *payload.HistoryWeight,
		ContentMix:    *payload.ContentMix,
	}, nil
}

func (p analysisPayload) missingFields() []string {
	var missing []string
	if p.Explanation == nil || strings.TrimSpace(*p.Explanation) == "" {
		missing = append(missing, "explanation")
	}
	if p.MoodWeight == nil {
		missing = append(missing, "moodWeight")
	}
	if p.HistoryWeight == nil {
		missing = append(missing, "historyWeight")
	}
	if p.ContentMix == nil {
		missing = append(missing, "contentMix")
	}
	return missing
}

func (p analysisPayload) checkBounds() error {
	if w := *p.MoodWeight; w < 0 || w > 100 {
		return &OutputSchemaViolation{Schema: analysisSchema.Name, Err: boundsError("moodWeight", w, 0, 100)}
	}
	if w := *p.HistoryWeight; w < 0 || w > 100 {
		return &OutputSchemaViolation{Schema: analysisSchema.Name, Err: boundsError("historyWeight", w, 0, 100)}
	}
	for _, gs := range *p.ContentMix {
		if gs.Proportion < 0 || gs.Proportion > 1 {
			return &OutputSchemaViolation{Schema: analysisSchema.Name, Err: boundsError("contentMix.proportion", gs.Proportion, 0, 1)}
		}
	}
	return nil
}

func historyOrNone(summary string) string {
	s := sanitizeFreeText(summary, maxHistoryChars)
	if s == "" || s == "[]" {
		return "(no history yet)"
	}
	return s
}
