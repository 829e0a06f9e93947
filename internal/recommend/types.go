package recommend

// Mode identifies one of the five recommendation/analysis flows.
type Mode string

const (
	ModePersonalized Mode = "personalized"
	ModeSearch       Mode = "search"
	ModeSurprise     Mode = "surprise"
	ModeGroup        Mode = "group"
	ModeAnalysis     Mode = "analysis"
)

// Mood is the viewer's self-reported mood. The set is closed; anything else is
// a validation error, never a default.
type Mood string

const (
	MoodHappy       Mood = "Happy"
	MoodSad         Mood = "Sad"
	MoodExcited     Mood = "Excited"
	MoodRelaxed     Mood = "Relaxed"
	MoodRomantic    Mood = "Romantic"
	MoodAdventurous Mood = "Adventurous"
	MoodThoughtful  Mood = "Thoughtful"
	MoodNostalgic   Mood = "Nostalgic"
)

// Moods lists every accepted mood value, in presentation order.
var Moods = []Mood{
	MoodHappy, MoodSad, MoodExcited, MoodRelaxed,
	MoodRomantic, MoodAdventurous, MoodThoughtful, MoodNostalgic,
}

// TimeOfDay is the coarse daypart used to bias recommendations.
type TimeOfDay string

const (
	Morning   TimeOfDay = "Morning"
	Afternoon TimeOfDay = "Afternoon"
	Evening   TimeOfDay = "Evening"
	Night     TimeOfDay = "Night"
)

// TimesOfDay lists every accepted time-of-day value.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Evening, Night}

// ContentType restricts what kind of content a mode may return.
type ContentType string

const (
	Movies   ContentType = "MOVIES"
	TVSeries ContentType = "TV_SERIES"
	Both     ContentType = "BOTH"
)

// ContentTypes lists every accepted content-type value.
var ContentTypes = []ContentType{Movies, TVSeries, Both}

// ViewingHistoryEntry is one watched item as logged by the caller. Entries are
// immutable once created and are never mutated by this package.
type ViewingHistoryEntry struct {
	Title     string `json:"title"`
	Rating    int    `json:"rating"`
	Completed bool   `json:"completed"`

	// MoodAtWatch and TimeOfDayAtWatch are optional tags captured at log time;
	// the analysis mode correlates them against the current context.
	MoodAtWatch      Mood      `json:"moodAtWatch,omitempty"`
	TimeOfDayAtWatch TimeOfDay `json:"timeOfDayAtWatch,omitempty"`
}

// PersonalizedRequest asks for picks matching the viewer's current context.
type PersonalizedRequest struct {
	Mood      Mood      `json:"mood"`
	TimeOfDay TimeOfDay `json:"timeOfDay"`

	// ViewingHistory is an already-serialized summary (free text or JSON) owned
	// by the caller.
	ViewingHistory string `json:"viewingHistory"`
}

// SearchRequest asks for picks matching a free-text query, filtered by the
// viewer's context.
type SearchRequest struct {
	Query          string      `json:"query"`
	Mood           Mood        `json:"mood"`
	TimeOfDay      TimeOfDay   `json:"timeOfDay"`
	ViewingHistory string      `json:"viewingHistory"`
	ContentType    ContentType `json:"contentType"`

	// Language is an optional filter; empty or "Any" means no restriction.
	Language string `json:"language,omitempty"`
}

// SurpriseRequest asks for picks that deliberately diverge from the viewer's
// history baseline.
type SurpriseRequest struct {
	ViewingHistory string      `json:"viewingHistory"`
	ContentType    ContentType `json:"contentType"`
}

// GroupRequest asks for compromise picks for two viewers. Each profile summary
// is free text carrying that viewer's display name.
type GroupRequest struct {
	User1ProfileSummary string      `json:"user1ProfileSummary"`
	User2ProfileSummary string      `json:"user2ProfileSummary"`
	TimeOfDay           TimeOfDay   `json:"timeOfDay"`
	ContentType         ContentType `json:"contentType"`
}

// AnalysisRequest asks for a watch-pattern analysis of the viewer's logged
// history against their current context.
type AnalysisRequest struct {
	History   []ViewingHistoryEntry `json:"history"`
	Mood      Mood                  `json:"mood"`
	TimeOfDay TimeOfDay             `json:"timeOfDay"`
}

// RecommendationItem is one pick. All four fields are mandatory and non-empty
// in every item of a returned sequence.
type RecommendationItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
	Platform    string `json:"platform"`
}

// GenreShare is one slice of the viewer's content mix.
type GenreShare struct {
	Genre      string  `json:"genre"`
	Proportion float64 `json:"proportion"`
}

// WatchPatternAnalysis explains how mood and history each weigh on the
// viewer's choices. ContentMix may be empty but is never absent; proportions
// are instructed toward summing to ~1.0 but that is not enforced.
type WatchPatternAnalysis struct {
	Explanation   string       `json:"explanation"`
	MoodWeight    float64      `json:"moodWeight"`
	HistoryWeight float64      `json:"historyWeight"`
	ContentMix    []GenreShare `json:"contentMix"`
}
