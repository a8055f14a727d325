package domain

// ActivityKind is the type of exercise an activity presents.
type ActivityKind string

// Activity kinds, ordered from easiest to hardest.
const (
	ActivityLetter   ActivityKind = "letter"
	ActivitySyllable ActivityKind = "syllable"
	ActivityWord     ActivityKind = "word"
	ActivityPhrase   ActivityKind = "phrase"
)

// Activity is one catalog exercise. Content is the expected answer, upper-case.
type Activity struct {
	ID       int          `json:"id"`
	Kind     ActivityKind `json:"kind"`
	Content  string       `json:"content"`
	Level    int          `json:"level"`
	AudioURL string       `json:"audio_url,omitempty"`
}

// Validate checks if the Activity has valid data.
func (a *Activity) Validate() error {
	switch a.Kind {
	case ActivityLetter, ActivitySyllable, ActivityWord, ActivityPhrase:
	default:
		return NewValidationError("kind", "is not a known activity kind")
	}
	if a.Content == "" {
		return NewValidationError("content", "cannot be empty")
	}
	return ValidateLevel(a.Level)
}
