package domain

// Difficulty grades how demanding a piece of lesson content is.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// SummaryResult is the structured output of a lesson summarization.
type SummaryResult struct {
	Summary              string     `json:"summary"`
	KeyPoints            []string   `json:"keyPoints"`
	EstimatedReadingTime int        `json:"estimatedReadingTime"`
	Difficulty           Difficulty `json:"difficulty"`
}

// SearchResult is a single hit returned by a web search collaborator.
type SearchResult struct {
	Title            string `json:"title"`
	URL              string `json:"url"`
	Snippet          string `json:"snippet"`
	ExtractedContent string `json:"extractedContent,omitempty"`
}
