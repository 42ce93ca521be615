package domain

// Position places a hotspot on the background image, as CSS percentages
// measured from the top-left corner (e.g. "24%", "13.7%").
type Position struct {
	Top  string `json:"top" yaml:"top"`
	Left string `json:"left" yaml:"left"`
}

// QuizItem is one hotspot the player has to identify.
type QuizItem struct {
	ID       int      `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Question string   `json:"question" yaml:"question"`
	Position Position `json:"position" yaml:"position"`
}

// FeedbackKind tags the transient judgment shown after a click.
type FeedbackKind string

const (
	FeedbackCorrect   FeedbackKind = "correct"
	FeedbackIncorrect FeedbackKind = "incorrect"
)

// Feedback is shown while input is locked after a click.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Message string       `json:"message"`
}

// Summary is the end-of-round narrative.
type Summary struct {
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// Phase is the externally visible state of a round.
type Phase string

const (
	PhaseLoading           Phase = "loading"
	PhasePrompting         Phase = "prompting"
	PhaseFeedbackCorrect   Phase = "feedback_correct"
	PhaseFeedbackIncorrect Phase = "feedback_incorrect"
	PhaseFinished          Phase = "finished"
)

// View is the read-only snapshot handed to presentation layers.
type View struct {
	Phase       Phase     `json:"phase"`
	CurrentItem *QuizItem `json:"currentItem"`
	SolvedIDs   []int     `json:"solvedIds"`
	Feedback    *Feedback `json:"feedback"`
	Finished    bool      `json:"finished"`
	Summary     *Summary  `json:"summary"`
	Mistakes    int       `json:"mistakes"`
	Total       int       `json:"total"`
}

// Solved reports whether id is among the solved items of the view.
func (v View) Solved(id int) bool {
	for _, s := range v.SolvedIDs {
		if s == id {
			return true
		}
	}
	return false
}
