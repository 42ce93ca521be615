package app

import "hotspot-quiz-service/internal/domain"

// Outcome is the result of a click as seen by the caller.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// RoundState is the whole mutable state of one round. Transitions are pure
// functions returning a new value; Controller only swaps them in.
type RoundState struct {
	Round    uint64           `json:"round"`
	Order    []int            `json:"order"`
	Cursor   int              `json:"cursor"`
	Solved   []int            `json:"solved"`
	Feedback *domain.Feedback `json:"feedback,omitempty"`
	Finished bool             `json:"finished"`
	Mistakes int              `json:"mistakes"`
	Summary  *domain.Summary  `json:"summary,omitempty"`
}

// NewRound starts round number round over the given order.
func NewRound(round uint64, order []int) RoundState {
	return RoundState{
		Round:  round,
		Order:  order,
		Solved: []int{},
	}
}

// Phase derives the state-machine phase.
func (s RoundState) Phase() domain.Phase {
	switch {
	case s.Order == nil:
		return domain.PhaseLoading
	case s.Finished:
		return domain.PhaseFinished
	case s.Feedback != nil && s.Feedback.Kind == domain.FeedbackCorrect:
		return domain.PhaseFeedbackCorrect
	case s.Feedback != nil:
		return domain.PhaseFeedbackIncorrect
	default:
		return domain.PhasePrompting
	}
}

// Expected returns the identity currently being prompted, if any.
func (s RoundState) Expected() (int, bool) {
	if s.Order == nil || s.Finished || s.Cursor >= len(s.Order) {
		return 0, false
	}
	return s.Order[s.Cursor], true
}

func (s RoundState) clone() RoundState {
	out := s
	out.Solved = append([]int(nil), s.Solved...)
	return out
}

// Judge applies a click. Clicks outside the prompting phase are ignored;
// otherwise the caller must schedule exactly one Settle for the returned round.
func Judge(s RoundState, clickedID int, texts domain.Texts) (RoundState, Outcome) {
	if s.Phase() != domain.PhasePrompting {
		return s, OutcomeIgnored
	}
	expected, _ := s.Expected()

	next := s.clone()
	if clickedID == expected {
		next.Solved = append(next.Solved, clickedID)
		next.Feedback = &domain.Feedback{Kind: domain.FeedbackCorrect, Message: texts.Correct}
		return next, OutcomeCorrect
	}
	next.Mistakes++
	next.Feedback = &domain.Feedback{Kind: domain.FeedbackIncorrect, Message: texts.Incorrect}
	return next, OutcomeIncorrect
}

// Settle ends a feedback phase. It reports false, leaving s untouched, when
// the callback belongs to another round or nothing is pending.
func Settle(s RoundState, round uint64, texts domain.Texts) (RoundState, bool) {
	if s.Round != round || s.Feedback == nil || s.Finished {
		return s, false
	}
	next := s.clone()
	if next.Feedback.Kind == domain.FeedbackCorrect {
		if next.Cursor+1 >= len(next.Order) {
			next.Finished = true
			summary := Summarize(next.Mistakes, texts)
			next.Summary = &summary
		} else {
			next.Cursor++
		}
	}
	next.Feedback = nil
	return next, true
}
