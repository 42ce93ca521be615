package app

import "hotspot-quiz-service/internal/domain"

// Project turns a round into the snapshot presentation layers render.
func Project(s RoundState, catalog domain.Catalog) domain.View {
	view := domain.View{
		Phase:     s.Phase(),
		SolvedIDs: append([]int{}, s.Solved...),
		Finished:  s.Finished,
		Mistakes:  s.Mistakes,
		Total:     len(catalog.Items),
	}
	if id, ok := s.Expected(); ok {
		if item, found := catalog.Item(id); found {
			view.CurrentItem = &item
		}
	}
	if s.Feedback != nil {
		fb := *s.Feedback
		view.Feedback = &fb
	}
	if s.Finished && s.Summary != nil {
		summary := *s.Summary
		view.Summary = &summary
	}
	return view
}
