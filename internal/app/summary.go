package app

import "hotspot-quiz-service/internal/domain"

// Summarize picks the end-of-round narrative from the mistake count.
func Summarize(mistakes int, texts domain.Texts) domain.Summary {
	switch {
	case mistakes <= 0:
		return domain.Summary{Title: texts.PerfectTitle, Comment: texts.PerfectComment}
	case mistakes <= 3:
		return domain.Summary{Title: texts.WellDoneTitle, Comment: texts.WellDoneComment}
	default:
		return domain.Summary{Title: texts.EffortTitle, Comment: texts.EffortComment}
	}
}
