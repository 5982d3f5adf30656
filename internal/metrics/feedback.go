package metrics

// Feedback classifies a finished attempt for the results screen.
type Feedback string

const (
	FeedbackExcellent      Feedback = "excellent"
	FeedbackGreat          Feedback = "great"
	FeedbackGood           Feedback = "good"
	FeedbackKeepPracticing Feedback = "keepPracticing"
	FeedbackNeedsWork      Feedback = "needsWork"
)

type feedbackTier struct {
	level       Feedback
	minAccuracy float64
	minWPM      int
}

// Evaluated top-down; the first tier whose thresholds are met wins.
var feedbackLadder = []feedbackTier{
	{level: FeedbackExcellent, minAccuracy: 98, minWPM: 40},
	{level: FeedbackGreat, minAccuracy: 95, minWPM: 30},
	{level: FeedbackGood, minAccuracy: 90, minWPM: 20},
	{level: FeedbackKeepPracticing, minAccuracy: 80, minWPM: 0},
}

// PerformanceFeedback returns the feedback tier for accuracy and WPM.
func PerformanceFeedback(accuracy float64, wpm int) Feedback {
	for _, tier := range feedbackLadder {
		if accuracy >= tier.minAccuracy && wpm >= tier.minWPM {
			return tier.level
		}
	}
	return FeedbackNeedsWork
}

// Message returns a short English line for the results screen.
func (f Feedback) Message() string {
	switch f {
	case FeedbackExcellent:
		return "Excellent! Fast and precise."
	case FeedbackGreat:
		return "Great job, keep that rhythm."
	case FeedbackGood:
		return "Good work."
	case FeedbackKeepPracticing:
		return "Keep practicing, accuracy first."
	default:
		return "Needs work: slow down and aim for clean keystrokes."
	}
}
