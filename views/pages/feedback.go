package pages

import "github.com/fitnesshub/web/internal/types"

// FeedbackHistoryView lists feedback returned by the backend
type FeedbackHistoryView struct {
	Items      []types.Feedback
	LoadFailed bool
}
