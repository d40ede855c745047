package pages

import (
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/helpers"
)

// TrainersView is the public trainer directory
type TrainersView struct {
	Trainers   []types.Trainer
	LoadFailed bool
}

// TrainerProfileView is a trainer's public page
type TrainerProfileView struct {
	Trainer       types.Trainer
	Reviews       []types.Review
	ReviewsFailed bool
	// CanReview is set for members who have not reviewed this trainer yet
	CanReview bool
	Form      types.ReviewInput
}

func initial(name string) string {
	if r := []rune(name); len(r) > 0 {
		return string(r[0])
	}
	return "?"
}

func ratingSummary(avg float64, count int) string {
	return helpers.FormatRating(avg) + " (" + helpers.FormatInt(count) + " reviews)"
}

func reviewAuthor(r types.Review) string {
	if r.User.Doc != nil && r.User.Doc.Name != "" {
		return r.User.Doc.Name
	}
	return "Member"
}
