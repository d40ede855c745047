package types

import "time"

// Feedback types accepted by the backend
const (
	FeedbackApp     = "app"
	FeedbackClass   = "class"
	FeedbackTrainer = "trainer"
)

// Review is a member's rating of a trainer
type Review struct {
	ID        string    `json:"_id"`
	User      Ref[User] `json:"user"`
	Trainer   string    `json:"trainer,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthorID returns the id of the reviewing user
func (r *Review) AuthorID() string {
	return r.User.ID
}

// Feedback is a free-form comment about the app, a class or a trainer
type Feedback struct {
	ID        string     `json:"_id"`
	User      Ref[User]  `json:"user"`
	Comment   string     `json:"comment"`
	Type      string     `json:"type"`
	Trainer   Ref[User]  `json:"trainer"`
	Class     Ref[Class] `json:"class"`
	CreatedAt time.Time  `json:"createdAt"`
}

// FeedbackFilter narrows GET /feedback
type FeedbackFilter struct {
	TrainerID string
	Type      string
}
