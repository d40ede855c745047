package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fitnesshub/web/internal/types"
)

// SubmitFeedback posts a feedback comment
func (c *Client) SubmitFeedback(ctx context.Context, in types.FeedbackInput) (Ack, error) {
	var ack Ack
	err := c.do(ctx, http.MethodPost, "/feedback", nil, in, &ack)
	return ack, err
}

// Feedback lists feedback, optionally narrowed to a trainer or a type
func (c *Client) Feedback(ctx context.Context, filter types.FeedbackFilter) ([]types.Feedback, error) {
	query := url.Values{}
	if filter.TrainerID != "" {
		query.Set("trainerId", filter.TrainerID)
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/feedback", query, nil, &raw); err != nil {
		return nil, err
	}
	items := []types.Feedback{}
	if err := unwrap(raw, "data", &items); err != nil {
		return nil, fmt.Errorf("decode GET /feedback: %w", err)
	}
	return items, nil
}
