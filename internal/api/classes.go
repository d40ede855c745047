package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fitnesshub/web/internal/types"
)

// ClassResult is the answer to a class write
type ClassResult struct {
	Ack
	Class *types.Class `json:"class"`
}

// Classes lists every scheduled class
func (c *Client) Classes(ctx context.Context) ([]types.Class, error) {
	return c.classList(ctx, "/classes")
}

// TrainerClasses lists the classes run by one trainer
func (c *Client) TrainerClasses(ctx context.Context, trainerID string) ([]types.Class, error) {
	return c.classList(ctx, "/classes/trainer/"+url.PathEscape(trainerID))
}

func (c *Client) classList(ctx context.Context, path string) ([]types.Class, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	classes := []types.Class{}
	if err := unwrap(raw, "data", &classes); err != nil {
		return nil, fmt.Errorf("decode GET %s: %w", path, err)
	}
	return classes, nil
}

// CreateClass schedules a new class for the signed-in trainer
func (c *Client) CreateClass(ctx context.Context, in types.ClassInput) (*ClassResult, error) {
	var result ClassResult
	if err := c.do(ctx, http.MethodPost, "/classes", nil, in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateClass edits one of the trainer's classes
func (c *Client) UpdateClass(ctx context.Context, id string, in types.ClassInput) (*ClassResult, error) {
	var result ClassResult
	if err := c.do(ctx, http.MethodPut, "/classes/"+url.PathEscape(id), nil, in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteClass removes one of the trainer's classes
func (c *Client) DeleteClass(ctx context.Context, id string) (Ack, error) {
	var ack Ack
	err := c.do(ctx, http.MethodDelete, "/classes/"+url.PathEscape(id), nil, nil, &ack)
	return ack, err
}
