package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/fitnesshub/web/internal/types"
)

// Trainers lists every trainer profile
func (c *Client) Trainers(ctx context.Context) ([]types.Trainer, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/trainers", nil, nil, &raw); err != nil {
		return nil, err
	}
	trainers := []types.Trainer{}
	if err := unwrap(raw, "data", &trainers); err != nil {
		return nil, fmt.Errorf("decode GET /trainers: %w", err)
	}
	return trainers, nil
}

// Trainer fetches one trainer profile
func (c *Client) Trainer(ctx context.Context, id string) (*types.Trainer, error) {
	path := "/trainers/" + url.PathEscape(id)
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	var trainer types.Trainer
	if err := unwrap(raw, "data", &trainer); err != nil {
		return nil, fmt.Errorf("decode GET %s: %w", path, err)
	}
	if trainer.ID == "" {
		return nil, fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	return &trainer, nil
}

// UpdateProfile saves the signed-in trainer's text profile
func (c *Client) UpdateProfile(ctx context.Context, update types.ProfileUpdate) (Ack, error) {
	var ack Ack
	err := c.do(ctx, http.MethodPut, "/trainers/profile", nil, update, &ack)
	return ack, err
}

// UploadMedia streams the profile picture and/or intro video as multipart form data
func (c *Client) UploadMedia(ctx context.Context, upload types.MediaUpload) (Ack, error) {
	const path = "/trainers/profile/upload"

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeMediaParts(mw, upload)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), pr)
	if err != nil {
		pr.Close()
		return Ack{}, fmt.Errorf("build POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var ack Ack
	err = c.send(req, path, &ack)
	// Unblock the writer goroutine if the request ended before the body was drained
	pr.Close()
	return ack, err
}

func writeMediaParts(mw *multipart.Writer, upload types.MediaUpload) error {
	parts := []struct {
		field string
		file  *types.UploadFile
	}{
		{"profilePicture", upload.ProfilePicture},
		{"videoIntro", upload.VideoIntro},
	}
	for _, p := range parts {
		if p.file == nil {
			continue
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, escapeQuotes(p.file.Filename)))
		contentType := p.file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		w, err := mw.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create %s part: %w", p.field, err)
		}
		if _, err := io.Copy(w, p.file.Body); err != nil {
			return fmt.Errorf("copy %s: %w", p.field, err)
		}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// AddReview posts a rating for a trainer
func (c *Client) AddReview(ctx context.Context, trainerID string, in types.ReviewInput) (Ack, error) {
	var ack Ack
	err := c.do(ctx, http.MethodPost, "/trainers/"+url.PathEscape(trainerID)+"/reviews", nil, in, &ack)
	return ack, err
}

// Reviews lists the reviews of a trainer
func (c *Client) Reviews(ctx context.Context, trainerID string) ([]types.Review, error) {
	path := "/trainers/" + url.PathEscape(trainerID) + "/reviews"
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	reviews := []types.Review{}
	if err := unwrap(raw, "data", &reviews); err != nil {
		return nil, fmt.Errorf("decode GET %s: %w", path, err)
	}
	return reviews, nil
}
