package handlers

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/pages"
	"github.com/labstack/echo/v4"
)

const (
	msgProfileUpdated = "Profile updated successfully!"
	msgProfileFailed  = "Failed to update profile."
	msgUploaded       = "Files uploaded successfully!"
	msgUploadFailed   = "Failed to upload files."

	// maxUploadMemory is how much of a multipart body is buffered before spilling to disk
	maxUploadMemory = 32 << 20
)

// ProfileHandler serves the trainer's own profile editor
type ProfileHandler struct {
	pages *Pages
}

// NewProfileHandler creates a profile handler
func NewProfileHandler(p *Pages) *ProfileHandler {
	return &ProfileHandler{pages: p}
}

// Show renders the editor pre-filled from the session's user
func (h *ProfileHandler) Show(c echo.Context) error {
	user, _ := auth.GetUser(c)
	return h.pages.Page(c, http.StatusOK, "Edit Profile", pages.EditProfile(types.ProfileFormFor(user)))
}

// Update saves the comma separated profile lists and bio
func (h *ProfileHandler) Update(c echo.Context) error {
	var form types.ProfileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	update, err := form.Update()
	if err != nil {
		showValidation(c, err)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Edit Profile", pages.EditProfile(form))
	}

	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.UpdateProfile(c.Request().Context(), update)
	if err != nil {
		failure(c, err, msgProfileFailed)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Edit Profile", pages.EditProfile(form))
	}

	h.refreshUser(c)
	notify(c, ack.Or(msgProfileUpdated), false)
	return seeOther(c, "/trainer/edit-profile")
}

// Upload relays the profile picture and intro video to the backend
func (h *ProfileHandler) Upload(c echo.Context) error {
	if err := c.Request().ParseMultipartForm(maxUploadMemory); err != nil {
		notify(c, "Please select a file to upload.", true)
		return seeOther(c, "/trainer/edit-profile")
	}
	form := c.Request().MultipartForm
	defer form.RemoveAll()

	var upload types.MediaUpload
	var files []multipart.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for field, target := range map[string]**types.UploadFile{
		"profilePicture": &upload.ProfilePicture,
		"videoIntro":     &upload.VideoIntro,
	} {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			slog.Error("failed to open uploaded file", "field", field, "error", err)
			notify(c, msgUploadFailed, true)
			return seeOther(c, "/trainer/edit-profile")
		}
		files = append(files, f)
		*target = &types.UploadFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Body:        f,
		}
	}
	if err := upload.Validate(); err != nil {
		showValidation(c, err)
		return seeOther(c, "/trainer/edit-profile")
	}

	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.UploadMedia(c.Request().Context(), upload)
	if err != nil {
		failure(c, err, msgUploadFailed)
		return seeOther(c, "/trainer/edit-profile")
	}
	h.refreshUser(c)
	notify(c, ack.Or(msgUploaded), false)
	return seeOther(c, "/trainer/edit-profile")
}

// refreshUser reloads the session user so the editor shows what was saved
func (h *ProfileHandler) refreshUser(c echo.Context) {
	entry, ok := auth.GetEntry(c)
	if !ok {
		return
	}
	if err := entry.Store.Refresh(c.Request().Context()); err != nil {
		slog.Warn("failed to refresh session user", "error", fmt.Errorf("after profile change: %w", err))
	}
}
