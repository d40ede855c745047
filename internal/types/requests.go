package types

import (
	"io"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxFeedbackLength = 500
	MaxReviewLength   = 500
	MaxBioLength      = 1000
)

// ValidationError is a client-side form failure; Message is shown to the user as is
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Credentials is the login form
type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (c *Credentials) Validate() error {
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" || c.Password == "" {
		return invalid("email", "Please enter your email and password.")
	}
	return nil
}

// Registration is the sign-up form
type Registration struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     Role   `json:"role" form:"role"`
}

func (r *Registration) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if r.Name == "" {
		return invalid("name", "Please enter your full name.")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return invalid("email", "Please enter a valid email address.")
	}
	if r.Password == "" {
		return invalid("password", "Please choose a password.")
	}
	if r.Role == "" {
		r.Role = RoleUser
	}
	if _, err := ParseRole(string(r.Role)); err != nil {
		return invalid("role", "Please choose a valid account type.")
	}
	return nil
}

// AuthResult is the body returned by login and register
type AuthResult struct {
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}

// ClassInput is the add/edit class form
type ClassInput struct {
	Title       string  `json:"title" form:"title"`
	Description string  `json:"description" form:"description"`
	Type        string  `json:"type" form:"type"`
	Date        string  `json:"date" form:"date"`
	StartTime   string  `json:"startTime" form:"startTime"`
	EndTime     string  `json:"endTime" form:"endTime"`
	Duration    int     `json:"duration" form:"duration"`
	Price       float64 `json:"price" form:"price"`
	Capacity    int     `json:"capacity" form:"capacity"`
	Trainer     string  `json:"trainer,omitempty" form:"-"`
}

func (in *ClassInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Title == "":
		return invalid("title", "Please enter a class title.")
	case in.Description == "":
		return invalid("description", "Please enter a class description.")
	case !slices.Contains(ClassTypes, in.Type):
		return invalid("type", "Please select a class type.")
	case in.Date == "" || in.StartTime == "" || in.EndTime == "":
		return invalid("date", "Please provide the class date, start time and end time.")
	case in.Duration <= 0:
		return invalid("duration", "Duration must be a positive number of minutes.")
	case in.Capacity <= 0:
		return invalid("capacity", "Capacity must be at least 1.")
	case in.Price < 0:
		return invalid("price", "Price cannot be negative.")
	}
	c := Class{Date: in.Date, StartTime: in.StartTime}
	if _, err := c.StartsAt(time.UTC); err != nil {
		return invalid("date", "Invalid class date or time format.")
	}
	if _, err := time.Parse(classTimeLayout, in.EndTime); err != nil {
		return invalid("endTime", "Invalid class date or time format.")
	}
	return nil
}

// BookingRequest is the body of POST /bookings
type BookingRequest struct {
	Class       string    `json:"class"`
	BookingDate time.Time `json:"bookingDate"`
	Trainer     string    `json:"trainer,omitempty"`
}

// RescheduleRequest is the body of PUT /bookings/:id
type RescheduleRequest struct {
	BookingDate time.Time `json:"bookingDate"`
}

// ParseReschedule reads the YYYY-MM-DDTHH:MM value of a datetime-local input
func ParseReschedule(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, invalid("bookingDate", "Please choose a new date and time.")
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", value, loc)
	if err != nil {
		return time.Time{}, invalid("bookingDate", "Invalid date or time format. Please use YYYY-MM-DDTHH:mm")
	}
	return t, nil
}

// ProfileUpdate is the body of PUT /trainers/profile
type ProfileUpdate struct {
	Qualifications  []string `json:"qualifications"`
	Expertise       []string `json:"expertise"`
	Specializations []string `json:"specializations"`
	Bio             string   `json:"bio"`
}

// ProfileForm is the comma separated edit-profile form
type ProfileForm struct {
	Qualifications  string `form:"qualifications"`
	Expertise       string `form:"expertise"`
	Specializations string `form:"specializations"`
	Bio             string `form:"bio"`
}

// Update converts the form into the API payload
func (f *ProfileForm) Update() (ProfileUpdate, error) {
	if utf8.RuneCountInString(f.Bio) > MaxBioLength {
		return ProfileUpdate{}, invalid("bio", "Bio must be 1000 characters or fewer.")
	}
	return ProfileUpdate{
		Qualifications:  SplitList(f.Qualifications),
		Expertise:       SplitList(f.Expertise),
		Specializations: SplitList(f.Specializations),
		Bio:             f.Bio,
	}, nil
}

// ProfileFormFor pre-fills the edit form from a user profile
func ProfileFormFor(u *User) ProfileForm {
	if u == nil {
		return ProfileForm{}
	}
	return ProfileForm{
		Qualifications:  strings.Join(u.Qualifications, ", "),
		Expertise:       strings.Join(u.Expertise, ", "),
		Specializations: strings.Join(u.Specializations, ", "),
		Bio:             u.Bio,
	}
}

// SplitList splits a comma separated list, dropping blanks
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UploadFile is one part of the trainer media upload
type UploadFile struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// MediaUpload is the multipart body of POST /trainers/profile/upload
type MediaUpload struct {
	ProfilePicture *UploadFile
	VideoIntro     *UploadFile
}

func (m *MediaUpload) Validate() error {
	if m.ProfilePicture == nil && m.VideoIntro == nil {
		return invalid("profilePicture", "Please select a file to upload.")
	}
	return nil
}

// ReviewInput is the body of POST /trainers/:id/reviews
type ReviewInput struct {
	Rating  int    `json:"rating" form:"rating"`
	Comment string `json:"comment" form:"comment"`
}

func (in *ReviewInput) Validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return invalid("rating", "Please select a rating.")
	}
	if utf8.RuneCountInString(in.Comment) > MaxReviewLength {
		return invalid("comment", "Comments must be 500 characters or fewer.")
	}
	return nil
}

// FeedbackInput is the body of POST /feedback
type FeedbackInput struct {
	Comment string `json:"comment" form:"comment"`
	Type    string `json:"type" form:"type"`
	Trainer string `json:"trainer,omitempty" form:"trainer"`
	Class   string `json:"class,omitempty" form:"class"`
}

func (in *FeedbackInput) Validate() error {
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Comment == "" {
		return invalid("comment", "Please enter your feedback.")
	}
	if utf8.RuneCountInString(in.Comment) > MaxFeedbackLength {
		return invalid("comment", "Feedback must be 500 characters or fewer.")
	}
	if in.Type == "" {
		in.Type = FeedbackApp
	}
	if !slices.Contains([]string{FeedbackApp, FeedbackClass, FeedbackTrainer}, in.Type) {
		return invalid("type", "Unknown feedback type.")
	}
	return nil
}

// PaymentIntent is the result of POST /payments/create-payment-intent
type PaymentIntent struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}
