package pages

import (
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/helpers"
)

// field describes one labelled form control
type field struct {
	Label    string
	Name     string
	Type     string
	Value    string
	Required bool
	Attrs    templ.Attributes
}

type option struct {
	Value string
	Label string
}

func lengthLimit(maxLength int) templ.Attributes {
	if maxLength <= 0 {
		return templ.Attributes{}
	}
	return templ.Attributes{"maxlength": helpers.FormatInt(maxLength)}
}

func charCount(s string) string {
	return helpers.FormatInt(utf8.RuneCountInString(s))
}

func cardClass(extra string) string {
	return helpers.MergeClasses(helpers.CardBase, extra)
}

func roleOptions() []option {
	opts := make([]option, 0, len(types.Roles))
	for _, r := range types.Roles {
		opts = append(opts, option{Value: string(r), Label: r.Label()})
	}
	return opts
}

func selectedRole(form types.Registration) string {
	if form.Role == "" {
		return string(types.RoleUser)
	}
	return string(form.Role)
}

func ratingOptions() []option {
	opts := []option{{Value: "", Label: "Select a rating"}}
	for i := 5; i >= 1; i-- {
		opts = append(opts, option{Value: helpers.FormatInt(i), Label: helpers.Stars(float64(i))})
	}
	return opts
}

func selectedRating(in types.ReviewInput) string {
	if in.Rating > 0 {
		return helpers.FormatInt(in.Rating)
	}
	return ""
}
