package layout

import (
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/flash"
	"github.com/fitnesshub/web/views/helpers"
)

// Page is what every full page needs besides its body
type Page struct {
	Meta   PageMeta
	Auth   *auth.Context
	Notice *flash.Notification
	Path   string
}

type NavLink struct {
	Label string
	Href  string
}

// NavLinks returns the header links visible to the session
func NavLinks(a *auth.Context) []NavLink {
	links := []NavLink{{"Home", "/"}, {"Trainers", "/trainers"}}
	if a == nil || !a.IsAuthenticated {
		return links
	}
	links = append(links,
		NavLink{"Dashboard", "/dashboard"},
		NavLink{"Classes", "/classes"},
	)
	if a.IsTrainer() {
		links = append(links,
			NavLink{"My Classes", "/my-classes"},
			NavLink{"Add Class", "/add-class"},
			NavLink{"Edit Profile", "/trainer/edit-profile"},
		)
	} else {
		links = append(links, NavLink{"My Bookings", "/my-bookings"})
	}
	return append(links, NavLink{"Feedback", "/feedback"})
}

func signedIn(a *auth.Context) bool {
	return a != nil && a.IsAuthenticated && a.User != nil
}

func navClass(active bool) string {
	if active {
		return helpers.MergeClasses("text-gray-600 hover:text-blue-600", "font-semibold text-blue-600")
	}
	return "text-gray-600 hover:text-blue-600"
}

func bannerClass(n *flash.Notification) string {
	variant := "border-green-200 bg-green-50 text-green-800"
	if n.IsError {
		variant = "border-red-200 bg-red-50 text-red-800"
	}
	return helpers.MergeClasses("mx-auto mt-4 flex max-w-6xl items-center justify-between rounded-md border px-4 py-3 text-sm", variant)
}

func bannerRole(n *flash.Notification) string {
	if n.IsError {
		return "alert"
	}
	return "status"
}
