package pages

import "github.com/fitnesshub/web/internal/types"

type dashboardCard struct {
	title       string
	description string
	href        string
	action      string
	disabled    bool
	soon        bool
}

func dashboardCards(u *types.User) []dashboardCard {
	cards := []dashboardCard{
		{title: "Browse Classes", description: "Explore upcoming classes and book your spot.", href: "/classes", action: "View Classes"},
		{title: "Trainers", description: "Meet our certified trainers and read their reviews.", href: "/trainers", action: "View Trainers"},
	}
	if u.IsTrainer() {
		cards = append(cards,
			dashboardCard{title: "Add New Class", description: "Schedule a new class for members.", href: "/add-class", action: "Add Class"},
			dashboardCard{title: "My Classes", description: "Edit or remove the classes you teach.", href: "/my-classes", action: "Manage Classes"},
		)
	} else {
		cards = append(cards,
			dashboardCard{title: "Add New Class", description: "Only trainers can add classes.", action: "Add Class", disabled: true},
			dashboardCard{title: "My Bookings", description: "Review, cancel or reschedule your bookings.", href: "/my-bookings", action: "View Bookings"},
		)
	}
	return append(cards,
		dashboardCard{title: "Feedback", description: "Tell us how we are doing.", href: "/feedback", action: "Give Feedback"},
		dashboardCard{title: "Recommendations", description: "Personalised class suggestions.", soon: true},
	)
}

func greeting(u *types.User) string {
	if u == nil {
		return "Welcome!"
	}
	return "Welcome, " + u.Name + "!"
}
