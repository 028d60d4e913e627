package models

// Messages shown inline on the home view.
const (
	ErrorCountryNotFound = "This country does not exist, try again."
	ErrorCountryExists   = "This country has already been added, try again."
)

// UserTab is a user as shown in the user switcher.
type UserTab struct {
	ID     int64
	Name   string
	Color  string
	Active bool
}

// HomeView is the data rendered by the home page.
type HomeView struct {
	// Countries holds the codes of the countries visited by the active user.
	Countries []string
	// Total is the number of visited countries.
	Total int
	// Users lists every household member.
	Users []UserTab
	// Color is the display color of the active user.
	Color string
	// Error is an optional inline message.
	Error string
}
