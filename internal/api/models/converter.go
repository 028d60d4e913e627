package models

import (
	"github.com/jon4hz/familytravel/internal/database"
	"github.com/samber/lo"
)

// ToUserTabs converts the users to tabs, marking the active one.
func ToUserTabs(users []database.User, activeID int64) []UserTab {
	return lo.Map(users, func(u database.User, _ int) UserTab {
		return UserTab{
			ID:     u.ID,
			Name:   u.Name,
			Color:  u.Color,
			Active: u.ID == activeID,
		}
	})
}

// NewHomeView builds the home view for the current user.
func NewHomeView(countries []string, users []database.User, current *database.User, errMsg string) HomeView {
	if countries == nil {
		countries = []string{}
	}
	view := HomeView{
		Countries: countries,
		Total:     len(countries),
		Error:     errMsg,
	}
	var activeID int64
	if current != nil {
		activeID = current.ID
		view.Color = current.Color
	}
	view.Users = ToUserTabs(users, activeID)
	return view
}
