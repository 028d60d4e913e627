package database

// User is a member of the household.
type User struct {
	ID    int64  `gorm:"primaryKey"`
	Name  string `gorm:"not null"`
	Color string `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// Country is read-only reference data.
type Country struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"column:country_code;size:3;uniqueIndex;not null"`
	Name string `gorm:"column:country_name;not null"`
}

func (Country) TableName() string { return "countries" }

// VisitedCountry links a user to a country they have been to.
// The pair (country_code, user_id) is unique.
type VisitedCountry struct {
	ID          int64  `gorm:"primaryKey"`
	CountryCode string `gorm:"column:country_code;size:3;not null;uniqueIndex:idx_user_visited_country"`
	UserID      int64  `gorm:"column:user_id;not null;uniqueIndex:idx_user_visited_country"`
}

func (VisitedCountry) TableName() string { return "user_visited_countries" }
