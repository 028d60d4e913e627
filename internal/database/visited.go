package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

func (c *Client) AddVisitedCountry(ctx context.Context, userID int64, countryCode string) error {
	visit := VisitedCountry{
		CountryCode: countryCode,
		UserID:      userID,
	}
	if err := c.db.WithContext(ctx).Create(&visit).Error; err != nil {
		err = translateError(err)
		if !errors.Is(err, ErrDuplicate) {
			log.Error("failed to add visited country", "user", userID, "code", countryCode, "error", err)
		}
		return err
	}
	return nil
}

// GetVisitedCountryCodes returns the country codes visited by the user in insertion order.
func (c *Client) GetVisitedCountryCodes(ctx context.Context, userID int64) ([]string, error) {
	codes := []string{}
	err := c.db.WithContext(ctx).
		Model(&VisitedCountry{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("country_code", &codes).Error
	if err != nil {
		log.Error("failed to get visited countries", "user", userID, "error", err)
		return nil, translateError(err)
	}
	return codes, nil
}
