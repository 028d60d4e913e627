package database

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm/clause"
)

// likeEscaper escapes LIKE wildcards so user input is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a case-folded LIKE pattern matching fragment anywhere.
// The pattern must be used together with ESCAPE '\'.
func ContainsPattern(fragment string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(fragment)) + "%"
}

func (c *Client) GetCountryByCode(ctx context.Context, code string) (*Country, error) {
	var country Country
	err := c.db.WithContext(ctx).
		Where("UPPER(country_code) = ?", strings.ToUpper(code)).
		First(&country).Error
	if err != nil {
		err = translateError(err)
		if !errors.Is(err, ErrNotFound) {
			log.Error("failed to get country by code", "code", code, "error", err)
		}
		return nil, err
	}
	return &country, nil
}

func (c *Client) FindCountriesByName(ctx context.Context, fragment string) ([]Country, error) {
	var countries []Country
	err := c.db.WithContext(ctx).
		Where(`LOWER(country_name) LIKE ? ESCAPE '\'`, ContainsPattern(fragment)).
		Order("LENGTH(country_name), country_name, country_code").
		Find(&countries).Error
	if err != nil {
		log.Error("failed to find countries by name", "fragment", fragment, "error", err)
		return nil, translateError(err)
	}
	return countries, nil
}

func (c *Client) CountCountries(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Country{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (c *Client) CreateCountries(ctx context.Context, countries []Country) error {
	if len(countries) == 0 {
		return nil
	}
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "country_code"}}, DoNothing: true}).
		CreateInBatches(countries, 100).Error
	if err != nil {
		log.Error("failed to create countries", "error", err)
		return translateError(err)
	}
	return nil
}
