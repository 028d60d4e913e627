// Package seed fills an empty store with the country reference data and the default household.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/familytravel/internal/database"
)

//go:embed countries.csv
var countriesCSV []byte

// DefaultUsers are created when the users table is empty.
var DefaultUsers = []database.User{
	{Name: "Angela", Color: "teal"},
	{Name: "Jack", Color: "powderblue"},
}

// Countries parses the embedded ISO 3166-1 alpha-2 country list.
func Countries() ([]database.Country, error) {
	r := csv.NewReader(bytes.NewReader(countriesCSV))
	r.FieldsPerRecord = 2

	// header
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("failed to read country header: %w", err)
	}

	var countries []database.Country
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read country record: %w", err)
		}
		countries = append(countries, database.Country{
			Code: strings.ToUpper(strings.TrimSpace(record[0])),
			Name: strings.TrimSpace(record[1]),
		})
	}
	return countries, nil
}

// Run seeds the countries and the default users if their tables are empty.
func Run(ctx context.Context, db database.DB) error {
	countryCount, err := db.CountCountries(ctx)
	if err != nil {
		return fmt.Errorf("failed to count countries: %w", err)
	}
	if countryCount == 0 {
		countries, err := Countries()
		if err != nil {
			return err
		}
		if err := db.CreateCountries(ctx, countries); err != nil {
			return fmt.Errorf("failed to seed countries: %w", err)
		}
		log.Info("seeded country reference data", "count", len(countries))
	}

	userCount, err := db.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount == 0 {
		for _, u := range DefaultUsers {
			if _, err := db.CreateUser(ctx, u.Name, u.Color); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Name, err)
			}
		}
		log.Info("seeded default users", "count", len(DefaultUsers))
	}

	return nil
}
