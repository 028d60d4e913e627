package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	ctx    context.Context
	client *Client
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, err := New(":memory:")
	s.Require().NoError(err)
	s.client = client

	s.Require().NoError(s.client.CreateCountries(s.ctx, []Country{
		{Code: "US", Name: "United States"},
		{Code: "GB", Name: "United Kingdom"},
		{Code: "AE", Name: "United Arab Emirates"},
		{Code: "FR", Name: "France"},
		{Code: "NE", Name: "Niger"},
		{Code: "NG", Name: "Nigeria"},
		{Code: "XP", Name: "100% Island"},
	}))
}

func (s *ClientTestSuite) TearDownTest() {
	s.Require().NoError(s.client.Close())
}

func (s *ClientTestSuite) TestPing() {
	s.NoError(s.client.Ping(s.ctx))
}

func (s *ClientTestSuite) TestCreateAndGetUser() {
	user, err := s.client.CreateUser(s.ctx, "Angela", "teal")
	s.Require().NoError(err)
	s.Equal(int64(1), user.ID)

	got, err := s.client.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("Angela", got.Name)
	s.Equal("teal", got.Color)

	_, err = s.client.GetUserByID(s.ctx, 42)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ClientTestSuite) TestGetAllUsersOrderedByID() {
	for _, name := range []string{"Angela", "Jack", "Sam"} {
		_, err := s.client.CreateUser(s.ctx, name, "red")
		s.Require().NoError(err)
	}

	users, err := s.client.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal("Angela", users[0].Name)
	s.Equal("Sam", users[2].Name)

	count, err := s.client.CountUsers(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}

func (s *ClientTestSuite) TestGetCountryByCode() {
	country, err := s.client.GetCountryByCode(s.ctx, "fr")
	s.Require().NoError(err)
	s.Equal("FR", country.Code)
	s.Equal("France", country.Name)

	_, err = s.client.GetCountryByCode(s.ctx, "XX")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ClientTestSuite) TestFindCountriesByName() {
	countries, err := s.client.FindCountriesByName(s.ctx, "United")
	s.Require().NoError(err)
	s.Require().Len(countries, 3)
	s.Equal("US", countries[0].Code)
	s.Equal("GB", countries[1].Code)
	s.Equal("AE", countries[2].Code)

	countries, err = s.client.FindCountriesByName(s.ctx, "nige")
	s.Require().NoError(err)
	s.Require().Len(countries, 2)
	s.Equal("NE", countries[0].Code)

	countries, err = s.client.FindCountriesByName(s.ctx, "Atlantis")
	s.Require().NoError(err)
	s.Empty(countries)
}

func (s *ClientTestSuite) TestFindCountriesByName_WildcardsAreLiteral() {
	countries, err := s.client.FindCountriesByName(s.ctx, "100%")
	s.Require().NoError(err)
	s.Require().Len(countries, 1)
	s.Equal("XP", countries[0].Code)

	countries, err = s.client.FindCountriesByName(s.ctx, "Fr_nce")
	s.Require().NoError(err)
	s.Empty(countries)
}

func (s *ClientTestSuite) TestCreateCountries_SkipsExisting() {
	s.Require().NoError(s.client.CreateCountries(s.ctx, []Country{
		{Code: "FR", Name: "French Republic"},
		{Code: "DE", Name: "Germany"},
	}))

	count, err := s.client.CountCountries(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(8), count)

	country, err := s.client.GetCountryByCode(s.ctx, "FR")
	s.Require().NoError(err)
	s.Equal("France", country.Name)
}

func (s *ClientTestSuite) TestVisitedCountries() {
	angela, err := s.client.CreateUser(s.ctx, "Angela", "teal")
	s.Require().NoError(err)
	jack, err := s.client.CreateUser(s.ctx, "Jack", "powderblue")
	s.Require().NoError(err)

	codes, err := s.client.GetVisitedCountryCodes(s.ctx, angela.ID)
	s.Require().NoError(err)
	s.NotNil(codes)
	s.Empty(codes)

	s.Require().NoError(s.client.AddVisitedCountry(s.ctx, angela.ID, "FR"))
	s.Require().NoError(s.client.AddVisitedCountry(s.ctx, angela.ID, "US"))
	s.Require().NoError(s.client.AddVisitedCountry(s.ctx, jack.ID, "FR"))

	err = s.client.AddVisitedCountry(s.ctx, angela.ID, "FR")
	s.ErrorIs(err, ErrDuplicate)

	codes, err = s.client.GetVisitedCountryCodes(s.ctx, angela.ID)
	s.Require().NoError(err)
	s.Equal([]string{"FR", "US"}, codes)

	codes, err = s.client.GetVisitedCountryCodes(s.ctx, jack.ID)
	s.Require().NoError(err)
	s.Equal([]string{"FR"}, codes)
}

func (s *ClientTestSuite) TestGetStats() {
	stats, err := s.client.GetStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(7), stats.Countries)
	s.Zero(stats.Visits)
	s.Nil(stats.TopUser)

	angela, err := s.client.CreateUser(s.ctx, "Angela", "teal")
	s.Require().NoError(err)
	jack, err := s.client.CreateUser(s.ctx, "Jack", "powderblue")
	s.Require().NoError(err)
	s.Require().NoError(s.client.AddVisitedCountry(s.ctx, angela.ID, "FR"))
	s.Require().NoError(s.client.AddVisitedCountry(s.ctx, jack.ID, "FR"))
	s.Require().NoError(s.client.AddVisitedCountry(s.ctx, jack.ID, "GB"))

	stats, err = s.client.GetStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.Users)
	s.Equal(int64(3), stats.Visits)
	s.Require().NotNil(stats.TopUser)
	s.Equal("Jack", stats.TopUser.Name)
	s.Equal(int64(2), stats.TopUserVisits)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"France":  "%france%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for input, expected := range cases {
		if got := ContainsPattern(input); got != expected {
			t.Errorf("ContainsPattern(%q) = %q, want %q", input, got, expected)
		}
	}
}
