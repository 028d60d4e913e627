package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jon4hz/familytravel/internal/api/models"
	"github.com/jon4hz/familytravel/internal/database"
	dbmock "github.com/jon4hz/familytravel/internal/database/mock"
	"github.com/jon4hz/familytravel/internal/session"
	"github.com/jon4hz/familytravel/internal/tracker"
	"github.com/stretchr/testify/suite"
)

type HandlerTestSuite struct {
	suite.Suite
	db     *dbmock.MockDB
	state  *session.GlobalState
	router *gin.Engine
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	s.db = dbmock.NewMockDB()
	s.Require().NoError(s.db.CreateCountries(ctx, []database.Country{
		{Code: "FR", Name: "France"},
		{Code: "DE", Name: "Germany"},
		{Code: "US", Name: "United States"},
		{Code: "GB", Name: "United Kingdom"},
	}))
	_, err := s.db.CreateUser(ctx, "Angela", "teal")
	s.Require().NoError(err)
	_, err = s.db.CreateUser(ctx, "Jack", "powderblue")
	s.Require().NoError(err)

	s.state = session.NewGlobalState(1)
	t := tracker.New(s.db, tracker.NewResolver(s.db, nil), session.NewRoster(nil))
	h := New(s.db, t, s.state)

	s.router = gin.New()
	s.router.GET("/", h.Home)
	s.router.POST("/add", h.AddCountry)
	s.router.POST("/user", h.SelectUser)
	s.router.POST("/new", h.NewUser)
	s.router.GET("/healthz", h.Health)
}

func (s *HandlerTestSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) assertRedirectHome(w *httptest.ResponseRecorder) {
	s.Equal(http.StatusFound, w.Code)
	s.Equal("/", w.Header().Get("Location"))
}

func (s *HandlerTestSuite) TestHome_Empty() {
	w := s.get("/")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	s.Contains(body, "Total Countries: 0")
	s.Contains(body, "Angela")
	s.Contains(body, "Jack")
	s.Contains(body, `value="1" class="tab active"`)
	s.Contains(body, "--user-color: teal")
}

func (s *HandlerTestSuite) TestAddCountry_ThenHome() {
	w := s.post("/add", url.Values{"country": {"France"}})
	s.assertRedirectHome(w)

	w = s.get("/")
	s.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, "Total Countries: 1")
	s.Contains(body, `title="FR"`)
}

func (s *HandlerTestSuite) TestAddCountry_ByCode() {
	w := s.post("/add", url.Values{"country": {"de"}})
	s.assertRedirectHome(w)

	codes, err := s.db.GetVisitedCountryCodes(context.Background(), 1)
	s.Require().NoError(err)
	s.Equal([]string{"DE"}, codes)
}

func (s *HandlerTestSuite) TestAddCountry_AmbiguousNamePrefersShortest() {
	w := s.post("/add", url.Values{"country": {"united"}})
	s.assertRedirectHome(w)

	codes, err := s.db.GetVisitedCountryCodes(context.Background(), 1)
	s.Require().NoError(err)
	s.Equal([]string{"US"}, codes)
}

func (s *HandlerTestSuite) TestAddCountry_Empty() {
	w := s.post("/add", url.Values{"country": {"   "}})
	s.assertRedirectHome(w)

	codes, err := s.db.GetVisitedCountryCodes(context.Background(), 1)
	s.Require().NoError(err)
	s.Empty(codes)
}

func (s *HandlerTestSuite) TestAddCountry_Unknown() {
	w := s.post("/add", url.Values{"country": {"Atlantis"}})

	s.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, models.ErrorCountryNotFound)
	s.Contains(body, "Total Countries: 0")
}

func (s *HandlerTestSuite) TestAddCountry_Duplicate() {
	s.assertRedirectHome(s.post("/add", url.Values{"country": {"France"}}))

	w := s.post("/add", url.Values{"country": {"fr"}})
	s.Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, models.ErrorCountryExists)
	s.Contains(body, "Total Countries: 1")
}

func (s *HandlerTestSuite) TestAddCountry_StoreError() {
	s.db.AddVisitedCountryError = errors.New("connection refused")

	w := s.post("/add", url.Values{"country": {"France"}})
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("Internal Server Error", w.Body.String())
}

func (s *HandlerTestSuite) TestHome_StoreError() {
	s.db.GetVisitedCountryCodesError = errors.New("connection refused")

	w := s.get("/")
	s.Equal(http.StatusInternalServerError, w.Code)
}

func (s *HandlerTestSuite) TestSelectUser_Switch() {
	s.assertRedirectHome(s.post("/add", url.Values{"country": {"France"}}))

	w := s.post("/user", url.Values{"user": {"2"}})
	s.assertRedirectHome(w)
	s.Equal(int64(2), s.state.ActiveUserID(nil))

	w = s.get("/")
	body := w.Body.String()
	s.Contains(body, "Total Countries: 0")
	s.Contains(body, `value="2" class="tab active"`)
	s.Contains(body, "--user-color: powderblue")
}

func (s *HandlerTestSuite) TestSelectUser_AddNewShowsForm() {
	w := s.post("/user", url.Values{"add": {"new"}})

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `action="/new"`)
	s.Equal(int64(1), s.state.ActiveUserID(nil), "active user must not change")
}

func (s *HandlerTestSuite) TestSelectUser_InvalidID() {
	w := s.post("/user", url.Values{"user": {"abc"}})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(int64(1), s.state.ActiveUserID(nil))
}

func (s *HandlerTestSuite) TestNewUser() {
	w := s.post("/new", url.Values{"name": {"Sam"}, "color": {"red"}})
	s.assertRedirectHome(w)
	s.Equal(int64(3), s.state.ActiveUserID(nil))

	w = s.get("/")
	body := w.Body.String()
	s.Contains(body, "Sam")
	s.Contains(body, `value="3" class="tab active"`)
	s.Contains(body, "--user-color: red")
	s.Contains(body, "Total Countries: 0")
}

func (s *HandlerTestSuite) TestNewUser_StoreError() {
	s.db.CreateUserError = errors.New("disk full")

	w := s.post("/new", url.Values{"name": {"Sam"}, "color": {"red"}})
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal(int64(1), s.state.ActiveUserID(nil))
}

func (s *HandlerTestSuite) TestHome_UnknownActiveUserFallsBackToFirst() {
	s.Require().NoError(s.state.SetActiveUserID(nil, 42))

	w := s.get("/")
	s.assertRedirectHome(w)
	s.Equal(int64(1), s.state.ActiveUserID(nil))
}

func (s *HandlerTestSuite) TestHome_NoUsersShowsNewUserForm() {
	s.db.Reset()

	w := s.get("/")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `action="/new"`)
}

func (s *HandlerTestSuite) TestHealth() {
	w := s.get("/healthz")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())

	s.db.PingError = errors.New("down")
	w = s.get("/healthz")
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
