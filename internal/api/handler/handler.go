package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/familytravel/internal/api/models"
	"github.com/jon4hz/familytravel/internal/database"
	"github.com/jon4hz/familytravel/internal/session"
	"github.com/jon4hz/familytravel/internal/tracker"
	"github.com/jon4hz/familytravel/web/templates/pages"
)

// AddNewUser is the value of the "add" form field requesting the new user form.
const AddNewUser = "new"

type Handler struct {
	db      database.DB
	tracker *tracker.Service
	state   session.State
}

func New(db database.DB, t *tracker.Service, state session.State) *Handler {
	return &Handler{
		db:      db,
		tracker: t,
		state:   state,
	}
}

// Home renders the countries visited by the active user.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	activeID := h.state.ActiveUserID(c)

	countries, err := h.tracker.VisitedCountries(ctx, activeID)
	if err != nil {
		h.serverError(c, "Failed to get visited countries", err)
		return
	}

	current, err := h.tracker.CurrentUser(ctx, activeID)
	if errors.Is(err, tracker.ErrNoActiveUser) {
		h.missingActiveUser(c, activeID)
		return
	}
	if err != nil {
		h.serverError(c, "Failed to get current user", err)
		return
	}

	view := models.NewHomeView(countries, h.tracker.Roster().Users(), current, "")
	h.render(c, http.StatusOK, pages.Home(view))
}

// AddCountry records a visited country for the active user.
func (h *Handler) AddCountry(c *gin.Context) {
	ctx := c.Request.Context()
	activeID := h.state.ActiveUserID(c)

	current, err := h.tracker.CurrentUser(ctx, activeID)
	if errors.Is(err, tracker.ErrNoActiveUser) {
		h.missingActiveUser(c, activeID)
		return
	}
	if err != nil {
		h.serverError(c, "Failed to get current user", err)
		return
	}

	result, err := h.tracker.AddCountry(ctx, activeID, c.PostForm("country"))
	if err != nil {
		h.serverError(c, "Failed to add country", err)
		return
	}

	switch result {
	case tracker.AddResultUnknownCountry:
		h.renderHomeWithError(c, current, models.ErrorCountryNotFound)
	case tracker.AddResultDuplicate:
		h.renderHomeWithError(c, current, models.ErrorCountryExists)
	default:
		c.Redirect(http.StatusFound, "/")
	}
}

// NewUser creates a household member and makes them the active user.
func (h *Handler) NewUser(c *gin.Context) {
	user, err := h.tracker.CreateUser(c.Request.Context(), c.PostForm("name"), c.PostForm("color"))
	if err != nil {
		h.serverError(c, "Failed to create user", err)
		return
	}

	if err := h.state.SetActiveUserID(c, user.ID); err != nil {
		h.serverError(c, "Failed to set active user", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// SelectUser either shows the new user form or switches the active user.
// The submitted id is not checked against the store; an unknown id is
// handled by the next home request.
func (h *Handler) SelectUser(c *gin.Context) {
	if c.PostForm("add") == AddNewUser {
		h.render(c, http.StatusOK, pages.NewUser())
		return
	}

	id, err := parseIntParam(c.PostForm("user"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid user")
		return
	}

	if err := h.state.SetActiveUserID(c, id); err != nil {
		h.serverError(c, "Failed to set active user", err)
		return
	}
	log.Debug("Switched active user", "id", id)
	c.Redirect(http.StatusFound, "/")
}

// Health reports whether the store is reachable.
func (h *Handler) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		log.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// missingActiveUser falls back to the first stored user, or to the new user
// form if there are no users at all.
func (h *Handler) missingActiveUser(c *gin.Context, activeID int64) {
	first, ok := h.tracker.Roster().First()
	if !ok {
		log.Warn("No users stored, showing new user form")
		h.render(c, http.StatusOK, pages.NewUser())
		return
	}

	log.Warn("Active user not found, falling back to first user", "active", activeID, "fallback", first.ID)
	if err := h.state.SetActiveUserID(c, first.ID); err != nil {
		h.serverError(c, "Failed to set active user", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) renderHomeWithError(c *gin.Context, current *database.User, msg string) {
	countries, err := h.tracker.VisitedCountries(c.Request.Context(), current.ID)
	if err != nil {
		h.serverError(c, "Failed to get visited countries", err)
		return
	}
	view := models.NewHomeView(countries, h.tracker.Roster().Users(), current, msg)
	h.render(c, http.StatusOK, pages.Home(view))
}

func (h *Handler) render(c *gin.Context, status int, component templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		log.Error("Failed to render page", "error", err)
	}
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	log.Error(msg, "error", err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
	c.Abort()
}

func parseIntParam(param string) (int64, error) {
	return strconv.ParseInt(param, 10, 64)
}
