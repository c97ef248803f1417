package handlers

import (
	"encoding/gob"
	"errors"
	"net/http"
	"strconv"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	csrf "github.com/utrack/gin-csrf"
	"go.uber.org/zap"
)

const (
	sessionName = "warbler_session"

	// CurrentUserKey is the session key holding the logged in user's id.
	CurrentUserKey = "curr_user"

	currentUserCtxKey = "current_user"
)

// Flash categories understood by the templates.
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
)

type Flash struct {
	Category string
	Message  string
}

// Flashes are stored in the cookie as []interface{}.
func init() {
	gob.Register([]interface{}{})
}

// LoadCurrentUser resolves the session's user id on every request. An id
// that no longer resolves is dropped and the request continues anonymously.
func (h *Handler) LoadCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := sessionUserID(session.Get(CurrentUserKey))
		if !ok {
			c.Next()
			return
		}

		user, err := h.users.Get(c.Request.Context(), id)
		switch {
		case errors.Is(err, services.ErrNotFound):
			session.Delete(CurrentUserKey)
			if err := session.Save(); err != nil {
				h.logger.Warn("Failed to clear stale session", zap.Error(err))
			}
		case err != nil:
			h.logger.Error("Failed to load session user", zap.Uint("user_id", id), zap.Error(err))
		default:
			c.Set(currentUserCtxKey, user)
		}
		c.Next()
	}
}

func sessionUserID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		return id, true
	case int:
		if id > 0 {
			return uint(id), true
		}
	case int64:
		if id > 0 {
			return uint(id), true
		}
	case string:
		n, err := strconv.ParseUint(id, 10, 64)
		if err == nil {
			return uint(n), true
		}
	}
	return 0, false
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserCtxKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func (h *Handler) loginSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(CurrentUserKey, user.ID)
	return session.Save()
}

func (h *Handler) logoutSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
}

// flash queues a message for the next rendered page and saves the session.
func (h *Handler) flash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	if err := session.Save(); err != nil {
		h.logger.Warn("Failed to save flash", zap.Error(err))
	}
}

func (h *Handler) popFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	var out []Flash
	for _, category := range []string{flashDanger, flashSuccess, flashInfo} {
		for _, msg := range session.Flashes(category) {
			if s, ok := msg.(string); ok {
				out = append(out, Flash{Category: category, Message: s})
			}
		}
	}
	if len(out) > 0 {
		if err := session.Save(); err != nil {
			h.logger.Warn("Failed to save session after reading flashes", zap.Error(err))
		}
	}
	return out
}

// render adds the data every page needs and writes the named template.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = currentUser(c)
	data["Flashes"] = h.popFlashes(c)
	data["CSRFToken"] = csrfToken(c)
	for key, zero := range map[string]interface{}{
		"Likes":     map[uint]bool{},
		"Following": map[uint]bool{},
		"Query":     "",
	} {
		if _, ok := data[key]; !ok {
			data[key] = zero
		}
	}
	c.HTML(status, name, data)
}

// csrfToken is empty on requests that did not pass through CSRFProtection.
func csrfToken(c *gin.Context) string {
	if !c.GetBool(csrfActiveKey) {
		return ""
	}
	return csrf.GetToken(c)
}

func (h *Handler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) actor(c *gin.Context) services.Actor {
	actor := services.Actor{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if user := currentUser(c); user != nil {
		id := user.ID
		actor.UserID = &id
	}
	return actor
}

func parseID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", nil)
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.Error("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err),
	)
	h.render(c, http.StatusInternalServerError, "500.html", nil)
}
