package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"warbler/internal/models"
	"warbler/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ShowSignup(c *gin.Context) {
	if currentUser(c) != nil {
		h.redirect(c, "/")
		return
	}
	h.render(c, http.StatusOK, "signup.html", gin.H{"Form": SignupForm{}})
}

func (h *Handler) HandleSignupForm(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "signup.html", gin.H{
			"Form":   form,
			"Errors": formErrors(err),
		})
		return
	}

	user, err := h.users.Signup(c.Request.Context(), services.SignupInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		ImageURL: form.ImageURL,
	})
	switch {
	case errors.Is(err, services.ErrIntegrity):
		h.render(c, http.StatusConflict, "signup.html", gin.H{
			"Form":   form,
			"Errors": []string{"Username or email already taken."},
		})
		return
	case errors.Is(err, models.ErrEmptyPassword):
		h.render(c, http.StatusBadRequest, "signup.html", gin.H{
			"Form":   form,
			"Errors": []string{"The password field is required."},
		})
		return
	case err != nil:
		h.serverError(c, err)
		return
	}

	if err := h.loginSession(c, user); err != nil {
		h.serverError(c, err)
		return
	}
	h.metrics.Signups.Inc()
	h.audit.LogAction(h.actor(c), "SIGNUP", strconv.FormatUint(uint64(user.ID), 10), map[string]string{"username": user.Username})

	h.redirect(c, "/")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	if currentUser(c) != nil {
		h.redirect(c, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Form": LoginForm{}})
}

func (h *Handler) HandleLoginForm(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"Form":   form,
			"Errors": formErrors(err),
		})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.metrics.Logins.WithLabelValues("failure").Inc()
		h.audit.LogAction(h.actor(c), "LOGIN_FAILED", form.Username, nil)
		h.render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Form":   LoginForm{Username: form.Username},
			"Errors": []string{"Invalid credentials."},
		})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	if err := h.loginSession(c, user); err != nil {
		h.serverError(c, err)
		return
	}
	h.metrics.Logins.WithLabelValues("success").Inc()

	uid := user.ID
	actor := h.actor(c)
	actor.UserID = &uid
	h.audit.LogAction(actor, "LOGIN", strconv.FormatUint(uint64(user.ID), 10), nil)

	h.logger.Debug("User logged in", zap.Uint("user_id", user.ID))
	h.flash(c, flashSuccess, "Hello, "+user.Username+"!")
	h.redirect(c, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if user := currentUser(c); user != nil {
		h.audit.LogAction(h.actor(c), "LOGOUT", strconv.FormatUint(uint64(user.ID), 10), nil)
	}
	h.logoutSession(c)
	h.flash(c, flashSuccess, "You have successfully logged out.")
	h.redirect(c, "/login")
}
