package handlers

import (
	"html/template"
	"net/http"
	"time"

	"warbler/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter, templatePath string, staticPath string) *gin.Engine {
	if err := RegisterValidators(); err != nil {
		h.logger.Error("Failed to register form validators", zap.Error(err))
	}

	r := gin.New()
	r.Use(h.RequestLogger(), gin.CustomRecovery(h.recoverPanic))

	r.SetFuncMap(template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("02 January 2006")
		},
	})

	if templatePath != "" {
		r.LoadHTMLGlob(templatePath)
	}
	if staticPath != "" {
		r.Static("/static", staticPath)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if h.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(h.LoadCurrentUser())
	if !h.cfg.CSRFDisabled {
		r.Use(h.CSRFProtection())
	}

	// Public Routes
	r.GET("/", h.Home)
	r.GET("/signup", h.ShowSignup)
	r.POST("/signup", h.HandleSignupForm)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.HandleLoginForm)
	r.GET("/logout", h.Logout)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.ShowUser)
	r.GET("/messages/:id", h.ShowMessage)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("/users/:id/following", h.ShowFollowing)
		authorized.GET("/users/:id/followers", h.ShowFollowers)
		authorized.GET("/users/:id/likes", h.ShowLikes)
		authorized.POST("/users/follow/:id", h.FollowUser)
		authorized.POST("/users/stop-following/:id", h.StopFollowing)
		authorized.POST("/users/warble_liking/:message_id", h.ToggleLike)
		authorized.GET("/users/profile", h.ShowEditProfile)
		authorized.POST("/users/profile", h.HandleEditProfile)
		authorized.POST("/users/delete", h.DeleteUser)
		authorized.GET("/messages/new", h.ShowNewMessage)
		authorized.POST("/messages/new", h.HandleNewMessage)
		authorized.POST("/messages/:id/delete", h.DeleteMessage)
	}

	r.NoRoute(h.NotFound)

	return r
}
