package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"warbler/internal/config"
	"warbler/internal/metrics"
	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/services"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestHandler(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()

	db, err := repository.InitDB(config.Config{DatabaseURL: "sqlite://:memory:"})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	logger := zap.NewNop()
	cfg := config.Config{
		SessionSecret: "test-secret-12345678901234567890123456789012",
		CSRFDisabled:  true,
	}

	// Use a dummy redis client (not connected) with no retries
	rdb := redis.NewClient(&redis.Options{
		Addr:       "localhost:1",
		MaxRetries: -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	stats := services.NewStatsService(db, rdb, logger)
	svc := Services{
		Users:    services.NewUserService(db, stats),
		Messages: services.NewMessageService(db, stats),
		Follows:  services.NewFollowService(db, stats),
		Likes:    services.NewLikeService(db, stats),
		Stats:    stats,
		Audit:    services.NewAuditService(db, logger),
	}

	reg := prometheus.NewRegistry()
	h := NewHandler(cfg, logger, svc, metrics.New(reg), reg)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := h.SetupRouter(nil, "../../web/templates/*.html", "../../web/static")

	// Lets tests act as a logged in user without going through the login form.
	r.GET("/test/session/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		session := sessions.Default(c)
		session.Set(CurrentUserKey, uint(id))
		_ = session.Save()
		c.Status(http.StatusOK)
	})
	return r
}

// testClient is a tiny cookie keeping browser for the router.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, r *gin.Engine) *testClient {
	return &testClient{t: t, router: r, cookies: map[string]*http.Cookie{}}
}

func (tc *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	tc.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	for _, c := range (&http.Response{Header: w.Header()}).Cookies() {
		if c.MaxAge < 0 {
			delete(tc.cookies, c.Name)
			continue
		}
		tc.cookies[c.Name] = c
	}
	return w
}

// follow performs the request and then chases redirects with GETs.
func (tc *testClient) follow(method, path string, form url.Values) *httptest.ResponseRecorder {
	tc.t.Helper()

	w := tc.do(method, path, form)
	for i := 0; i < 10 && w.Code >= 300 && w.Code < 400; i++ {
		w = tc.do(http.MethodGet, w.Header().Get("Location"), nil)
	}
	return w
}

func (tc *testClient) loginAs(id uint) {
	tc.t.Helper()
	w := tc.do(http.MethodGet, fmt.Sprintf("/test/session/%d", id), nil)
	require.Equal(tc.t, http.StatusOK, w.Code)
}

func createUser(t *testing.T, db *gorm.DB, id uint, username string) *models.User {
	t.Helper()
	u, err := models.NewUser(username, username+"@test.com", "password", "")
	require.NoError(t, err)
	u.ID = id
	require.NoError(t, db.Create(u).Error)
	return u
}

func createMessage(t *testing.T, db *gorm.DB, id, userID uint, text string) *models.Message {
	t.Helper()
	m := &models.Message{ID: id, Text: text, UserID: userID}
	require.NoError(t, db.Create(m).Error)
	return m
}

func parseHTML(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

// statCounts returns the four profile counters in page order.
func statCounts(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var counts []string
	parseHTML(t, w).Find("li.stat h4").Each(func(_ int, s *goquery.Selection) {
		counts = append(counts, strings.TrimSpace(s.Text()))
	})
	return counts
}
