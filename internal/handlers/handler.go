package handlers

import (
	"warbler/internal/config"
	"warbler/internal/metrics"
	"warbler/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Services bundles the domain services the handlers call into.
type Services struct {
	Users    *services.UserService
	Messages *services.MessageService
	Follows  *services.FollowService
	Likes    *services.LikeService
	Stats    *services.StatsService
	Audit    *services.AuditService
}

type Handler struct {
	cfg      config.Config
	logger   *zap.Logger
	users    *services.UserService
	messages *services.MessageService
	follows  *services.FollowService
	likes    *services.LikeService
	stats    *services.StatsService
	audit    *services.AuditService
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

func NewHandler(
	cfg config.Config,
	logger *zap.Logger,
	svc Services,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *Handler {
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		users:    svc.Users,
		messages: svc.Messages,
		follows:  svc.Follows,
		likes:    svc.Likes,
		stats:    svc.Stats,
		audit:    svc.Audit,
		metrics:  m,
		gatherer: gatherer,
	}
}
