package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"warbler/internal/models"

	"github.com/mssola/user_agent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor identifies who triggered an audited action.
type Actor struct {
	UserID    *uint
	IP        string
	UserAgent string
}

type AuditService struct {
	db      *gorm.DB
	logger  *zap.Logger
	entries chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *zap.Logger) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		entries: make(chan models.AuditLog, 100),
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.entries:
			s.write(entry)
		case <-ctx.Done():
			s.drain()
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

// drain writes whatever is still queued without waiting for more.
func (s *AuditService) drain() {
	for {
		select {
		case entry := <-s.entries:
			s.write(entry)
		default:
			return
		}
	}
}

func (s *AuditService) write(entry models.AuditLog) {
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Error("Failed to write audit log", zap.Error(err), zap.String("action", entry.Action))
	}
}

// LogAction queues an entry. It never blocks; a full queue drops the entry.
func (s *AuditService) LogAction(actor Actor, action, entityID string, details interface{}) {
	entry := models.AuditLog{
		UserID:    actor.UserID,
		Action:    action,
		EntityID:  entityID,
		IPAddress: actor.IP,
		Timestamp: time.Now(),
	}
	if details != nil {
		detailBytes, _ := json.Marshal(details)
		entry.Details = string(detailBytes)
	}
	entry.Browser, entry.OS = parseUserAgent(actor.UserAgent)

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping entry", zap.String("action", action))
	}
}

func parseUserAgent(raw string) (browser, os string) {
	if raw == "" {
		return "", ""
	}
	ua := user_agent.New(raw)
	name, version := ua.Browser()
	return strings.TrimSpace(name + " " + version), ua.OS()
}
