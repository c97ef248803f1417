package models

import (
	"time"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`           // Nullable for failed logins
	Action    string    `gorm:"size:50;not null" json:"action"` // e.g. "SIGNUP", "FOLLOW", "LIKE"
	EntityID  string    `gorm:"size:50" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Browser   string    `gorm:"size:50" json:"browser"`
	OS        string    `gorm:"size:100" json:"os"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"timestamp"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Message{}, &Follow{}, &Like{}, &AuditLog{}}
}
