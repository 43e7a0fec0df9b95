package models

import "time"

// AuditLog records who did what to which module. Writes are fire-and-forget.
type AuditLog struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	UserID      int64     `json:"user_id"`
	Module      string    `json:"module"`
	Description string    `json:"description"`
	Changes     string    `json:"changes,omitempty"` // JSON blob
	CreatedAt   time.Time `json:"created_at"`
}
