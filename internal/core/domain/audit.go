package domain

import "time"

// ActionUpdateStatus labels audit entries written for task status changes.
const ActionUpdateStatus = "UPDATE_STATUS"

// AuditEntry records a single status-changing action on a task. Entries are
// append-only and never read back by the application: a write-only trail.
type AuditEntry struct {
	ID        string
	TaskID    string
	UserID    string
	Action    string
	Details   string
	Timestamp time.Time
}
