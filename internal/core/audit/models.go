package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Actions recorded against receipts
const (
	ActionCreate = "create"
	ActionDelete = "delete"
	ActionExport = "export"
)

// EntityTransaction is the entity name of confirmed receipts
const EntityTransaction = "transaction"

// AuditLog is one recorded change to stored receipts
type AuditLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	Action   string `json:"action" gorm:"type:varchar(20);not null;index:idx_scan_audit_action"`
	Entity   string `json:"entity" gorm:"type:varchar(50);not null;index:idx_scan_audit_entity"`
	EntityID string `json:"entity_id,omitempty" gorm:"type:varchar(64);index:idx_scan_audit_entity"`

	// Change tracking
	OldValue datatypes.JSON `json:"old_value,omitempty" gorm:"type:jsonb"`
	NewValue datatypes.JSON `json:"new_value,omitempty" gorm:"type:jsonb"`

	// Request metadata
	IPAddress string `json:"ip_address,omitempty" gorm:"type:text"`
	UserAgent string `json:"user_agent,omitempty" gorm:"type:text"`
	Method    string `json:"method,omitempty" gorm:"type:varchar(10)"`
	Endpoint  string `json:"endpoint,omitempty" gorm:"type:text"`

	Description string `json:"description,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_scan_audit_created_at"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "scan_audit_logs"
}

// BeforeCreate sets UUID before creating
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Request describes where a change came from
type Request struct {
	IPAddress string
	UserAgent string
	Method    string
	Endpoint  string
}

// Change is a single change to record
type Change struct {
	Action      string
	Entity      string
	EntityID    string
	OldValue    interface{}
	NewValue    interface{}
	Description string
}

// Recorder records changes. Callers treat failures as warnings.
type Recorder interface {
	RecordChange(ctx context.Context, req Request, change Change) error
}

// Filter narrows audit log queries
type Filter struct {
	Action    string
	Entity    string
	EntityID  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// Page is a paginated audit log listing
type Page struct {
	Logs       []AuditLog `json:"logs"`
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
