package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service stores and queries the audit trail
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record stores an audit log entry
func (s *Service) Record(ctx context.Context, entry *AuditLog) error {
	if entry.Action == "" || entry.Entity == "" {
		return fmt.Errorf("audit entry needs an action and an entity")
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// RecordChange stores a change with the request it came from
func (s *Service) RecordChange(ctx context.Context, req Request, change Change) error {
	oldJSON, err := toJSON(change.OldValue)
	if err != nil {
		log.Warn().Err(err).Str("entity", change.Entity).Msg("⚠️ Failed to serialize old audit value")
	}
	newJSON, err := toJSON(change.NewValue)
	if err != nil {
		log.Warn().Err(err).Str("entity", change.Entity).Msg("⚠️ Failed to serialize new audit value")
	}

	return s.Record(ctx, &AuditLog{
		Action:      change.Action,
		Entity:      change.Entity,
		EntityID:    change.EntityID,
		OldValue:    oldJSON,
		NewValue:    newJSON,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		Method:      req.Method,
		Endpoint:    req.Endpoint,
		Description: change.Description,
	})
}

// List returns audit logs matching filter, newest first
func (s *Service) List(ctx context.Context, filter Filter) (*Page, error) {
	query := filter.scope(s.db.WithContext(ctx).Model(&AuditLog{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit logs: %w", err)
	}

	page, size := filter.bounds()
	logs := []AuditLog{}
	err := query.Order("created_at DESC").Limit(size).Offset((page - 1) * size).Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return &Page{
		Logs:       logs,
		TotalCount: total,
		Page:       page,
		PageSize:   size,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// scope narrows query to the non-empty filter fields
func (f Filter) scope(query *gorm.DB) *gorm.DB {
	for _, eq := range []struct{ column, value string }{
		{"action", f.Action},
		{"entity", f.Entity},
		{"entity_id", f.EntityID},
	} {
		if eq.value != "" {
			query = query.Where(eq.column+" = ?", eq.value)
		}
	}
	if f.StartDate != nil {
		query = query.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("created_at <= ?", *f.EndDate)
	}
	return query
}

// bounds returns the 1-based page and a page size within limits
func (f Filter) bounds() (int, int) {
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	switch {
	case size < 1:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}
	return page, size
}

// History returns every change recorded for one entity, newest first
func (s *Service) History(ctx context.Context, entity, entityID string) ([]AuditLog, error) {
	logs := []AuditLog{}
	err := s.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get entity history: %w", err)
	}
	return logs, nil
}

// Prune deletes audit logs created before cutoff
func (s *Service) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toJSON(value interface{}) (datatypes.JSON, error) {
	if value == nil {
		return nil, nil
	}

	bytes, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(bytes), nil
}
