package repository

import (
	"context"
	"encoding/json"

	"classroom-stock-sim/internal/entity"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditRepository records admin actions.
type AuditRepository interface {
	Record(ctx context.Context, actor, action string, detail interface{}) error
}

// NewAuditRepository creates a new GORM-based audit repository.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

type auditRepository struct {
	db *gorm.DB
}

// Record writes one audit row. The detail is marshaled to JSON.
func (r *auditRepository) Record(ctx context.Context, actor, action string, detail interface{}) error {
	var payload datatypes.JSON
	if detail != nil {
		raw, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(raw)
	}
	return r.db.WithContext(ctx).Create(&entity.AuditLog{
		Actor:  actor,
		Action: action,
		Detail: payload,
	}).Error
}
