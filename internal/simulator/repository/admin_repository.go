package repository

import (
	"context"
	"errors"

	"classroom-stock-sim/internal/entity"

	"gorm.io/gorm"
)

// AdminRepository defines the interface for admin account lookups.
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.Admin, error)
	FindByCredentials(ctx context.Context, username, password string) (*entity.Admin, error)
}

// NewAdminRepository creates a new GORM-based admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

type adminRepository struct {
	db *gorm.DB
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	var admin entity.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindByCredentials(ctx context.Context, username, password string) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.WithContext(ctx).
		Where("username = ? AND password = ?", username, password).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &admin, nil
}
