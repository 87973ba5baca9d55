package repository

import (
	"context"
	"errors"

	"classroom-stock-sim/internal/entity"
	"classroom-stock-sim/pkg/common"

	"gorm.io/gorm"
)

// UserAssets is a leaderboard row: a user plus the market value of their
// holdings at current prices.
type UserAssets struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Cash        int64  `json:"cash"`
	StockValue  int64  `json:"stock_value"`
	TotalAssets int64  `json:"total_assets"`
}

// Holding is a portfolio row joined with its stock.
type Holding struct {
	entity.UserStock
	Code         string `json:"code"`
	Name         string `json:"name"`
	CurrentPrice int64  `json:"current_price"`
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByCredentials(ctx context.Context, username, password string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id uint, newPassword string) error
	FindHoldings(ctx context.Context, userID uint) ([]Holding, error)
	FindAllWithAssets(ctx context.Context) ([]UserAssets, error)
	ResetAll(ctx context.Context) error
}

// NewUserRepository creates a new GORM-based user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *gorm.DB
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID retrieves a user by its ID.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername retrieves a user by username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByCredentials retrieves a user matching both username and password.
func (r *userRepository) FindByCredentials(ctx context.Context, username, password string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND password = ?", username, password).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword sets a new password and marks it as changed.
func (r *userRepository) UpdatePassword(ctx context.Context, id uint, newPassword string) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"password": newPassword, "password_changed": true}).Error
}

// FindHoldings retrieves a user's non-empty holdings joined with stock data.
func (r *userRepository) FindHoldings(ctx context.Context, userID uint) ([]Holding, error) {
	var holdings []Holding
	err := r.db.WithContext(ctx).Model(&entity.UserStock{}).
		Select("user_stocks.*, stocks.code, stocks.name, stocks.current_price").
		Joins("JOIN stocks ON stocks.id = user_stocks.stock_id").
		Where("user_stocks.user_id = ? AND user_stocks.quantity > 0", userID).
		Scan(&holdings).Error
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

// FindAllWithAssets retrieves every user with holdings valued at current
// prices, ordered by total assets descending.
func (r *userRepository) FindAllWithAssets(ctx context.Context) ([]UserAssets, error) {
	var users []UserAssets
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id, u.username, u.name, u.cash,
		       COALESCE(SUM(us.quantity * s.current_price), 0) AS stock_value,
		       u.cash + COALESCE(SUM(us.quantity * s.current_price), 0) AS total_assets
		FROM users u
		LEFT JOIN user_stocks us ON u.id = us.user_id
		LEFT JOIN stocks s ON us.stock_id = s.id
		GROUP BY u.id
		ORDER BY total_assets DESC`).Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ResetAll wipes transactions, holdings and news receipts and restores every
// user's cash to the initial amount, all in one transaction.
func (r *userRepository) ResetAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&entity.UserStock{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&entity.NewsView{}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.User{}).Where("1 = 1").
			Update("cash", common.InitialCash).Error
	})
}
