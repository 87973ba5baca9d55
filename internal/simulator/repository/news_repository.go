package repository

import (
	"context"
	"errors"

	"classroom-stock-sim/internal/entity"

	"gorm.io/gorm"
)

// NewsRepository defines the interface for news articles and purchase
// receipts.
type NewsRepository interface {
	Create(ctx context.Context, news *entity.News) error
	FindAll(ctx context.Context) ([]entity.News, error)
	FindByID(ctx context.Context, id uint) (*entity.News, error)
	Delete(ctx context.Context, id uint) error
	FindViewedNewsIDs(ctx context.Context, userID uint) (map[uint]bool, error)
	HasViewed(ctx context.Context, userID, newsID uint) (bool, error)
	Purchase(ctx context.Context, userID uint, news *entity.News) error
}

// NewNewsRepository creates a new GORM-based news repository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

type newsRepository struct {
	db *gorm.DB
}

// Create inserts a new article.
func (r *newsRepository) Create(ctx context.Context, news *entity.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

// FindAll retrieves every article, newest first.
func (r *newsRepository) FindAll(ctx context.Context) ([]entity.News, error) {
	var news []entity.News
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&news).Error; err != nil {
		return nil, err
	}
	return news, nil
}

// FindByID retrieves one article.
func (r *newsRepository) FindByID(ctx context.Context, id uint) (*entity.News, error) {
	var news entity.News
	if err := r.db.WithContext(ctx).First(&news, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	return &news, nil
}

// Delete removes an article and its purchase receipts.
func (r *newsRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("news_id = ?", id).Delete(&entity.NewsView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.News{}, id).Error
	})
}

// FindViewedNewsIDs returns the set of article IDs the user has purchased.
func (r *newsRepository) FindViewedNewsIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&entity.NewsView{}).
		Where("user_id = ?", userID).
		Pluck("news_id", &ids).Error
	if err != nil {
		return nil, err
	}
	viewed := make(map[uint]bool, len(ids))
	for _, id := range ids {
		viewed[id] = true
	}
	return viewed, nil
}

// HasViewed reports whether the user has purchased the article.
func (r *newsRepository) HasViewed(ctx context.Context, userID, newsID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.NewsView{}).
		Where("user_id = ? AND news_id = ?", userID, newsID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Purchase debits the article price from the user's cash and records the
// receipt, all in one transaction. Buying twice is rejected.
func (r *newsRepository) Purchase(ctx context.Context, userID uint, news *entity.News) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.NewsView{}).
			Where("user_id = ? AND news_id = ?", userID, news.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyPurchased
		}

		var user entity.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Cash < news.Price {
			return ErrInsufficientFunds
		}

		if err := tx.Model(&entity.User{}).Where("id = ?", userID).
			Update("cash", gorm.Expr("cash - ?", news.Price)).Error; err != nil {
			return err
		}
		return tx.Create(&entity.NewsView{UserID: userID, NewsID: news.ID}).Error
	})
}
