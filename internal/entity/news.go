package entity

import (
	"time"

	"github.com/lib/pq"
)

// NewsType marks an article as free or purchase-gated.
type NewsType string

const (
	NewsTypeFree    NewsType = "FREE"
	NewsTypePremium NewsType = "PREMIUM"
)

// News is an admin-posted article. Premium articles carry a price and are
// locked until a user purchases a view. RelatedCodes tags the stocks the
// article concerns.
type News struct {
	ID           uint           `gorm:"primaryKey"`
	Title        string         `gorm:"not null"`
	Content      string         `gorm:"not null"`
	Type         NewsType       `gorm:"not null;default:FREE"`
	Price        int64          `gorm:"not null;default:0"`
	RelatedCodes pq.StringArray `gorm:"type:text[]"`
	CreatedBy    string         `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

// TableName pins the uncountable noun.
func (News) TableName() string { return "news" }

// NewsView is a purchase receipt: its existence means the user paid for and
// may read the premium article.
type NewsView struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:idx_news_views_user_news,unique;not null"`
	NewsID    uint      `gorm:"index:idx_news_views_user_news,unique;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
