package dto

import "time"

// NewsItem is an article as seen by one viewer: premium articles the viewer
// has not purchased carry placeholder title/content.
type NewsItem struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Type         string    `json:"type"`
	Price        int64     `json:"price"`
	RelatedCodes []string  `json:"related_codes"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	Purchased    bool      `json:"purchased"`
}

// NewsListResponse lists all articles for a viewer.
type NewsListResponse struct {
	News []NewsItem `json:"news"`
}

// NewsDetailResponse is one article for a viewer.
type NewsDetailResponse struct {
	News      NewsItem `json:"news"`
	Purchased bool     `json:"purchased"`
}

// CreateNewsRequest is the admin article payload.
type CreateNewsRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Type          string   `json:"type"`
	Price         int64    `json:"price"`
	RelatedCodes  []string `json:"relatedCodes"`
	AdminUsername string   `json:"adminUsername"`
}

// CreateNewsResponse wraps the created article.
type CreateNewsResponse struct {
	News NewsItem `json:"news"`
}

// PurchaseNewsRequest is the premium purchase payload.
type PurchaseNewsRequest struct {
	NewsID uint `json:"newsId"`
	UserID uint `json:"userId"`
}

// PurchaseNewsResponse confirms a purchase and returns the unlocked article.
type PurchaseNewsResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	News    NewsItem `json:"news"`
}

// DeleteNewsRequest carries the acting admin for a delete.
type DeleteNewsRequest struct {
	AdminUsername string `json:"adminUsername"`
}
