package service

import (
	"context"
	"errors"
	"fmt"

	"classroom-stock-sim/internal/entity"
	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/pkg/logger"
	"classroom-stock-sim/pkg/telegram"

	"github.com/lib/pq"
)

const (
	lockedNewsTitle         = "🔒 잠긴 유료 뉴스"
	lockedNewsListContent   = "이 뉴스를 보려면 구매가 필요합니다."
	lockedNewsDetailContent = "이 뉴스는 유료 뉴스입니다. 열람하려면 구매가 필요합니다."
)

// NewsService manages admin-posted articles and premium purchase gating.
type NewsService interface {
	List(ctx context.Context, userID uint) (*dto.NewsListResponse, error)
	Get(ctx context.Context, newsID, userID uint) (*dto.NewsDetailResponse, error)
	Create(ctx context.Context, req *dto.CreateNewsRequest) (*dto.CreateNewsResponse, error)
	Purchase(ctx context.Context, req *dto.PurchaseNewsRequest) (*dto.PurchaseNewsResponse, error)
	Delete(ctx context.Context, newsID uint, adminUsername string) (*dto.MessageResponse, error)
}

// NewNewsService creates a new news service.
func NewNewsService(
	newsRepo repository.NewsRepository,
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditRepository,
	notifier telegram.Notifier,
	logger *logger.Logger,
) NewsService {
	return &newsService{
		newsRepo:  newsRepo,
		adminRepo: adminRepo,
		auditRepo: auditRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

type newsService struct {
	newsRepo  repository.NewsRepository
	adminRepo repository.AdminRepository
	auditRepo repository.AuditRepository
	notifier  telegram.Notifier
	logger    *logger.Logger
}

// resolveListItem is the pure gating function for listings: a premium
// article the viewer has not purchased hides both title and content.
func resolveListItem(news entity.News, purchased bool) dto.NewsItem {
	item := newsItem(news)
	if news.Type == entity.NewsTypePremium && !purchased {
		item.Title = lockedNewsTitle
		item.Content = lockedNewsListContent
		// Which stocks the tip concerns is part of what is paid for.
		item.RelatedCodes = nil
		item.Purchased = false
		return item
	}
	item.Purchased = true
	return item
}

// resolveDetailItem is the pure gating function for the detail view: the
// title stays visible, only the content is locked.
func resolveDetailItem(news entity.News, purchased bool) dto.NewsItem {
	item := newsItem(news)
	if news.Type == entity.NewsTypePremium && !purchased {
		item.Content = lockedNewsDetailContent
		item.RelatedCodes = nil
		item.Purchased = false
		return item
	}
	item.Purchased = true
	return item
}

func newsItem(news entity.News) dto.NewsItem {
	return dto.NewsItem{
		ID:           news.ID,
		Title:        news.Title,
		Content:      news.Content,
		Type:         string(news.Type),
		Price:        news.Price,
		RelatedCodes: []string(news.RelatedCodes),
		CreatedBy:    news.CreatedBy,
		CreatedAt:    news.CreatedAt,
	}
}

// List returns all articles for the viewer, newest first, premium articles
// locked unless purchased.
func (s *newsService) List(ctx context.Context, userID uint) (*dto.NewsListResponse, error) {
	news, err := s.newsRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	viewed := map[uint]bool{}
	if userID != 0 {
		viewed, err = s.newsRepo.FindViewedNewsIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	items := make([]dto.NewsItem, 0, len(news))
	for _, n := range news {
		items = append(items, resolveListItem(n, viewed[n.ID]))
	}
	return &dto.NewsListResponse{News: items}, nil
}

// Get returns one article for the viewer.
func (s *newsService) Get(ctx context.Context, newsID, userID uint) (*dto.NewsDetailResponse, error) {
	news, err := s.newsRepo.FindByID(ctx, newsID)
	if err != nil {
		return nil, err
	}

	purchased := news.Type == entity.NewsTypeFree
	if !purchased {
		purchased, err = s.newsRepo.HasViewed(ctx, userID, newsID)
		if err != nil {
			return nil, err
		}
	}

	item := resolveDetailItem(*news, purchased)
	return &dto.NewsDetailResponse{News: item, Purchased: item.Purchased}, nil
}

// Create posts an article on behalf of an admin.
func (s *newsService) Create(ctx context.Context, req *dto.CreateNewsRequest) (*dto.CreateNewsResponse, error) {
	if _, err := s.adminRepo.FindByUsername(ctx, req.AdminUsername); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	newsType := entity.NewsType(req.Type)
	if newsType != entity.NewsTypeFree && newsType != entity.NewsTypePremium {
		return nil, ErrInvalidNewsType
	}

	news := &entity.News{
		Title:        req.Title,
		Content:      req.Content,
		Type:         newsType,
		Price:        req.Price,
		RelatedCodes: pq.StringArray(req.RelatedCodes),
		CreatedBy:    req.AdminUsername,
	}
	if err := s.newsRepo.Create(ctx, news); err != nil {
		return nil, err
	}

	s.audit(ctx, req.AdminUsername, "create_news", map[string]interface{}{
		"news_id": news.ID,
		"type":    news.Type,
	})
	// Broadcast the headline only so premium content stays paywalled.
	s.notify(fmt.Sprintf("📰 새 뉴스: %s", news.Title))

	item := newsItem(*news)
	item.Purchased = true
	return &dto.CreateNewsResponse{News: item}, nil
}

// Purchase unlocks a premium article for a user, debiting its price once.
func (s *newsService) Purchase(ctx context.Context, req *dto.PurchaseNewsRequest) (*dto.PurchaseNewsResponse, error) {
	news, err := s.newsRepo.FindByID(ctx, req.NewsID)
	if err != nil {
		return nil, err
	}
	if news.Type == entity.NewsTypeFree {
		return nil, repository.ErrFreeNews
	}

	if err := s.newsRepo.Purchase(ctx, req.UserID, news); err != nil {
		return nil, err
	}

	item := newsItem(*news)
	item.Purchased = true
	return &dto.PurchaseNewsResponse{
		Success: true,
		Message: "뉴스를 구매했습니다.",
		News:    item,
	}, nil
}

// Delete removes an article and its purchase receipts.
func (s *newsService) Delete(ctx context.Context, newsID uint, adminUsername string) (*dto.MessageResponse, error) {
	if _, err := s.adminRepo.FindByUsername(ctx, adminUsername); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if err := s.newsRepo.Delete(ctx, newsID); err != nil {
		return nil, err
	}
	s.audit(ctx, adminUsername, "delete_news", map[string]interface{}{"news_id": newsID})
	return &dto.MessageResponse{Success: true, Message: "뉴스가 삭제되었습니다."}, nil
}

func (s *newsService) audit(ctx context.Context, actor, action string, detail interface{}) {
	if err := s.auditRepo.Record(ctx, actor, action, detail); err != nil {
		s.logger.Warn("Failed to record audit log", logger.ErrorField(err), logger.Field("action", action))
	}
}

func (s *newsService) notify(text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(text); err != nil {
		s.logger.Warn("Failed to send telegram notification", logger.ErrorField(err))
	}
}
