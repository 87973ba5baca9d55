package service

import (
	"context"
	"testing"

	"classroom-stock-sim/internal/entity"
	"classroom-stock-sim/internal/simulator/dto"
	"classroom-stock-sim/internal/simulator/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type newsServiceMocks struct {
	newsRepo  *MockNewsRepository
	adminRepo *MockAdminRepository
	auditRepo *MockAuditRepository
}

func newTestNewsService() (NewsService, *newsServiceMocks) {
	m := &newsServiceMocks{
		newsRepo:  new(MockNewsRepository),
		adminRepo: new(MockAdminRepository),
		auditRepo: new(MockAuditRepository),
	}
	return NewNewsService(m.newsRepo, m.adminRepo, m.auditRepo, nil, newTestLogger()), m
}

func TestResolveListItem(t *testing.T) {
	premium := entity.News{ID: 1, Title: "비밀 정보", Content: "내용", Type: entity.NewsTypePremium, Price: 500, RelatedCodes: pq.StringArray{"SMSG"}}
	free := entity.News{ID: 2, Title: "공개 소식", Content: "내용", Type: entity.NewsTypeFree}

	locked := resolveListItem(premium, false)
	assert.Equal(t, "🔒 잠긴 유료 뉴스", locked.Title)
	assert.Equal(t, "이 뉴스를 보려면 구매가 필요합니다.", locked.Content)
	assert.False(t, locked.Purchased)
	assert.Nil(t, locked.RelatedCodes)
	// Price stays visible so students know what unlocking costs.
	assert.Equal(t, int64(500), locked.Price)

	unlocked := resolveListItem(premium, true)
	assert.Equal(t, "비밀 정보", unlocked.Title)
	assert.Equal(t, []string{"SMSG"}, unlocked.RelatedCodes)
	assert.True(t, unlocked.Purchased)

	open := resolveListItem(free, false)
	assert.Equal(t, "공개 소식", open.Title)
	assert.True(t, open.Purchased)
}

func TestResolveDetailItem(t *testing.T) {
	premium := entity.News{ID: 1, Title: "비밀 정보", Content: "내용", Type: entity.NewsTypePremium, Price: 500}

	locked := resolveDetailItem(premium, false)
	// The detail view keeps the real title, only the body is hidden.
	assert.Equal(t, "비밀 정보", locked.Title)
	assert.Equal(t, "이 뉴스는 유료 뉴스입니다. 열람하려면 구매가 필요합니다.", locked.Content)
	assert.False(t, locked.Purchased)

	unlocked := resolveDetailItem(premium, true)
	assert.Equal(t, "내용", unlocked.Content)
	assert.True(t, unlocked.Purchased)
}

func TestNewsService_List_AnonymousViewer(t *testing.T) {
	svc, m := newTestNewsService()

	m.newsRepo.On("FindAll", mock.Anything).Return([]entity.News{
		{ID: 1, Title: "유료", Type: entity.NewsTypePremium, Price: 500},
		{ID: 2, Title: "무료", Type: entity.NewsTypeFree},
	}, nil)

	resp, err := svc.List(context.Background(), 0)

	assert.NoError(t, err)
	assert.Len(t, resp.News, 2)
	assert.Equal(t, "🔒 잠긴 유료 뉴스", resp.News[0].Title)
	assert.Equal(t, "무료", resp.News[1].Title)
	m.newsRepo.AssertNotCalled(t, "FindViewedNewsIDs", mock.Anything, mock.Anything)
}

func TestNewsService_List_PurchasedViewer(t *testing.T) {
	svc, m := newTestNewsService()

	m.newsRepo.On("FindAll", mock.Anything).Return([]entity.News{
		{ID: 1, Title: "유료", Type: entity.NewsTypePremium, Price: 500},
	}, nil)
	m.newsRepo.On("FindViewedNewsIDs", mock.Anything, uint(7)).Return(map[uint]bool{1: true}, nil)

	resp, err := svc.List(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, "유료", resp.News[0].Title)
	assert.True(t, resp.News[0].Purchased)
}

func TestNewsService_Get_FreeNewsAlwaysOpen(t *testing.T) {
	svc, m := newTestNewsService()

	m.newsRepo.On("FindByID", mock.Anything, uint(2)).Return(&entity.News{ID: 2, Title: "무료", Content: "내용", Type: entity.NewsTypeFree}, nil)

	resp, err := svc.Get(context.Background(), 2, 0)

	assert.NoError(t, err)
	assert.True(t, resp.Purchased)
	assert.Equal(t, "내용", resp.News.Content)
	m.newsRepo.AssertNotCalled(t, "HasViewed", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewsService_Create(t *testing.T) {
	svc, m := newTestNewsService()

	m.adminRepo.On("FindByUsername", mock.Anything, "admin").Return(&entity.Admin{ID: 1, Username: "admin"}, nil)
	m.newsRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.News")).Return(nil)
	m.auditRepo.On("Record", mock.Anything, "admin", "create_news", mock.Anything).Return(nil)

	resp, err := svc.Create(context.Background(), &dto.CreateNewsRequest{
		Title: "새 소식", Content: "내용", Type: "FREE", AdminUsername: "admin",
	})

	assert.NoError(t, err)
	assert.Equal(t, "새 소식", resp.News.Title)
	m.newsRepo.AssertExpectations(t)
}

func TestNewsService_Create_Validation(t *testing.T) {
	svc, m := newTestNewsService()

	m.adminRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, repository.ErrUserNotFound)
	_, err := svc.Create(context.Background(), &dto.CreateNewsRequest{Title: "x", Type: "FREE", AdminUsername: "nobody"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	m.adminRepo.On("FindByUsername", mock.Anything, "admin").Return(&entity.Admin{ID: 1}, nil)
	_, err = svc.Create(context.Background(), &dto.CreateNewsRequest{Title: "x", Type: "VIP", AdminUsername: "admin"})
	assert.ErrorIs(t, err, ErrInvalidNewsType)
}

func TestNewsService_Purchase(t *testing.T) {
	svc, m := newTestNewsService()

	news := &entity.News{ID: 1, Title: "유료", Content: "내용", Type: entity.NewsTypePremium, Price: 500}
	m.newsRepo.On("FindByID", mock.Anything, uint(1)).Return(news, nil)
	m.newsRepo.On("Purchase", mock.Anything, uint(7), news).Return(nil)

	resp, err := svc.Purchase(context.Background(), &dto.PurchaseNewsRequest{NewsID: 1, UserID: 7})

	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "뉴스를 구매했습니다.", resp.Message)
	assert.Equal(t, "내용", resp.News.Content)
}

func TestNewsService_Purchase_FreeNews(t *testing.T) {
	svc, m := newTestNewsService()

	m.newsRepo.On("FindByID", mock.Anything, uint(2)).Return(&entity.News{ID: 2, Type: entity.NewsTypeFree}, nil)

	_, err := svc.Purchase(context.Background(), &dto.PurchaseNewsRequest{NewsID: 2, UserID: 7})
	assert.ErrorIs(t, err, repository.ErrFreeNews)
	m.newsRepo.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewsService_Purchase_AlreadyPurchased(t *testing.T) {
	svc, m := newTestNewsService()

	news := &entity.News{ID: 1, Type: entity.NewsTypePremium, Price: 500}
	m.newsRepo.On("FindByID", mock.Anything, uint(1)).Return(news, nil)
	m.newsRepo.On("Purchase", mock.Anything, uint(7), news).Return(repository.ErrAlreadyPurchased)

	_, err := svc.Purchase(context.Background(), &dto.PurchaseNewsRequest{NewsID: 1, UserID: 7})
	assert.ErrorIs(t, err, repository.ErrAlreadyPurchased)
}

func TestNewsService_Delete(t *testing.T) {
	svc, m := newTestNewsService()

	m.adminRepo.On("FindByUsername", mock.Anything, "admin").Return(&entity.Admin{ID: 1, Username: "admin"}, nil)
	m.newsRepo.On("Delete", mock.Anything, uint(3)).Return(nil)
	m.auditRepo.On("Record", mock.Anything, "admin", "delete_news", mock.Anything).Return(nil)

	resp, err := svc.Delete(context.Background(), 3, "admin")

	assert.NoError(t, err)
	assert.Equal(t, "뉴스가 삭제되었습니다.", resp.Message)
	m.newsRepo.AssertExpectations(t)
}
