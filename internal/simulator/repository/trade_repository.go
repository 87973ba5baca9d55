package repository

import (
	"context"
	"errors"

	"classroom-stock-sim/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionWithStock is a ledger entry joined with its stock.
type TransactionWithStock struct {
	entity.Transaction
	Code string `json:"code"`
	Name string `json:"name"`
}

// TradeRepository executes buy/sell flows. Each flow runs inside a single
// database transaction with the user and holding rows locked, so concurrent
// trades on the same user cannot lose updates.
type TradeRepository interface {
	ExecuteBuy(ctx context.Context, userID, stockID uint, quantity int64) (*entity.Transaction, error)
	ExecuteSell(ctx context.Context, userID, stockID uint, quantity int64) (*entity.Transaction, error)
	FindByUser(ctx context.Context, userID uint, limit int) ([]TransactionWithStock, error)
}

// NewTradeRepository creates a new GORM-based trade repository.
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

type tradeRepository struct {
	db *gorm.DB
}

// holdingAfterBuy folds a buy into a position. The new average cost is the
// value-weighted mean of the old position and the bought lot; a first buy
// starts at the buy price.
func holdingAfterBuy(quantity int64, avgPrice float64, buyQuantity, buyPrice int64) (int64, float64) {
	newQuantity := quantity + buyQuantity
	totalValue := avgPrice*float64(quantity) + float64(buyPrice)*float64(buyQuantity)
	return newQuantity, totalValue / float64(newQuantity)
}

// holdingAfterSell shrinks a position. Selling never moves the average cost;
// a zero result quantity means the position is closed.
func holdingAfterSell(quantity int64, avgPrice float64, sellQuantity int64) (int64, float64) {
	return quantity - sellQuantity, avgPrice
}

// ExecuteBuy debits the user's cash, records the transaction and upserts the
// holding with a recomputed weighted-average cost.
func (r *tradeRepository) ExecuteBuy(ctx context.Context, userID, stockID uint, quantity int64) (*entity.Transaction, error) {
	var trade entity.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entity.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var stock entity.Stock
		if err := tx.First(&stock, stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		totalAmount := stock.CurrentPrice * quantity
		if user.Cash < totalAmount {
			return ErrInsufficientFunds
		}

		trade = entity.Transaction{
			UserID:      userID,
			StockID:     stockID,
			Type:        entity.TradeSideBuy,
			Quantity:    quantity,
			Price:       stock.CurrentPrice,
			TotalAmount: totalAmount,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.User{}).Where("id = ?", userID).
			Update("cash", gorm.Expr("cash - ?", totalAmount)).Error; err != nil {
			return err
		}

		var holding entity.UserStock
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND stock_id = ?", userID, stockID).
			First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			newQuantity, avgPrice := holdingAfterBuy(0, 0, quantity, stock.CurrentPrice)
			return tx.Create(&entity.UserStock{
				UserID:   userID,
				StockID:  stockID,
				Quantity: newQuantity,
				AvgPrice: avgPrice,
			}).Error
		}
		if err != nil {
			return err
		}

		newQuantity, avgPrice := holdingAfterBuy(holding.Quantity, holding.AvgPrice, quantity, stock.CurrentPrice)
		return tx.Model(&entity.UserStock{}).Where("id = ?", holding.ID).
			Updates(map[string]interface{}{
				"quantity":  newQuantity,
				"avg_price": avgPrice,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// ExecuteSell credits the user's cash and decrements the holding, deleting
// the row when the quantity reaches zero. The average cost is left unchanged
// on a partial sell.
func (r *tradeRepository) ExecuteSell(ctx context.Context, userID, stockID uint, quantity int64) (*entity.Transaction, error) {
	var trade entity.Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holding entity.UserStock
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND stock_id = ?", userID, stockID).
			First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && holding.Quantity < quantity) {
			return ErrInsufficientHoldings
		}
		if err != nil {
			return err
		}

		var stock entity.Stock
		if err := tx.First(&stock, stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		totalAmount := stock.CurrentPrice * quantity
		trade = entity.Transaction{
			UserID:      userID,
			StockID:     stockID,
			Type:        entity.TradeSideSell,
			Quantity:    quantity,
			Price:       stock.CurrentPrice,
			TotalAmount: totalAmount,
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity.User{}).Where("id = ?", userID).
			Update("cash", gorm.Expr("cash + ?", totalAmount)).Error; err != nil {
			return err
		}

		newQuantity, avgPrice := holdingAfterSell(holding.Quantity, holding.AvgPrice, quantity)
		if newQuantity == 0 {
			return tx.Delete(&entity.UserStock{}, holding.ID).Error
		}
		return tx.Model(&entity.UserStock{}).Where("id = ?", holding.ID).
			Updates(map[string]interface{}{
				"quantity":  newQuantity,
				"avg_price": avgPrice,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// FindByUser retrieves a user's most recent ledger entries joined with
// stock data.
func (r *tradeRepository) FindByUser(ctx context.Context, userID uint, limit int) ([]TransactionWithStock, error) {
	var transactions []TransactionWithStock
	err := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Select("transactions.*, stocks.code, stocks.name").
		Joins("JOIN stocks ON stocks.id = transactions.stock_id").
		Where("transactions.user_id = ?", userID).
		Order("transactions.created_at DESC").
		Limit(limit).
		Scan(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
