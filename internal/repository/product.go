package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-checkout/internal/model"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindAll(ctx context.Context) ([]*model.Product, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: 1, Name: "Widget", Description: "A plain widget", Currency: "usd", Amount: 2000, Quantity: 1},
		{ID: 2, Name: "Widget Pro", Description: "The widget, but pro", Currency: "usd", Amount: 5500, Quantity: 1},
		{ID: 3, Name: "Widget Bundle", Description: "Three widgets in one box", Currency: "usd", Amount: 4800, Quantity: 3},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindAll(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}
