package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront-checkout/internal/model"
)

type PaymentSessionRepository interface {
	Create(ctx context.Context, session *model.PaymentSession) error
	FindByStripeSessionID(ctx context.Context, stripeSessionID string) (*model.PaymentSession, error)
	CountByProduct(ctx context.Context, productID uint) (int64, error)
}

type paymentSessionRepoImpl struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) PaymentSessionRepository {
	return &paymentSessionRepoImpl{
		db: db,
	}
}

func (r *paymentSessionRepoImpl) Create(ctx context.Context, session *model.PaymentSession) error {
	return r.db.WithContext(ctx).Omit("Product").Create(session).Error
}

func (r *paymentSessionRepoImpl) FindByStripeSessionID(ctx context.Context, stripeSessionID string) (*model.PaymentSession, error) {
	var session model.PaymentSession
	err := r.db.WithContext(ctx).
		Where("stripe_session_id = ?", stripeSessionID).
		First(&session).Error

	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *paymentSessionRepoImpl) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PaymentSession{}).
		Where("product_id = ?", productID).
		Count(&count).Error

	return count, err
}
