package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
)

// CheckoutRequest carries the per-request context the orchestrator needs:
// customer identity and callback base URL are passed in explicitly rather
// than read from ambient request state.
type CheckoutRequest struct {
	// CustomerEmail is set when the caller is an authenticated customer.
	CustomerEmail string
	// BaseURL is the absolute base the success/cancel URLs are resolved against.
	BaseURL string
	// IdempotencyKey, when set, is forwarded to the gateway verbatim. The
	// service never generates one: two calls for the same product always
	// create two distinct gateway sessions and two local rows.
	IdempotencyKey string
}

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, productID uint, req CheckoutRequest) (*dto.CheckoutResponse, error)
	ListProducts(ctx context.Context) ([]*model.Product, error)
}

type checkoutServiceImpl struct {
	stripeClient client.StripeClient
	productRepo  repository.ProductRepository
	sessionRepo  repository.PaymentSessionRepository
}

func NewCheckoutService(
	stripeClient client.StripeClient,
	productRepo repository.ProductRepository,
	sessionRepo repository.PaymentSessionRepository,
) CheckoutService {
	return &checkoutServiceImpl{
		stripeClient: stripeClient,
		productRepo:  productRepo,
		sessionRepo:  sessionRepo,
	}
}

func (s *checkoutServiceImpl) CreateCheckoutSession(ctx context.Context, productID uint, req CheckoutRequest) (*dto.CheckoutResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Quantity <= 0 {
		return nil, fmt.Errorf("product %d has non-positive quantity %d", product.ID, product.Quantity)
	}

	baseURL := strings.TrimRight(req.BaseURL, "/")

	// The checkout charge uses the product's own currency so the gateway
	// session and the local row always agree.
	checkoutSession, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionParams{
		Currency:       product.Currency,
		UnitAmount:     product.Amount,
		ProductName:    product.Name,
		Quantity:       product.Quantity,
		SuccessURL:     baseURL + "/success",
		CancelURL:      baseURL + "/cancel",
		CustomerEmail:  req.CustomerEmail,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	session := &model.PaymentSession{
		StripeSessionID: checkoutSession.ID,
		ProductID:       product.ID,
		Currency:        product.Currency,
		AmountTotal:     product.Amount,
		Status:          checkoutSession.Status,
		PaymentStatus:   checkoutSession.PaymentStatus,
	}
	if req.CustomerEmail != "" {
		email := req.CustomerEmail
		session.CustomerEmail = &email
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		// The remote session already exists; nothing here compensates for it.
		log.Printf("gateway session %s created but local insert failed: %v", checkoutSession.ID, err)
		return nil, fmt.Errorf("store payment session in db: %w", err)
	}

	return &dto.CheckoutResponse{
		SessionID:   checkoutSession.ID,
		CheckoutURL: checkoutSession.URL,
	}, nil
}

func (s *checkoutServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.FindAll(ctx)
}
