package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/model"
)

type stubProductRepo struct {
	product *model.Product
	err     error
	calls   int
}

func (s *stubProductRepo) Seed(_ context.Context) error { return nil }

func (s *stubProductRepo) FindByID(_ context.Context, _ uint) (*model.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductRepo) FindAll(_ context.Context) ([]*model.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*model.Product{s.product}, nil
}

type stubSessionRepo struct {
	created   []*model.PaymentSession
	createErr error
}

func (s *stubSessionRepo) Create(_ context.Context, session *model.PaymentSession) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, session)
	return nil
}

func (s *stubSessionRepo) FindByStripeSessionID(_ context.Context, _ string) (*model.PaymentSession, error) {
	return nil, nil
}

func (s *stubSessionRepo) CountByProduct(_ context.Context, _ uint) (int64, error) {
	return int64(len(s.created)), nil
}

type stubStripeClient struct {
	err        error
	calls      int
	lastParams *client.CheckoutSessionParams
}

func (s *stubStripeClient) CreateCheckoutSession(_ context.Context, params *client.CheckoutSessionParams) (*client.CheckoutSession, error) {
	s.calls++
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
	// distinct id per call, like the real gateway
	return &client.CheckoutSession{
		ID:            fmt.Sprintf("cs_test_%d", s.calls),
		URL:           fmt.Sprintf("https://checkout.stripe.test/pay/cs_test_%d", s.calls),
		Status:        "open",
		PaymentStatus: "unpaid",
	}, nil
}

func widget() *model.Product {
	return &model.Product{
		ID:       1,
		Name:     "Widget",
		Currency: "usd",
		Amount:   2000,
		Quantity: 3,
	}
}

func TestCreateCheckoutSession_Success(t *testing.T) {
	gateway := &stubStripeClient{}
	sessions := &stubSessionRepo{}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: widget()}, sessions)

	resp, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{
		BaseURL: "https://shop.example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, "https://checkout.stripe.test/pay/cs_test_1", resp.CheckoutURL)

	require.Equal(t, 1, gateway.calls)
	assert.Equal(t, "usd", gateway.lastParams.Currency)
	assert.Equal(t, uint(2000), gateway.lastParams.UnitAmount)
	assert.Equal(t, "Widget", gateway.lastParams.ProductName)
	assert.Equal(t, 3, gateway.lastParams.Quantity)
	assert.Equal(t, "https://shop.example.com/success", gateway.lastParams.SuccessURL)
	assert.Equal(t, "https://shop.example.com/cancel", gateway.lastParams.CancelURL)

	require.Len(t, sessions.created, 1)
	row := sessions.created[0]
	assert.Equal(t, "cs_test_1", row.StripeSessionID)
	assert.Equal(t, uint(1), row.ProductID)
	assert.Equal(t, "usd", row.Currency)
	assert.Equal(t, uint(2000), row.AmountTotal)
	assert.Equal(t, "open", row.Status)
	assert.Equal(t, "unpaid", row.PaymentStatus)
	assert.Nil(t, row.CustomerEmail)
}

func TestCreateCheckoutSession_ProductCurrencyUsed(t *testing.T) {
	product := widget()
	product.Currency = "eur"

	gateway := &stubStripeClient{}
	sessions := &stubSessionRepo{}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: product}, sessions)

	_, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{BaseURL: "http://shop.test"})
	require.NoError(t, err)

	assert.Equal(t, "eur", gateway.lastParams.Currency)
	assert.Equal(t, "eur", sessions.created[0].Currency)
}

func TestCreateCheckoutSession_AuthenticatedCustomer(t *testing.T) {
	gateway := &stubStripeClient{}
	sessions := &stubSessionRepo{}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: widget()}, sessions)

	_, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{
		CustomerEmail: "buyer@example.com",
		BaseURL:       "http://shop.test",
	})
	require.NoError(t, err)

	assert.Equal(t, "buyer@example.com", gateway.lastParams.CustomerEmail)
	require.NotNil(t, sessions.created[0].CustomerEmail)
	assert.Equal(t, "buyer@example.com", *sessions.created[0].CustomerEmail)
}

func TestCreateCheckoutSession_IdempotencyKeyForwarded(t *testing.T) {
	gateway := &stubStripeClient{}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: widget()}, &stubSessionRepo{})

	_, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{
		BaseURL:        "http://shop.test",
		IdempotencyKey: "key-123",
	})
	require.NoError(t, err)

	assert.Equal(t, "key-123", gateway.lastParams.IdempotencyKey)
}

func TestCreateCheckoutSession_ProductNotFound(t *testing.T) {
	gateway := &stubStripeClient{}
	sessions := &stubSessionRepo{}
	svc := NewCheckoutService(gateway, &stubProductRepo{err: model.ErrProductNotFound}, sessions)

	_, err := svc.CreateCheckoutSession(context.Background(), 999, CheckoutRequest{BaseURL: "http://shop.test"})

	require.ErrorIs(t, err, model.ErrProductNotFound)
	assert.Equal(t, 0, gateway.calls)
	assert.Empty(t, sessions.created)
}

func TestCreateCheckoutSession_GatewayFailure(t *testing.T) {
	gateway := &stubStripeClient{err: &client.APIError{StatusCode: 401, Message: "invalid api key"}}
	sessions := &stubSessionRepo{}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: widget()}, sessions)

	_, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{BaseURL: "http://shop.test"})

	require.Error(t, err)
	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Empty(t, sessions.created, "no row may be written when the gateway call fails")
}

func TestCreateCheckoutSession_GatewayTimeout(t *testing.T) {
	gateway := &stubStripeClient{err: context.DeadlineExceeded}
	sessions := &stubSessionRepo{}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: widget()}, sessions)

	_, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{BaseURL: "http://shop.test"})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, sessions.created)
}

func TestCreateCheckoutSession_PersistFailure(t *testing.T) {
	gateway := &stubStripeClient{}
	sessions := &stubSessionRepo{createErr: errors.New("disk full")}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: widget()}, sessions)

	_, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{BaseURL: "http://shop.test"})

	require.Error(t, err)
	assert.Equal(t, 1, gateway.calls, "the remote session was already created")
}

func TestCreateCheckoutSession_NoIdempotency(t *testing.T) {
	gateway := &stubStripeClient{}
	sessions := &stubSessionRepo{}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: widget()}, sessions)

	first, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{BaseURL: "http://shop.test"})
	require.NoError(t, err)
	second, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{BaseURL: "http://shop.test"})
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	require.Len(t, sessions.created, 2)
	assert.NotEqual(t, sessions.created[0].StripeSessionID, sessions.created[1].StripeSessionID)
}

func TestCreateCheckoutSession_BaseURLTrailingSlash(t *testing.T) {
	gateway := &stubStripeClient{}
	svc := NewCheckoutService(gateway, &stubProductRepo{product: widget()}, &stubSessionRepo{})

	_, err := svc.CreateCheckoutSession(context.Background(), 1, CheckoutRequest{BaseURL: "http://shop.test/"})
	require.NoError(t, err)

	assert.Equal(t, "http://shop.test/success", gateway.lastParams.SuccessURL)
	assert.Equal(t, "http://shop.test/cancel", gateway.lastParams.CancelURL)
}
