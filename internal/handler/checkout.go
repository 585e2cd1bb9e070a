package handler

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	baseURL         string
}

func NewCheckoutHandler(checkoutService service.CheckoutService, baseURL string) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		baseURL:         baseURL,
	}
}

// callbackBaseURL prefers the configured public base URL and falls back to
// the incoming request, mirroring how the absolute callback URLs were built
// from the request in the original storefront.
func (h *CheckoutHandler) callbackBaseURL(c echo.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return c.Scheme() + "://" + c.Request().Host
}

func customerEmail(c echo.Context) string {
	email, _ := c.Get(middleware.CustomerEmailKey).(string)
	return email
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such product")
	}

	resp, err := h.checkoutService.CreateCheckoutSession(ctx, uint(productID), service.CheckoutRequest{
		CustomerEmail:  customerEmail(c),
		BaseURL:        h.callbackBaseURL(c),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no such product")
		}
		return err
	}

	return c.Redirect(http.StatusSeeOther, resp.CheckoutURL)
}

func (h *CheckoutHandler) ListProductsJSON(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.checkoutService.ListProducts(ctx)
	if err != nil {
		return err
	}

	resp := make([]*dto.ProductResponse, len(products))
	for i, product := range products {
		resp[i] = &dto.ProductResponse{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			Currency:    product.Currency,
			Amount:      product.Amount,
			Quantity:    product.Quantity,
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) ProductList(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.checkoutService.ListProducts(ctx)
	if err != nil {
		return err
	}

	var rows strings.Builder
	for _, p := range products {
		fmt.Fprintf(&rows, `
		<tr>
			<td>%s</td>
			<td>%s</td>
			<td>%.2f %s</td>
			<td>%d</td>
			<td><form method="post" action="/checkout/%d"><button type="submit">Buy</button></form></td>
		</tr>`,
			html.EscapeString(p.Name),
			html.EscapeString(p.Description),
			float64(p.Amount)/100,
			html.EscapeString(strings.ToUpper(p.Currency)),
			p.Quantity,
			p.ID,
		)
	}

	page := fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Store</title>
		<style>
			body { font-family: Arial, sans-serif; margin: 40px; }
			table { border-collapse: collapse; }
			td, th { border: 1px solid #ccc; padding: 8px 12px; }
		</style>
	</head>
	<body>
		<h2>Products</h2>
		<table>
			<tr><th>Name</th><th>Description</th><th>Price</th><th>Qty</th><th></th></tr>%s
		</table>
	</body>
	</html>`, rows.String())

	return c.HTML(http.StatusOK, page)
}

const successHTML = `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Payment Successful</title>
		<style>
			body { font-family: Arial, sans-serif; text-align: center; margin-top: 80px; }
		</style>
	</head>
	<body>
		<h2>Thanks for your order!</h2>
		<p>Your payment went through. A confirmation will be sent to your email.</p>
		<p><a href="/">Back to the store</a></p>
	</body>
	</html>`

const cancelHTML = `
	<!DOCTYPE html>
	<html>
	<head>
		<meta charset="utf-8">
		<title>Payment Cancelled</title>
		<style>
			body { font-family: Arial, sans-serif; text-align: center; margin-top: 80px; }
		</style>
	</head>
	<body>
		<h2>Payment cancelled</h2>
		<p>No charge was made.</p>
		<p><a href="/">Back to the store</a></p>
	</body>
	</html>`

func (h *CheckoutHandler) Success(c echo.Context) error {
	return c.HTML(http.StatusOK, successHTML)
}

func (h *CheckoutHandler) Cancel(c echo.Context) error {
	return c.HTML(http.StatusOK, cancelHTML)
}
