package middleware

import "github.com/labstack/echo/v4"

// context key for the authenticated customer's email, empty when anonymous
const CustomerEmailKey = "customer_email"

// sample identity middleware for demo purpose: trusts a header so the flow
// can be exercised with and without a known customer.
// later we can expand this to jwt auth or session auth
func CustomerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CustomerEmailKey, c.Request().Header.Get("X-Customer-Email"))
			return next(c)
		}
	}
}
