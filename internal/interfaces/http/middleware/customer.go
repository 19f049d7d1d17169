// internal/interfaces/http/middleware/customer.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CustomerIDHeader = "X-Customer-ID"
	CustomerIDKey    = "customer_id"

	maxCustomerIDLength = 64
)

// Customer resolves the customer a request acts for. Requests without the
// header act for defaultID.
func Customer(defaultID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := strings.TrimSpace(c.GetHeader(CustomerIDHeader))
		if customerID == "" {
			customerID = defaultID
		}

		if len(customerID) > maxCustomerIDLength || strings.ContainsAny(customerID, " \t\r\n/") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid customer id",
				"code":  "invalid_customer",
			})
			c.Abort()
			return
		}

		c.Set(CustomerIDKey, customerID)
		c.Next()
	}
}

// GetCustomerID extracts the customer id set by Customer
func GetCustomerID(c *gin.Context) string {
	return c.GetString(CustomerIDKey)
}
