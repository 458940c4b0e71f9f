package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"trendora/internal/domain"
	"trendora/internal/service/auth"
	"trendora/internal/service/checkout"
	"trendora/internal/service/orders"
)

type cartView struct {
	Items          []domain.LineItem `json:"items"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DeliveryCharge decimal.Decimal   `json:"deliveryCharge"`
	Total          decimal.Decimal   `json:"total"`
	Count          int               `json:"count"`
}

// itemRequest names a product either by catalog id or inline.
type itemRequest struct {
	ProductID int64            `json:"productId"`
	Product   *domain.LineItem `json:"product"`
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// writeError maps service errors to status codes. Unknown errors are logged
// and hidden behind a generic 500.
func (a *api) writeError(c *gin.Context, err error) {
	var (
		checkoutInvalid *checkout.ValidationError
		authInvalid     *auth.ValidationError
		authErr         *auth.Error
	)
	switch {
	case errors.As(err, &checkoutInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": checkoutInvalid.Fields})
	case errors.As(err, &authInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "errors": authInvalid.Fields})
	case errors.As(err, &authErr):
		status := authErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"success": false, "message": authErr.Message})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, orders.ErrOrderNumberRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, orders.ErrNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, checkout.ErrCheckoutFailed):
		a.logger.Warn().Err(err).Str("client_id", clientID(c)).Msg("checkout failed")
		c.JSON(http.StatusBadGateway, gin.H{"message": "Payment failed. Please try again."})
	case errors.Is(err, domain.ErrUnavailable):
		a.logger.Warn().Err(err).Str("client_id", clientID(c)).Str("path", c.FullPath()).Msg("storage unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Storage is temporarily unavailable. Please try again."})
	default:
		a.logger.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
