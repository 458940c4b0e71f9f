package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trendora/internal/domain"
)

func (a *api) checkout(c *gin.Context) {
	var info domain.ShippingInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		badRequest(c, err)
		return
	}
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	order, err := a.deps.Checkout.Checkout(c.Request.Context(), s.ClientID, s.Cart, info)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (a *api) listOrders(c *gin.Context) {
	list, err := a.deps.Orders.List(c.Request.Context(), clientID(c), c.Query("status"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
}

func (a *api) getOrder(c *gin.Context) {
	order, err := a.deps.Orders.Get(c.Request.Context(), clientID(c), c.Param("orderNumber"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (a *api) cancelOrder(c *gin.Context) {
	order, err := a.deps.Orders.Cancel(c.Request.Context(), clientID(c), c.Param("orderNumber"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (a *api) adminUpdateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := a.deps.Orders.UpdateStatus(c.Request.Context(), c.Param("client"), c.Param("orderNumber"), req.Status)
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.logger.Info().
		Str("client_id", c.Param("client")).
		Str("order_number", order.OrderNumber).
		Str("status", string(order.Status)).
		Msg("order status changed by admin")
	c.JSON(http.StatusOK, gin.H{"order": order})
}
