package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendora/internal/domain"
	"trendora/internal/session"
)

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// clientSession loads the caller's session, answering the request itself
// when it cannot.
func (a *api) clientSession(c *gin.Context) (*session.Session, bool) {
	s, err := a.deps.Sessions.Get(c.Request.Context(), clientID(c))
	if err != nil {
		a.writeError(c, err)
		return nil, false
	}
	return s, true
}

// resolveItem turns an itemRequest into a line item, preferring the catalog.
func (a *api) resolveItem(c *gin.Context) (domain.LineItem, bool) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return domain.LineItem{}, false
	}
	switch {
	case req.ProductID > 0:
		item, err := a.deps.Catalog.LineItem(c.Request.Context(), req.ProductID)
		if err != nil {
			a.writeError(c, err)
			return domain.LineItem{}, false
		}
		return item, true
	case req.Product != nil && req.Product.ID > 0:
		return req.Product.Clone(), true
	default:
		badRequest(c, errors.New("productId or product required"))
		return domain.LineItem{}, false
	}
}

func (a *api) renderCart(c *gin.Context, status int, s *session.Session) {
	items := s.Cart.Items()
	totals := domain.ComputeTotals(items, a.deps.DeliveryCharge)
	c.JSON(status, cartView{
		Items:          items,
		Subtotal:       totals.Subtotal,
		DeliveryCharge: totals.DeliveryCharge,
		Total:          totals.Total,
		Count:          len(items),
	})
}

func (a *api) getCart(c *gin.Context) {
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	a.renderCart(c, http.StatusOK, s)
}

func (a *api) addCartItem(c *gin.Context) {
	item, ok := a.resolveItem(c)
	if !ok {
		return
	}
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	s.Cart.AddItem(c.Request.Context(), item)
	a.renderCart(c, http.StatusOK, s)
}

func (a *api) setCartQuantity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	s.Cart.SetQuantity(c.Request.Context(), id, *req.Quantity)
	a.renderCart(c, http.StatusOK, s)
}

func (a *api) removeCartItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	s.Cart.RemoveItem(c.Request.Context(), id)
	a.renderCart(c, http.StatusOK, s)
}

func (a *api) clearCart(c *gin.Context) {
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	s.Cart.Clear(c.Request.Context())
	a.renderCart(c, http.StatusOK, s)
}
