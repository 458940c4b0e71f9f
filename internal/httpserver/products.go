package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *api) listProducts(c *gin.Context) {
	products, err := a.deps.Catalog.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (a *api) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := a.deps.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}
