package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *api) listFavorites(c *gin.Context) {
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	items := s.Favorites.Items()
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (a *api) isFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": s.Favorites.Contains(id)})
}

func (a *api) addFavorite(c *gin.Context) {
	item, ok := a.resolveItem(c)
	if !ok {
		return
	}
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	fav := s.Favorites
	fav.Add(c.Request.Context(), item)
	items := fav.Items()
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (a *api) removeFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	fav := s.Favorites
	fav.Remove(c.Request.Context(), id)
	items := fav.Items()
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (a *api) clearFavorites(c *gin.Context) {
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	fav := s.Favorites
	fav.Clear(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"items": fav.Items(), "count": 0})
}

// favoriteToCart copies a saved product into the cart. The favorite stays.
func (a *api) favoriteToCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, ok := a.clientSession(c)
	if !ok {
		return
	}
	item, found := s.Favorites.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "not in favorites"})
		return
	}
	s.Cart.AddItem(c.Request.Context(), item)
	a.renderCart(c, http.StatusOK, s)
}
