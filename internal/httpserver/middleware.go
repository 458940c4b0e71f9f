package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trendora/internal/service/auth"
)

const (
	clientCookie    = "trendora_client"
	clientHeader    = "X-Client-ID"
	clientCtxKey    = "client_id"
	clientCookieAge = 365 * 24 * 60 * 60

	authTokenCookie = "auth_token"
	userDataCookie  = "user_data"
)

// clientMiddleware resolves the browser profile id from the client cookie or
// header, minting a new one when neither holds a valid uuid.
func clientMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if v, err := c.Cookie(clientCookie); err == nil && validClientID(v) {
			id = v
		} else if v := c.GetHeader(clientHeader); validClientID(v) {
			id = v
		}
		if id == "" {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(clientCookie, id, clientCookieAge, "/", "", secure, true)
		c.Header(clientHeader, id)
		c.Set(clientCtxKey, id)
		c.Next()
	}
}

func validClientID(v string) bool {
	_, err := uuid.Parse(strings.TrimSpace(v))
	return v != "" && err == nil
}

func clientID(c *gin.Context) string {
	return c.GetString(clientCtxKey)
}

type tokenVerifier interface {
	Me(ctx context.Context, token string) (*auth.Result, error)
}

// requireRole admits requests whose bearer token the auth backend accepts for
// a user holding role. The token is read from the Authorization header or the
// auth cookie; its own claims are not trusted.
func requireRole(verifier tokenVerifier, role string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		me, err := verifier.Me(c.Request.Context(), token)
		if err != nil {
			var authErr *auth.Error
			if errors.As(err, &authErr) && (authErr.Status == http.StatusUnauthorized || authErr.Status == http.StatusForbidden) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
				return
			}
			logger.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("token verification failed")
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"message": "could not verify credentials"})
			return
		}
		if me.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if v, err := c.Cookie(authTokenCookie); err == nil {
		return v
	}
	return ""
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := logger.Info()
		switch {
		case status >= 500:
			evt = logger.Error()
		case status >= 400:
			evt = logger.Warn()
		}
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		evt.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_id", clientID(c)).
			Msg("request completed")
	}
}

func recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	})
}
