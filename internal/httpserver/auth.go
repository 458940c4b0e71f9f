package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trendora/internal/service/auth"
)

const authCookieAge = 7 * 24 * 60 * 60

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (a *api) login(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := a.deps.Auth.Login(c.Request.Context(), in)
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authTokenCookie, res.Token, authCookieAge, "/", "", a.deps.CookieSecure, true)
	if len(res.User) > 0 {
		c.SetCookie(userDataCookie, string(res.User), authCookieAge, "/", "", a.deps.CookieSecure, false)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  res.Message,
		"data":     res.User,
		"role":     res.Role,
		"redirect": res.Redirect,
	})
}

func (a *api) register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := a.deps.Auth.Register(c.Request.Context(), in)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": res.Message, "data": res.User})
}

func (a *api) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authTokenCookie, "", -1, "/", "", a.deps.CookieSecure, true)
	c.SetCookie(userDataCookie, "", -1, "/", "", a.deps.CookieSecure, false)
	c.JSON(http.StatusOK, gin.H{"success": true, "redirect": "/login"})
}

func (a *api) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := a.deps.Auth.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message})
}

func (a *api) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := a.deps.Auth.ResetPassword(c.Request.Context(), c.Param("token"), req.NewPassword)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message})
}

// me reports the signed-in user as the auth backend sees the token.
func (a *api) me(c *gin.Context) {
	res, err := a.deps.Auth.Me(c.Request.Context(), bearerToken(c))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res.User, "role": res.Role, "redirect": res.Redirect})
}

func (a *api) getProfile(c *gin.Context) {
	res, err := a.deps.Auth.Profile(c.Request.Context(), bearerToken(c), c.Param("userId"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res.User})
}

// updateProfile streams the multipart form to the auth backend and refreshes
// the user cookie with the stored result.
func (a *api) updateProfile(c *gin.Context) {
	res, err := a.deps.Auth.UpdateProfile(c.Request.Context(), bearerToken(c), c.Param("userId"),
		c.GetHeader("Content-Type"), c.Request.Body)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if len(res.User) > 0 {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(userDataCookie, string(res.User), authCookieAge, "/", "", a.deps.CookieSecure, false)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message, "data": res.User})
}
