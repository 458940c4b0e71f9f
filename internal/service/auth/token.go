package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

const RoleAdmin = "admin"

// RoleFromToken reads the role claim from a JWT payload without verifying the
// signature. It only picks the post-login landing page; authorization goes
// through Client.Me. Malformed tokens yield "".
func RoleFromToken(token string) string {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) < 2 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return ""
	}
	var claims struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return ""
	}
	return claims.Role
}

// RedirectFor is the landing page after login.
func RedirectFor(role string) string {
	if role == RoleAdmin {
		return "/admin/dashboard"
	}
	return "/dashboard"
}
