package auth

import (
	"sort"
	"strings"
)

const minPasswordLen = 6

// ValidationError is returned before any network call when input is unusable.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func validateLogin(in LoginInput) error {
	fields := map[string]string{}
	if !looksLikeEmail(in.Email) {
		fields["email"] = "Enter a valid email"
	}
	if in.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateRegister(in RegisterInput) error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "Enter your name"
	}
	if !looksLikeEmail(in.Email) {
		fields["email"] = "Enter a valid email"
	}
	switch {
	case in.Password == "":
		fields["password"] = "Password is required"
	case len(in.Password) < minPasswordLen:
		fields["password"] = "Minimum 6 characters"
	}
	if in.Password != in.ConfirmPassword {
		fields["confirmPassword"] = "Passwords do not match"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func looksLikeEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
