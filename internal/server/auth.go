package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	apperrors "github.com/nextgenai/nextgen/internal/errors"
)

// requireClientKey checks the static client key sent as a bearer token or
// in the apikey header. An empty key disables the check.
func requireClientKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !clientKeyMatches(r, key) {
				apperrors.RespondWithMessage(w, r, apperrors.NewUnauthorizedError("Invalid or missing client key"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKeyMatches(r *http.Request, key string) bool {
	candidates := []string{strings.TrimSpace(r.Header.Get("apikey"))}
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			candidates = append(candidates, strings.TrimSpace(token))
		}
	}
	for _, c := range candidates {
		if c != "" && subtle.ConstantTimeCompare([]byte(c), []byte(key)) == 1 {
			return true
		}
	}
	return false
}
