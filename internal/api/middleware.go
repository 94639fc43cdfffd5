package api

import (
	"net/http"
	"strings"

	"papertrade/internal/api/handler"
	"papertrade/internal/auth"
)

// Authenticator verifies the request's identity token (Bearer header or
// session cookie, header taking precedence) and stores the user id in the
// request context. Unauthenticated requests get a 401.
func Authenticator(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				if cookie, err := r.Cookie(handler.SessionCookie); err == nil {
					tokenStr = cookie.Value
				}
			}
			if tokenStr == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			userID, err := auth.ParseToken(tokenStr, jwtSecret)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(handler.ContextWithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
