package transport

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"restro/pkg/domain/model"
)

const tokenCookie = "token"

type claimsKey struct{}

// authenticate accepts a bearer token or the token cookie and admits only the given roles.
func (s *server) authenticate(roles ...model.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := requestToken(r)
			if token == "" {
				writeError(w, model.ErrUnauthorized)
				return
			}
			claims, err := s.tokens.Verify(token)
			if err != nil {
				writeError(w, err)
				return
			}
			if !slices.Contains(roles, claims.Role) {
				writeError(w, model.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

func requestToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(tokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func claimsFrom(r *http.Request) model.Claims {
	claims, _ := r.Context().Value(claimsKey{}).(model.Claims)
	return claims
}

// setSessionCookie mirrors the issued token into a cookie for browser clients.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
