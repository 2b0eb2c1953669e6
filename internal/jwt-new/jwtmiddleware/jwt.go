package jwtmiddleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	security "github.com/linemk/pricedesk/internal/jwt-new"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// NewJWTMiddleware создаёт middleware для проверки JWT. Пустой секрет - ошибка конфигурации, паникуем сразу.
func NewJWTMiddleware(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		panic("JWT secret is not set")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization (формат: "Bearer <token>")
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing token")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid token format")
				return
			}

			// Парсинг и проверка подписи и срока действия
			claims, err := security.ParseToken(parts[1], secret)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			// Кладем данные пользователя в контекст запроса
			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithClaims кладет claims в контекст
func WithClaims(ctx context.Context, claims *security.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// FromContext извлекает claims из контекста.
func FromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*security.Claims)
	return claims, ok && claims != nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
