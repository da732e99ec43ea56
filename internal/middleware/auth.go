package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"Gallerist/internal/model"
	"Gallerist/internal/response"
	"Gallerist/internal/service"
)

type ctxKey string

const authKey ctxKey = "auth"

// TokenVerifier проверяет bearer токен и возвращает администратора.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.Admin, error)
}

type authState struct {
	admin *model.Admin
	err   error
}

// WithAuth разбирает заголовок Authorization: Bearer <token> и кладёт в контекст
// администратора или причину отказа. Запрос не прерывается: решение принимает RequireAdmin.
func WithAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			admin, err := v.Verify(r.Context(), token)
			ctx := context.WithValue(r.Context(), authKey, authState{admin: admin, err: err})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает запрос только с валидным токеном существующего администратора.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, _ := r.Context().Value(authKey).(authState)
		if st.admin != nil && st.err == nil {
			next.ServeHTTP(w, r)
			return
		}
		msg := "Not authorized, no token"
		if st.err != nil {
			if !errors.Is(st.err, service.ErrUnauthorized) {
				logger.Errorw("token verification failed", "uri", r.RequestURI, "error", st.err)
				response.Fail(w, http.StatusInternalServerError, "Server error")
				return
			}
			if m, ok := service.Message(st.err); ok {
				msg = m
			}
		}
		response.Fail(w, http.StatusUnauthorized, msg)
	})
}

// AdminFromContext возвращает администратора, прошедшего проверку токена.
func AdminFromContext(ctx context.Context) (*model.Admin, bool) {
	st, ok := ctx.Value(authKey).(authState)
	if !ok || st.err != nil || st.admin == nil {
		return nil, false
	}
	return st.admin, true
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
