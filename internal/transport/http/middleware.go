// internal/transport/http/middleware.go
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/H0guera/task-tracker/internal/jwt"
	"github.com/H0guera/task-tracker/internal/response"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
	"github.com/H0guera/task-tracker/internal/usecase"
)

type Middleware struct {
	resolve usecase.ResolveHandler
}

func NewMiddleware(resolve usecase.ResolveHandler) *Middleware {
	return &Middleware{resolve}
}

type contextKey string

const ctxUser contextKey = "user"

// UserFromContext достаёт аутентифицированного пользователя из контекста.
func UserFromContext(ctx context.Context) (*postgres.User, bool) {
	user, ok := ctx.Value(ctxUser).(*postgres.User)
	return user, ok
}

// bearerToken извлекает токен из Authorization. Отсутствие заголовка или
// не-Bearer схема дают 403, как и у HTTPBearer-схем: клиент вообще не
// предъявил учётные данные. Невалидный токен даёт 401.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// JWTMiddleware резолвит access-токен и кладёт пользователя в контекст.
func (m *Middleware) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Forbidden(w, "Not authenticated")
			return
		}

		user, err := m.resolve.Handle(r.Context(), token, jwt.AccessToken)
		if err != nil {
			response.Unauthorized(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
