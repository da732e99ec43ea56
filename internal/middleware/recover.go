package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"Gallerist/internal/response"
)

// WithRecover превращает панику обработчика в ответ 500.
// detail включает текст паники в поле error (только вне production).
func WithRecover(detail bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Errorw("panic recovered", "uri", r.RequestURI, "panic", rec, "stack", string(debug.Stack()))
					response.FailDetail(w, http.StatusInternalServerError, "Something went wrong!", fmt.Errorf("%v", rec), detail)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
