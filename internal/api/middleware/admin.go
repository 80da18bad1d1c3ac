package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
)

// AdminTokenHeader заголовок со статическим токеном администратора
const AdminTokenHeader = "X-Admin-Token"

const msgInvalidAdminToken = "требуется токен администратора"

// AdminToken пропускает запрос только с верным X-Admin-Token.
// Пустой токен в конфигурации закрывает административные маршруты полностью
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, msgInvalidAdminToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
