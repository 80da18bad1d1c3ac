package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

// RateLimit ограничивает частоту запросов общим token bucket.
// rps <= 0 отключает ограничение
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				handlers.RespondTooManyRequests(w, msgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
