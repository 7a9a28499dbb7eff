package middleware

import (
	"net/http"
	"strconv"

	"github.com/namstudio/NAM-AppointmentService/internal/api/handlers"
)

// UserIDHeader заголовок с ID пользователя, проставляется API-гейтвеем
const UserIDHeader = "X-User-ID"

// Auth проверяет наличие валидного X-User-ID заголовка.
// Сервис доверяет гейтвею: аутентификация выполняется выше по стеку.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "missing "+UserIDHeader+" header")
			return
		}

		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			handlers.RespondUnauthorized(w, "invalid "+UserIDHeader+" header")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserID извлекает ID пользователя из заголовка запроса.
// Возвращает false, если заголовок отсутствует или некорректен.
func UserID(r *http.Request) (int64, bool) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}
