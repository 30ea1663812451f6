package handler

import (
	"time"
)

// ErrorResponse — стандартный формат ошибки API
type ErrorResponse struct {
	Detail    string    `json:"detail"`    // Описание ошибки
	Timestamp time.Time `json:"timestamp"` // Время ответа
}

// newError собирает тело ошибки с текущим временем
func newError(detail string) ErrorResponse {
	return ErrorResponse{
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}
