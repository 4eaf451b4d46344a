package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iudanet/fasalsaathi/pkg/api"
)

// InternalErrorDetail - единственное сообщение, которое отдается вместе с 500
const InternalErrorDetail = "An unexpected server error occurred."

// WriteDetail отправляет {"detail": detail} с указанным статусом
func WriteDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Detail: detail})
}
