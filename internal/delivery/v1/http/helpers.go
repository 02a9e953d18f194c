package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorStatuses сопоставляет известные ошибки сценариев с HTTP-статусом.
// Текст ошибки отдаётся клиенту как есть, остальные ошибки скрываются за 500.
var errorStatuses = []struct {
	err    error
	status int
}{
	{e.ErrProductNotFound, http.StatusNotFound},
	{e.ErrOrderNotFound, http.StatusNotFound},
	{e.ErrMissingFields, http.StatusBadRequest},
}

func ToHTTPResponse(err error) (int, string) {
	for _, known := range errorStatuses {
		if errors.Is(err, known.err) {
			return known.status, known.err.Error()
		}
	}

	return http.StatusInternalServerError, e.ErrInternalServerError.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	writeJSON(w, code, &ErrorResponse{Code: code, Message: msg})
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
