package utils

import (
	"fmt"
	"net/http"

	"github.com/JMURv/player-pairing/internal/hdl"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var validate = validator.New()

type Response struct {
	Data any `json:"data"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func SuccessResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(&Response{Data: data}); err != nil {
		zap.L().Debug("failed to encode response", zap.Error(err))
	}
}

// RawResponse writes data without the data envelope.
func RawResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Debug("failed to encode response", zap.Error(err))
	}
}

func ErrResponse(w http.ResponseWriter, statusCode int, err error) {
	RawResponse(w, statusCode, &ErrorResponse{Error: err.Error()})
}

// ParseAndValidate decodes the request body into dst and runs struct
// validation. On failure it writes a 400 response and returns false.
func ParseAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		zap.L().Debug("failed to decode request", zap.String("path", r.URL.Path), zap.Error(err))
		ErrResponse(w, http.StatusBadRequest, fmt.Errorf("%w: %w", hdl.ErrDecodeRequest, err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		ErrResponse(w, http.StatusBadRequest, err)
		return false
	}
	return true
}
