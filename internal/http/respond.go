package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondInternal logs a fault and hides its detail from the client.
func respondInternal(w http.ResponseWriter, r *http.Request, logger *zap.Logger, op string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
		return
	}
	logger.Error(op+" failed",
		zap.Error(err),
		zap.String("request_id", getRequestID(r.Context())),
	)
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
