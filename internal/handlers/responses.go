package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/SanjanaSK25/Career-Connect/internal/logging"
	"github.com/SanjanaSK25/Career-Connect/internal/repositories"
)

// Responses follow the {message}/{data} shapes used across the API: errors
// and acknowledgements carry a message, successful payloads ride under data.

type messageResponse struct {
	Message string `json:"message"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func respondMessage(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respondJSON(ctx, w, status, messageResponse{Message: message})
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any) {
	respondJSON(ctx, w, status, dataResponse{Data: data})
}

// respondServerFault surfaces the raw underlying error message to the
// caller, as the API has always done. Known leak, kept on purpose.
func respondServerFault(ctx context.Context, w http.ResponseWriter, err error) {
	respondMessage(ctx, w, http.StatusInternalServerError, err.Error())
}

// respondStoreError maps repository sentinels onto the API error taxonomy:
// not-found is 404, conflicts are 400, anything else is a server fault.
func respondStoreError(ctx context.Context, w http.ResponseWriter, err error, notFound, conflict string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		respondMessage(ctx, w, http.StatusNotFound, notFound)
	case errors.Is(err, repositories.ErrConflict):
		respondMessage(ctx, w, http.StatusBadRequest, conflict)
	default:
		respondServerFault(ctx, w, err)
	}
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// pagination reads limit/offset query parameters, clamping the limit to the
// page-size ceiling.
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}
	return limit, offset
}
