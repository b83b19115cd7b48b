// Package handler provides the HTTP layer for the Inventario API.
// Every response, success or failure, is wrapped in the same envelope.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/service"
)

// APIResponse is the envelope wrapping every API response body.
type APIResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data"`
	Message []string `json:"message"`
}

// writeJSON writes an APIResponse with the given status code.
func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	if resp.Message == nil {
		resp.Message = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeSuccess writes a success envelope. Data may be nil, which renders
// as "data": null rather than being omitted.
func writeSuccess(w http.ResponseWriter, status int, data any, messages ...string) {
	writeJSON(w, status, APIResponse{Success: true, Data: data, Message: messages})
}

// writeFailure writes a failure envelope.
func writeFailure(w http.ResponseWriter, status int, messages ...string) {
	writeJSON(w, status, APIResponse{Success: false, Message: messages})
}

// writeServiceError maps a service-layer error onto the envelope.
// Business rule violations are client errors; everything else is masked
// behind a generic 500 so internals never leak.
func writeServiceError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	if ve := domain.AsValidationError(err); ve != nil {
		writeFailure(w, http.StatusBadRequest, ve.Messages...)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyUsed),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrWarehouseNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, service.ErrResourceBusy):
		writeFailure(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error().Err(err).Msg("request failed")
		writeFailure(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("the request body must be valid JSON.")
	}
	return nil
}
