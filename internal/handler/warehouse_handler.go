package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/auth"
	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/metrics"
	"github.com/prn-tf/inventario/internal/service"
)

// WarehouseHandler handles warehouse ("estoque") requests.
type WarehouseHandler struct {
	warehouseService *service.WarehouseService
	logger           zerolog.Logger
}

// NewWarehouseHandler creates a new WarehouseHandler.
func NewWarehouseHandler(warehouseService *service.WarehouseService, logger zerolog.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		warehouseService: warehouseService,
		logger:           logger.With().Str("handler", "warehouse").Logger(),
	}
}

// warehouseRequest is the create/update request body.
type warehouseRequest struct {
	Name string `json:"name"`
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("the id must be a positive integer.")
	}
	return id, nil
}

// List handles GET /api/estoque. Warehouses come back with their
// products attached.
func (h *WarehouseHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	output, err := h.warehouseService.List(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, output.Warehouses)
}

// Get handles GET /api/estoque/{id}. A warehouse that is missing,
// deleted, or someone else's yields a success envelope with null data.
func (h *WarehouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	output, err := h.warehouseService.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if output.Warehouse == nil {
		writeSuccess(w, http.StatusOK, nil)
		return
	}
	writeSuccess(w, http.StatusOK, output.Warehouse)
}

// Create handles POST /api/estoque.
func (h *WarehouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req warehouseRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	output, err := h.warehouseService.Create(r.Context(), service.CreateWarehouseInput{
		OwnerID: identity.UserID,
		Name:    req.Name,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("warehouse", "create")
	writeSuccess(w, http.StatusCreated, output.Warehouse)
}

// Update handles PUT /api/estoque/{id}.
func (h *WarehouseHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req warehouseRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	output, err := h.warehouseService.Update(r.Context(), service.UpdateWarehouseInput{
		ID:      id,
		OwnerID: identity.UserID,
		Name:    req.Name,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("warehouse", "update")
	writeSuccess(w, http.StatusOK, output.Warehouse)
}

// Delete handles DELETE /api/estoque/{id}. Products in the warehouse go
// with it.
func (h *WarehouseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if err := h.warehouseService.Delete(r.Context(), id, identity.UserID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("warehouse", "delete")
	writeSuccess(w, http.StatusOK, nil)
}
