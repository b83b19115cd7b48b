package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/auth"
	"github.com/prn-tf/inventario/internal/metrics"
	"github.com/prn-tf/inventario/internal/service"
)

// ProductHandler handles product ("produto") requests.
type ProductHandler struct {
	productService *service.ProductService
	logger         zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger.With().Str("handler", "product").Logger(),
	}
}

// productRequest describes one product in a create batch or an update.
type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	WarehouseID int64   `json:"warehouse_id"`
}

// Get handles GET /api/produto/{id}. A product that is missing, deleted,
// or out of the caller's scope yields a success envelope with null data.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	output, err := h.productService.GetByID(r.Context(), id, identity.UserID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if output.Product == nil {
		writeSuccess(w, http.StatusOK, nil)
		return
	}
	writeSuccess(w, http.StatusOK, output.Product)
}

// Create handles POST /api/produto. The body is an array; all products
// are created together or not at all.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var reqs []productRequest
	if err := decodeBody(r, &reqs); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	items := make([]service.ProductInput, len(reqs))
	for i, req := range reqs {
		items[i] = service.ProductInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Quantity:    req.Quantity,
			WarehouseID: req.WarehouseID,
		}
	}

	if _, err := h.productService.AddRange(r.Context(), service.AddProductsInput{
		OwnerID: identity.UserID,
		Items:   items,
	}); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("product", "create")

	// Batch creation acknowledges with an empty body; the created rows are
	// read back through the warehouse listing.
	writeSuccess(w, http.StatusCreated, nil)
}

// Update handles PUT /api/produto/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	output, err := h.productService.Update(r.Context(), service.UpdateProductInput{
		ID:          id,
		OwnerID:     identity.UserID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		WarehouseID: req.WarehouseID,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("product", "update")
	writeSuccess(w, http.StatusOK, output.Product)
}

// Delete handles DELETE /api/produto/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.productService.Delete(r.Context(), id, identity.UserID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	metrics.RecordEntityOperation("product", "delete")
	writeSuccess(w, http.StatusOK, nil)
}
