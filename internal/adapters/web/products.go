package web

import (
	"net/http"

	"verger/internal/app"
	"verger/internal/core"

	"github.com/shopspring/decimal"
)

type productBody struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	InitialStock   decimal.Decimal `json:"initial_stock"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
}

// listProducts handles GET /api/products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Products)
}

// getProduct handles GET /api/products/{id}.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}

// createProduct handles POST /api/products.
// Body: { name, category, unit, initial_stock?, alert_threshold? }
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body productBody
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.CreateProduct(r.Context(), app.CreateProductRequest{
		Name:           body.Name,
		Category:       core.Category(body.Category),
		Unit:           core.Unit(body.Unit),
		InitialStock:   body.InitialStock,
		AlertThreshold: body.AlertThreshold,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, result.Product)
}

// updateProduct handles PUT /api/products/{id}.
func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body productBody
	if !decodeJSON(w, r, &body) {
		return
	}

	err := h.svc.UpdateProduct(r.Context(), id, app.UpdateProductRequest{
		Name:           body.Name,
		Category:       core.Category(body.Category),
		Unit:           core.Unit(body.Unit),
		AlertThreshold: body.AlertThreshold,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "product updated"})
}

// deleteProduct handles DELETE /api/products/{id}.
func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "product deleted"})
}
