package web

import (
	"net/http"

	"verger/internal/app"
	"verger/internal/core"

	"github.com/shopspring/decimal"
)

// listSales handles GET /api/sales.
func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSales(r.Context(), listLimit(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sales)
}

// recordSale handles POST /api/sales.
// Body: { product_id, quantity, channel, client_id? }
func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int64           `json:"product_id"`
		Quantity  decimal.Decimal `json:"quantity"`
		Channel   string          `json:"channel"`
		ClientID  *int64          `json:"client_id"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.RecordSale(r.Context(), app.SaleRequest{
		ProductID: body.ProductID,
		Quantity:  body.Quantity,
		Channel:   core.Channel(body.Channel),
		ClientID:  body.ClientID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, map[string]int64{"sale_id": result.SaleID})
}

// salesStatistics handles GET /api/sales/statistics.
func (h *Handler) salesStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.SalesStatistics(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
