package web

import (
	"net/http"

	"verger/internal/app"
	"verger/internal/core"

	"github.com/shopspring/decimal"
)

type movementBody struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Source    *string         `json:"source"`
}

// listMovements handles GET /api/movements.
func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListMovements(r.Context(), listLimit(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Movements)
}

// recordEntry handles POST /api/movements/entry (harvest, supplier delivery).
func (h *Handler) recordEntry(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, core.DirectionEntry)
}

// recordExit handles POST /api/movements/exit (loss, internal use — not sales).
func (h *Handler) recordExit(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, core.DirectionExit)
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request, direction core.Direction) {
	var body movementBody
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.ApplyMovement(r.Context(), app.MovementRequest{
		ProductID: body.ProductID,
		Direction: direction,
		Quantity:  body.Quantity,
		Source:    body.Source,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, map[string]int64{"movement_id": result.MovementID})
}
