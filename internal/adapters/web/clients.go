package web

import (
	"net/http"

	"verger/internal/app"
)

type clientBody struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Consent bool    `json:"consent"`
}

// listClients handles GET /api/clients.
func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListActiveClients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Clients)
}

// getClient handles GET /api/clients/{id}.
func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetClient(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Client)
}

// createClient handles POST /api/clients.
// Body: { name, email?, phone?, consent }
func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var body clientBody
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.CreateClient(r.Context(), app.ClientRequest{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Consent: body.Consent,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeCreated(w, result.Client)
}

// updateClient handles PUT /api/clients/{id}. Consent cannot be changed here.
func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var body clientBody
	if !decodeJSON(w, r, &body) {
		return
	}

	err := h.svc.UpdateClient(r.Context(), id, app.ClientRequest{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "client updated"})
}

// deactivateClient handles DELETE /api/clients/{id} — the right-to-be-forgotten
// endpoint. The client record stays (inactive), their sales lose attribution.
func (h *Handler) deactivateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeactivateClient(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// clientHistory handles GET /api/clients/{id}/history.
func (h *Handler) clientHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	history, err := h.svc.ClientHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, history)
}

// clientStatistics handles GET /api/clients/statistics.
func (h *Handler) clientStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.ClientStatistics(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
