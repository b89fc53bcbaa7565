package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"verger/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Products ──────────────────────────────────────────────────────────────
	r.Get("/api/products", h.listProducts)
	r.Post("/api/products", h.createProduct)
	r.Get("/api/products/{id}", h.getProduct)
	r.Put("/api/products/{id}", h.updateProduct)
	r.Delete("/api/products/{id}", h.deleteProduct)

	// ── Movements ─────────────────────────────────────────────────────────────
	r.Get("/api/movements", h.listMovements)
	r.Post("/api/movements/entry", h.recordEntry)
	r.Post("/api/movements/exit", h.recordExit)

	// ── Sales ─────────────────────────────────────────────────────────────────
	r.Get("/api/sales", h.listSales)
	r.Post("/api/sales", h.recordSale)
	r.Get("/api/sales/statistics", h.salesStatistics)

	// ── Clients ───────────────────────────────────────────────────────────────
	r.Get("/api/clients", h.listClients)
	r.Post("/api/clients", h.createClient)
	r.Get("/api/clients/statistics", h.clientStatistics)
	r.Get("/api/clients/{id}", h.getClient)
	r.Put("/api/clients/{id}", h.updateClient)
	r.Delete("/api/clients/{id}", h.deactivateClient)
	r.Get("/api/clients/{id}/history", h.clientHistory)

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts and parses the {id} URL parameter.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// listLimit reads an optional ?limit= query parameter, defaulting to 100 and
// capped at 1000.
func listLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			if n > 1000 {
				return 1000
			}
			return n
		}
	}
	return 100
}
