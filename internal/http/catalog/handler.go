package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/loroshop/loro/internal/catalog"
	"github.com/loroshop/loro/internal/importer"
)

type Handler struct {
	svc    *catalog.Service
	parser *importer.Parser
}

func NewHandler(svc *catalog.Service, parser *importer.Parser) *Handler {
	return &Handler{svc: svc, parser: parser}
}

// Routes mounts the product endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/lookup", h.lookup)
	r.Delete("/{id}", h.delete)
	r.Delete("/", h.clearAll)
}

// ImportRoutes mounts the multipart CSV upload endpoint.
func (h *Handler) ImportRoutes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"product_name"`
	SKU         string    `json:"sku"`
	SupplyPrice int64     `json:"supply_price"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(p *catalog.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		SupplyPrice: p.SupplyPrice,
		CreatedAt:   p.CreatedAt,
	}
}

type createProductRequest struct {
	Name        string `json:"product_name"`
	SKU         string `json:"sku"`
	SupplyPrice int64  `json:"supply_price"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Add(r.Context(), catalog.CreateParams{
		Name:        req.Name,
		SKU:         req.SKU,
		SupplyPrice: req.SupplyPrice,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.LookupByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type rowErrorDTO struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type importResponse struct {
	Imported int               `json:"imported"`
	Products []productResponse `json:"products"`
	Failures []rowErrorDTO     `json:"failures"`
}

// importCSV handles a multipart product sheet upload. Row failures from
// parsing and from validation are merged into one report; the upload as
// a whole still succeeds.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	parsed, err := h.parser.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.ImportBatch(r.Context(), parsed.Rows)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := importResponse{
		Imported: len(result.Imported),
		Products: make([]productResponse, 0, len(result.Imported)),
		Failures: make([]rowErrorDTO, 0, len(parsed.Failures)+len(result.Failures)),
	}

	for _, p := range result.Imported {
		resp.Products = append(resp.Products, toResponse(p))
	}

	for _, failures := range [][]catalog.RowError{parsed.Failures, result.Failures} {
		for _, f := range failures {
			resp.Failures = append(resp.Failures, rowErrorDTO{Row: f.Row, Reason: f.Reason})
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *catalog.ValidationError
	if errors.As(err, &vErr) {
		http.Error(w, vErr.Error(), http.StatusBadRequest)
		return
	}

	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}
