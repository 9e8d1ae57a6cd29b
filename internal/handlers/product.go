package handlers

import (
	"net/http"

	"github.com/diewo77/commcentre/httpx"
	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/services"
)

type ProductHandler struct {
	svc *services.InventoryService
}

func NewProductHandler(svc *services.InventoryService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productBody struct {
	Name          flexString `json:"name"`
	Barcode       flexString `json:"barcode"`
	Category      flexString `json:"category"`
	CostPrice     flexString `json:"cost_price"`
	SellingPrice  flexString `json:"selling_price"`
	StockQuantity flexString `json:"stock_quantity"`
}

// readProductInput accepts a JSON body or a classic form post.
func readProductInput(r *http.Request) (models.ProductInput, error) {
	if isJSON(r) {
		var b productBody
		if err := httpx.DecodeJSON(r, &b); err != nil {
			return models.ProductInput{}, err
		}
		return models.ProductInput{
			Name:          string(b.Name),
			Barcode:       string(b.Barcode),
			Category:      string(b.Category),
			CostPrice:     string(b.CostPrice),
			SellingPrice:  string(b.SellingPrice),
			StockQuantity: string(b.StockQuantity),
		}, nil
	}
	if err := r.ParseForm(); err != nil {
		return models.ProductInput{}, err
	}
	return models.ProductInput{
		Name:          r.FormValue("name"),
		Barcode:       r.FormValue("barcode"),
		Category:      r.FormValue("category"),
		CostPrice:     r.FormValue("cost_price"),
		SellingPrice:  r.FormValue("selling_price"),
		StockQuantity: r.FormValue("stock_quantity"),
	}, nil
}

// Handle serves /products: GET lists, POST creates.
func (h *ProductHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		httpx.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// List returns the inventory read from the store, optionally filtered by
// category and a name/barcode term.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed_to_list_products")
		return
	}
	q := r.URL.Query()
	items := services.FilterProducts(products, q.Get("category"), q.Get("q"))
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := readProductInput(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "product_create_failed")
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

// Update replaces every editable field of the product named by ?id=.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		httpx.MethodNotAllowed(w, http.MethodPost, http.MethodPut)
		return
	}
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	in, err := readProductInput(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	p, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err, "update_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.MethodNotAllowed(w, http.MethodPost, http.MethodDelete)
		return
	}
	id, ok := httpx.IDParam(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "delete_failed")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
