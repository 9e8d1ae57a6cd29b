package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/diewo77/commcentre/httpx"
	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCartID names the counter cart used when a request does not pick one.
const DefaultCartID = "default"

// CartHeader carries the cart session id. The "cart" query parameter works too.
const CartHeader = "X-Cart-ID"

// counter is one cart session. Its mutex serializes requests on the same cart.
type counter struct {
	mu   sync.Mutex
	cart *services.Cart
}

// POSHandler drives the point-of-sale screen: the product grid, cart
// sessions and checkout.
type POSHandler struct {
	carts     *services.CartService
	inventory *services.InventoryService

	mu       sync.Mutex
	counters map[string]*counter
}

func NewPOSHandler(carts *services.CartService, inventory *services.InventoryService) *POSHandler {
	return &POSHandler{
		carts:     carts,
		inventory: inventory,
		counters:  map[string]*counter{DefaultCartID: {cart: services.NewCart()}},
	}
}

type cartView struct {
	CartID        string              `json:"cart_id"`
	Lines         []services.CartLine `json:"lines"`
	ItemCount     int                 `json:"item_count"`
	DiscountInput string              `json:"discount_input"`
	Totals        services.Totals     `json:"totals"`
	DisplayTotal  decimal.Decimal     `json:"display_total"`
}

func viewOf(id string, c *services.Cart) cartView {
	totals := c.Totals()
	lines := c.Lines()
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return cartView{
		CartID:        id,
		Lines:         lines,
		ItemCount:     n,
		DiscountInput: c.DiscountInput(),
		Totals:        totals,
		DisplayTotal:  totals.DisplayTotal(),
	}
}

func cartID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(CartHeader)); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.URL.Query().Get("cart")); id != "" {
		return id
	}
	return DefaultCartID
}

func (h *POSHandler) counter(id string) (*counter, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.counters[id]
	return c, ok
}

// withCart runs fn while holding the lock of the request's cart.
func (h *POSHandler) withCart(w http.ResponseWriter, r *http.Request, fn func(id string, c *services.Cart)) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}
	id := cartID(r)
	c, ok := h.counter(id)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "cart_not_found", nil)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(id, c.cart)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		httpx.MethodNotAllowed(w, http.MethodPost)
		return false
	}
	return true
}

// Open starts a new cart session and returns its id.
func (h *POSHandler) Open(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id := uuid.NewString()
	c := &counter{cart: services.NewCart()}
	h.mu.Lock()
	h.counters[id] = c
	h.mu.Unlock()
	httpx.JSON(w, http.StatusCreated, viewOf(id, c.cart))
}

// Close drops a cart session opened with Open. The default cart stays.
func (h *POSHandler) Close(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id := cartID(r)
	if id == DefaultCartID {
		httpx.JSONError(w, http.StatusBadRequest, "cannot_close_default", nil)
		return
	}
	h.mu.Lock()
	_, ok := h.counters[id]
	delete(h.counters, id)
	h.mu.Unlock()
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "cart_not_found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Products serves the POS grid from the cached catalog.
func (h *POSHandler) Products(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.MethodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = services.CategoryAll
	}
	items, err := h.inventory.Browse(r.Context(), category, q.Get("q"))
	if err != nil {
		writeServiceError(w, r, err, "failed_to_list_products")
		return
	}
	cats, err := h.inventory.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed_to_list_products")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "categories": cats})
}

func (h *POSHandler) Cart(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(id string, c *services.Cart) {
		httpx.JSON(w, http.StatusOK, viewOf(id, c))
	})
}

type lineBody struct {
	ProductID uint `json:"product_id"`
	Index     int  `json:"index"`
	Delta     int  `json:"delta"`
}

// Add puts one unit of product_id in the cart. An unknown product leaves the
// cart as it was and reports added=false.
func (h *POSHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var b lineBody
	if err := httpx.DecodeJSON(r, &b); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	h.withCart(w, r, func(id string, c *services.Cart) {
		added, err := h.carts.AddLine(r.Context(), c, b.ProductID)
		if err != nil {
			writeServiceError(w, r, err, "cart_add_failed")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"added": added, "cart": viewOf(id, c)})
	})
}

func (h *POSHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var b lineBody
	if err := httpx.DecodeJSON(r, &b); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	h.withCart(w, r, func(id string, c *services.Cart) {
		if err := c.RemoveLine(b.Index); err != nil {
			writeServiceError(w, r, err, "cart_remove_failed")
			return
		}
		httpx.JSON(w, http.StatusOK, viewOf(id, c))
	})
}

// Quantity adds delta (usually +1 or -1) to the line at index.
func (h *POSHandler) Quantity(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var b lineBody
	if err := httpx.DecodeJSON(r, &b); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	h.withCart(w, r, func(id string, c *services.Cart) {
		if err := c.AdjustQuantity(b.Index, b.Delta); err != nil {
			writeServiceError(w, r, err, "cart_update_failed")
			return
		}
		httpx.JSON(w, http.StatusOK, viewOf(id, c))
	})
}

func (h *POSHandler) Discount(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var b struct {
		Discount flexString `json:"discount"`
	}
	if err := httpx.DecodeJSON(r, &b); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	h.withCart(w, r, func(id string, c *services.Cart) {
		c.SetDiscount(string(b.Discount))
		httpx.JSON(w, http.StatusOK, viewOf(id, c))
	})
}

func (h *POSHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	h.withCart(w, r, func(id string, c *services.Cart) {
		c.Clear()
		httpx.JSON(w, http.StatusOK, viewOf(id, c))
	})
}

type receipt struct {
	Sale         *models.Sale    `json:"sale"`
	DisplayTotal decimal.Decimal `json:"display_total"`
	ItemCount    int             `json:"item_count"`
}

// Checkout commits the cart and returns the receipt. A sale that was stored
// before a later failure is still reported in the error details.
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	h.withCart(w, r, func(id string, c *services.Cart) {
		sale, err := h.carts.Checkout(r.Context(), c)
		if err != nil {
			if sale != nil && errors.Is(err, services.ErrCheckoutFailed) {
				httpx.JSONError(w, http.StatusInternalServerError, "checkout_incomplete", map[string]any{"sale": sale})
				return
			}
			writeServiceError(w, r, err, "checkout_failed")
			return
		}
		httpx.JSON(w, http.StatusCreated, receipt{Sale: sale, DisplayTotal: sale.DisplayTotal(), ItemCount: sale.ItemCount()})
	})
}
