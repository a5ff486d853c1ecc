package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/handler"
)

// ProductHandler serves the visible catalog.
type ProductHandler struct {
	products domain.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products domain.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /products?category=&featured=&search=
// category=all is the same as no category.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter domain.ProductFilter
	if category := strings.TrimSpace(query.Get("category")); category != "" && category != "all" {
		filter.Category = &category
	}
	if strings.EqualFold(query.Get("featured"), "true") {
		filter.Featured = true
	}
	if search := strings.TrimSpace(query.Get("search")); search != "" {
		filter.Search = &search
	}

	products, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := handler.PathInt64(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	product, err := h.products.GetVisibleProduct(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"product": product})
}
