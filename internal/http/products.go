package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var category *product.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, err := product.ParseCategory(raw)
		if err != nil {
			h.writeErr(w, r, err)
			return
		}
		category = &c
	}

	products, err := h.products.List(r.Context(), category)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAll(r.Context())
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var np product.NewProduct
	if !decode(w, r, &np) {
		return
	}
	p, err := h.products.Create(r.Context(), np)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch product.Patch
	if !decode(w, r, &patch) {
		return
	}
	p, err := h.products.Update(r.Context(), chi.URLParam(r, "productId"), patch)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "productId")); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
