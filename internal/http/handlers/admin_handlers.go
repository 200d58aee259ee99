package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/http/response"
)

// ListCustomers handles GET /api/admin/customers?search=&customer_type=.
func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CustomerFilter{
		Search:       strings.TrimSpace(q.Get("search")),
		CustomerType: domain.CustomerType(strings.ToLower(strings.TrimSpace(q.Get("customer_type")))),
		Offset:       0,
		Limit:        domain.DefaultPageLimit,
	}

	list, err := h.customers.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, list)
}

// GetCustomer handles GET /api/admin/customers/{id}.
func (h *Handlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer id")
		return
	}

	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, c)
}
