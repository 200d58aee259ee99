package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/http/response"
	"github.com/casuse/website-backend/internal/service"
)

// Register handles POST /api/public/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegistrationRequest
	if !h.decode(w, r, &in) {
		return
	}

	customer, err := h.registration.Register(r.Context(), &in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, domain.RegistrationResponse{
		Status:         service.StatusOK,
		Message:        "Registration received",
		RegistrationID: customer.ID.String(),
	})
}

// ValidatePasswordSetup handles GET /api/public/password-setup/{token}.
func (h *Handlers) ValidatePasswordSetup(w http.ResponseWriter, r *http.Request) {
	email, err := h.registration.ValidateSetupToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, domain.PasswordSetupTokenInfo{Status: service.StatusOK, Email: email})
}

// CompletePasswordSetup handles POST /api/public/password-setup/{token}.
func (h *Handlers) CompletePasswordSetup(w http.ResponseWriter, r *http.Request) {
	var in domain.PasswordSetupRequest
	if !h.decode(w, r, &in) {
		return
	}

	if err := h.registration.CompletePasswordSetup(r.Context(), chi.URLParam(r, "token"), &in); err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, domain.PasswordSetupResponse{
		Status:  service.StatusOK,
		Message: "Password set successfully",
	})
}

// Login handles POST /api/public/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginRequest
	if !h.decode(w, r, &in) {
		return
	}

	out, err := h.auth.Login(r.Context(), &in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, out)
}
