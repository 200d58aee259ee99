package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/http/response"
	"github.com/casuse/website-backend/internal/service"
	"github.com/casuse/website-backend/pkg/logger"
)

type Handlers struct {
	registration service.RegistrationService
	auth         service.AuthService
	customers    service.CustomerService
	log          *zap.Logger
}

func New(
	registration service.RegistrationService,
	auth service.AuthService,
	customers service.CustomerService,
	log *zap.Logger,
) *Handlers {
	return &Handlers{
		registration: registration,
		auth:         auth,
		customers:    customers,
		log:          log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": service.StatusOK})
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return false
	}
	return true
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	response.FromError(w, logger.WithContext(r.Context(), h.log), err)
}
