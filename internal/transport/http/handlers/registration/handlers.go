package registrationhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/employee"
	"hrms/internal/domain/registration"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
}

func NewHandler(svc *employee.Service) *Handler {
	return &Handler{Service: svc}
}

// stepRequest carries the draft and, when editing, the id of the record
// whose own email does not count as taken.
type stepRequest struct {
	ID string `json:"id"`
	registration.Draft
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/registration/steps/{step}/validate", h.handleValidateStep)
}

// handleValidateStep validates one wizard page. An invalid page is still a
// 200 response; the result carries the issues.
func (h *Handler) handleValidateStep(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	step, err := registration.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "unknown_step", err.Error(), reqID)
		return
	}
	var payload stepRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	api.Success(w, h.Service.Validate(r.Context(), step, payload.Draft, payload.ID), reqID)
}
