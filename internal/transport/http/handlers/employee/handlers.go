package employeehandler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/registration"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
	Audit   *audit.Logger
	Log     *slog.Logger
}

func NewHandler(svc *employee.Service, trail *audit.Logger, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Service: svc, Audit: trail, Log: log}
}

// employeeRequest accepts the full record shape. A client-sent id is ignored.
type employeeRequest struct {
	ID string `json:"id"`
	registration.Draft
}

// RegisterRoutes mounts the employee routes. protect wraps every mutating route.
func (h *Handler) RegisterRoutes(r chi.Router, protect func(http.Handler) http.Handler) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.With(protect).Post("/", h.handleCreate)
		r.Get("/email-availability", h.handleEmailAvailability)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.With(protect).Put("/", h.handleUpdate)
			r.With(protect).Delete("/", h.handleDelete)
			r.Get("/document", h.handleDocument)
		})
	})
	r.Get("/dashboard", h.handleDashboard)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.List(r.Context()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeeRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	created, err := h.Service.Register(r.Context(), payload.Draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, audit.ActionCreate, created.ID)
	api.Created(w, created, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, found, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload employeeRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	updated, err := h.Service.Edit(r.Context(), chi.URLParam(r, "employeeID"), payload.Draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, audit.ActionUpdate, updated.ID)
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	remaining, err := h.Service.Remove(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.record(r, audit.ActionDelete, id)
	api.Success(w, remaining, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmailAvailability(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	email := r.URL.Query().Get("email")
	v := shared.NewValidator()
	v.Required("email", email, "is required")
	if v.Reject(w, reqID) {
		return
	}
	available := h.Service.EmailAvailable(r.Context(), email, r.URL.Query().Get("excludeId"))
	api.Success(w, map[string]bool{"available": available}, reqID)
}

func (h *Handler) handleDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "employeeID")
	pdf, err := h.Service.Document(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Summary(r.Context()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, action, id string) {
	actor, _ := middleware.GetOperator(r.Context())
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	h.Audit.Record(r.Context(), audit.Event{
		Actor:      actor,
		Action:     action,
		EntityType: "employee",
		EntityID:   id,
		RequestID:  middleware.GetRequestID(r.Context()),
		IP:         ip,
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	var verr *registration.ValidationError
	switch {
	case errors.As(err, &verr):
		shared.FailValidation(w, reqID, shared.FromRegistration(verr.Issues))
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, employee.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "email already registered", reqID)
	case errors.Is(err, employee.ErrCorrupt):
		h.Log.Error("employee data corrupt", "requestId", reqID, "error", err)
		api.Fail(w, http.StatusInternalServerError, "employee_data_corrupt", "stored employee data is unreadable", reqID)
	default:
		h.Log.Error("employee write failed", "requestId", reqID, "error", err)
		api.Fail(w, http.StatusInternalServerError, "employee_save_failed", "failed to save employee", reqID)
	}
}
