package suppliers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ivy-monitoring/supplier-api/internal/platform/httpx"
)

var errInvalidID = httpx.Errorf(httpx.ErrValidation, "Invalid supplier ID")

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, "list suppliers failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, suppliers)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get supplier failed", err, slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, supplier)
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	list, err := h.service.Products(r.Context(), id)
	if err != nil {
		h.fail(w, r, "list supplier products failed", err, slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	list, err := h.service.Services(r.Context(), id)
	if err != nil {
		h.fail(w, r, "list supplier services failed", err, slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	details, err := h.service.Details(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get supplier details failed", err, slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, details)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.fields(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), fields)
	if err != nil {
		h.fail(w, r, "create supplier failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	fields, ok := h.fields(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), id, fields)
	if err != nil {
		h.fail(w, r, "update supplier failed", err, slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// UpdateStatus reads the status from the query string, falling back to a JSON body.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	var update StatusUpdate
	if q := r.URL.Query(); q.Has("status") {
		update.Status = q.Get("status")
	} else if err := httpx.DecodeJSON(r, &update); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	updated, err := h.service.UpdateStatus(r.Context(), id, update)
	if err != nil {
		h.fail(w, r, "update supplier status failed", err, slog.Int64("id", id), slog.String("status", update.Status))
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "delete supplier failed", err, slog.Int64("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Supplier deleted successfully"})
}

func (h *Handler) supplierID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, errInvalidID)
		return 0, false
	}
	return id, true
}

func (h *Handler) fields(w http.ResponseWriter, r *http.Request) (Fields, bool) {
	var fields Fields
	if err := httpx.DecodeJSON(r, &fields); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return nil, false
	}
	return fields, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	if !errors.Is(err, httpx.ErrNotFound) && !errors.Is(err, httpx.ErrValidation) {
		attrs = append(attrs, slog.Any("error", err), slog.String("path", r.URL.Path))
		h.logger.Error(msg, attrs...)
	}
	httpx.RespondError(w, err)
}
