package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"debt-planner/domain"
	"debt-planner/logging"
	"debt-planner/service"
)

type ProjectionHandler struct {
	service *service.ProjectionService
	log     logging.Logger
}

func NewProjectionHandler(service *service.ProjectionService, log logging.Logger) *ProjectionHandler {
	return &ProjectionHandler{service: service, log: log}
}

func (h *ProjectionHandler) ProjectDebt(w http.ResponseWriter, r *http.Request) {
	var debt domain.Debt
	if err := decodeJSON(w, r, &debt); err != nil {
		badRequest(w, h.log, err)
		return
	}

	result, err := h.service.ProjectDebt(r.Context(), debt)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

func (h *ProjectionHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, h.log, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	records, err := h.service.History(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, records)
}
