package http

import (
	"net/http"

	"debt-planner/domain"
	"debt-planner/logging"
	"debt-planner/service"
)

type PortfolioHandler struct {
	service *service.PortfolioService
	log     logging.Logger
}

func NewPortfolioHandler(service *service.PortfolioService, log logging.Logger) *PortfolioHandler {
	return &PortfolioHandler{service: service, log: log}
}

func (h *PortfolioHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input domain.PortfolioInput
	if err := decodeJSON(w, r, &input); err != nil {
		badRequest(w, h.log, err)
		return
	}

	result, err := h.service.Compare(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}
