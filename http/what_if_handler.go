package http

import (
	"net/http"

	"debt-planner/domain"
	"debt-planner/logging"
	"debt-planner/service"
)

type WhatIfHandler struct {
	service *service.WhatIfService
	log     logging.Logger
}

func NewWhatIfHandler(service *service.WhatIfService, log logging.Logger) *WhatIfHandler {
	return &WhatIfHandler{service: service, log: log}
}

func (h *WhatIfHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var input domain.WhatIfInput
	if err := decodeJSON(w, r, &input); err != nil {
		badRequest(w, h.log, err)
		return
	}

	result, err := h.service.Analyze(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

func (h *WhatIfHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	var input domain.TermRecommendationInput
	if err := decodeJSON(w, r, &input); err != nil {
		badRequest(w, h.log, err)
		return
	}

	result, err := h.service.RecommendTerm(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}
