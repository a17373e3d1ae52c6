package handlers

import (
	"net/http"

	"indoor-network/internal/models"
	"indoor-network/internal/services"

	"go.uber.org/zap"
)

type FloorPolyHandler struct {
	service *services.FloorPolyService
	logr    *zap.Logger
}

func NewFloorPolyHandler(svc *services.FloorPolyService, logr *zap.Logger) *FloorPolyHandler {
	return &FloorPolyHandler{service: svc, logr: logr}
}

type floorPolySyncRequest struct {
	DisplayName string `json:"displayname" validate:"required"`
	ModifiedBy  string `json:"modified_by"`
}

// Sync refreshes pedrouterelfloorpoly from the site's IMDF levels.
func (h *FloorPolyHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req floorPolySyncRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ModifiedBy == "" {
		req.ModifiedBy = "api"
	}

	res := h.service.Sync(r.Context(), req.DisplayName, req.ModifiedBy)
	if res.Status != models.StatusSuccess {
		writeJSON(w, http.StatusInternalServerError, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
