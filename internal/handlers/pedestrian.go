package handlers

import (
	"net/http"

	"indoor-network/internal/models"
	"indoor-network/internal/services"

	"go.uber.org/zap"
)

type PedestrianHandler struct {
	service *services.PedestrianService
	logr    *zap.Logger
}

func NewPedestrianHandler(svc *services.PedestrianService, logr *zap.Logger) *PedestrianHandler {
	return &PedestrianHandler{service: svc, logr: logr}
}

type pedestrianSyncRequest struct {
	FolderPath string `json:"folder_path" validate:"required"`
}

// Sync reconciles pedestrian_route against the geodatabase at folder_path.
func (h *PedestrianHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req pedestrianSyncRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.service.SyncFromFolder(r.Context(), req.FolderPath)
	if res.Status != models.StatusSuccess {
		writeJSON(w, http.StatusInternalServerError, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
