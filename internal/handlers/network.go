package handlers

import (
	"net/http"
	"strings"

	"indoor-network/internal/mapping"
	"indoor-network/internal/models"
	"indoor-network/internal/services"
	"indoor-network/internal/utils"

	"go.uber.org/zap"
)

type NetworkHandler struct {
	importer *services.NetworkImportService
	exporter *services.ExportService
	query    *services.NetworkQueryService
	logr     *zap.Logger
}

func NewNetworkHandler(
	importer *services.NetworkImportService,
	exporter *services.ExportService,
	query *services.NetworkQueryService,
	logr *zap.Logger,
) *NetworkHandler {
	return &NetworkHandler{importer: importer, exporter: exporter, query: query, logr: logr}
}

type importRequest struct {
	DisplayName string `json:"displayname" validate:"required"`
	FolderPath  string `json:"folder_path" validate:"required"`
}

// Import runs a network import for one site folder.
func (h *NetworkHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.importer.ImportFromFolder(r.Context(), req.DisplayName, req.FolderPath)
	writeJSON(w, importStatus(res), res)
}

func importStatus(res *models.ImportResult) int {
	switch res.Status {
	case models.StatusSuccess:
		return http.StatusOK
	case models.StatusValidationFailed:
		return http.StatusUnprocessableEntity
	}
	if res.Message == services.ErrHoldingAreaBusy.Error() {
		return http.StatusConflict
	}
	if res.State == string(services.StateIdle) {
		// rejected before the run started
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Export writes the published network of a site to EXPORT_RESULT_DIR.
func (h *NetworkHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := services.ExportRequest{
		DisplayName: strings.TrimSpace(q.Get("displayname")),
		Category:    q.Get("category"),
		Format:      mapping.Format(q.Get("format")),
		OpenData:    utils.ParseQueryBool(q, "open_data"),
	}
	if req.Category == "" {
		req.Category = mapping.CategoryFull
	}
	if req.Format == "" {
		req.Format = mapping.FormatShapefile
	}
	if _, err := h.exporter.BuildQuery(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.exporter.Export(r.Context(), req)
	if res.Status != models.StatusSuccess {
		writeJSON(w, http.StatusInternalServerError, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetNetwork returns the published rows of one or more sites as GeoJSON.
func (h *NetworkHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	sites := utils.ParseQueryList(r.URL.Query(), "displayname")
	if len(sites) == 0 {
		writeError(w, http.StatusBadRequest, "displayname is required")
		return
	}

	fc, err := h.query.FeatureCollection(r.Context(), sites)
	if err != nil {
		h.logr.Error("failed to get network", zap.Error(err), zap.Strings("displayname", sites))
		writeError(w, http.StatusInternalServerError, "failed to retrieve network")
		return
	}
	writeJSON(w, http.StatusOK, fc)
}
