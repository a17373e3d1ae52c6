package handlers

import (
	"errors"
	"net/http"
	"strings"

	"indoor-network/internal/reference"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var readableCollections = map[string]bool{
	reference.CollectionUnits:    true,
	reference.Collection3DUnits:  true,
	reference.CollectionLevels:   true,
	reference.CollectionOpenings: true,
}

type ReferenceHandler struct {
	store reference.Store
	logr  *zap.Logger
}

func NewReferenceHandler(store reference.Store, logr *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{store: store, logr: logr}
}

// GetCollection returns one IMDF collection document of a site as stored.
func (h *ReferenceHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if !readableCollections[collection] {
		writeError(w, http.StatusBadRequest, "unknown collection")
		return
	}
	displayName := strings.TrimSpace(r.URL.Query().Get("displayname"))
	if displayName == "" {
		writeError(w, http.StatusBadRequest, "displayname is required")
		return
	}

	doc, err := h.store.Raw(r.Context(), collection, displayName)
	if errors.Is(err, reference.ErrNotFound) {
		writeError(w, http.StatusNotFound, collection+" not found for "+displayName)
		return
	}
	if err != nil {
		h.logr.Error("failed to read reference collection",
			zap.Error(err),
			zap.String("collection", collection),
			zap.String("displayname", displayName),
		)
		writeError(w, http.StatusInternalServerError, "failed to retrieve "+collection)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
