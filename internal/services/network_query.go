package services

import (
	"context"
	"encoding/json"

	"indoor-network/internal/models"
	"indoor-network/internal/store"

	"github.com/tidwall/gjson"
)

type NetworkReader interface {
	NetworkBySites(ctx context.Context, displayNames []string) ([]store.NetworkFeature, error)
}

// NetworkQueryService serves published rows as GeoJSON.
type NetworkQueryService struct {
	reader NetworkReader
}

func NewNetworkQueryService(reader NetworkReader) *NetworkQueryService {
	return &NetworkQueryService{reader: reader}
}

// FeatureCollection returns the published network of the given sites in WGS84.
func (s *NetworkQueryService) FeatureCollection(ctx context.Context, displayNames []string) (*models.NetworkFeatureCollection, error) {
	rows, err := s.reader.NetworkBySites(ctx, displayNames)
	if err != nil {
		return nil, err
	}

	features := make([]models.NetworkFeature, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		// skip rows whose geometry could not be rendered
		if !gjson.Valid(row.GeoJSON) {
			continue
		}
		features = append(features, models.NetworkFeature{
			Type:       "Feature",
			ID:         row.INetworkID,
			Geometry:   json.RawMessage(row.GeoJSON),
			Properties: &row.IndoorNetwork,
		})
	}

	return &models.NetworkFeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
		Count:    len(features),
	}, nil
}
