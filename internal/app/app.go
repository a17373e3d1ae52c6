package app

import (
	"fmt"

	"indoor-network/internal/config"
	"indoor-network/internal/converter"
	"indoor-network/internal/logger"
	"indoor-network/internal/mapping"
	"indoor-network/internal/reference"
	"indoor-network/internal/services"
	"indoor-network/internal/store"

	"github.com/uptrace/bun"
)

// App holds the services shared by the HTTP server and the CLI.
type App struct {
	References reference.Store
	Importer   *services.NetworkImportService
	Pedestrian *services.PedestrianService
	FloorPolys *services.FloorPolyService
	Exporter   *services.ExportService
	Network    *services.NetworkQueryService

	PedestrianMapping *mapping.Mapping
}

// New loads the field mappings and wires every service against db and refs.
func New(db *bun.DB, refs reference.Store, cfg *config.Config, logr *logger.Logger) (*App, error) {
	networkMapping, err := mapping.Load(cfg.NetworkFieldMapping)
	if err != nil {
		return nil, fmt.Errorf("network field mapping: %w", err)
	}
	pedestrianMapping, err := mapping.Load(cfg.PedestrianFieldMapping)
	if err != nil {
		return nil, fmt.Errorf("pedestrian field mapping: %w", err)
	}

	conv := converter.NewOgr2Ogr(cfg.Ogr2OgrPath, cfg.OgrPGConnection, cfg.ConverterTimeout, logr.Named("ogr2ogr"))
	networkStore := store.NewNetworkStore(db)

	floorPolys := services.NewFloorPolyService(store.NewFloorPolyStore(db), refs, logr.Named("floorpoly"))
	return &App{
		References: refs,
		Importer: services.NewNetworkImportService(
			networkStore, refs, conv, floorPolys,
			cfg.ImportBasePath, cfg.IsProduction(), logr,
		),
		Pedestrian: services.NewPedestrianService(
			store.NewPedestrianStore(db), conv, pedestrianMapping,
			cfg.PedestrianLayer, cfg.ImportBasePath, logr.Named("pedestrian"),
		),
		FloorPolys:        floorPolys,
		Exporter:          services.NewExportService(conv, networkMapping, cfg.ExportResultDir, logr.Named("export")),
		Network:           services.NewNetworkQueryService(networkStore),
		PedestrianMapping: pedestrianMapping,
	}, nil
}
