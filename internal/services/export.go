package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"indoor-network/internal/converter"
	"indoor-network/internal/mapping"
	"indoor-network/internal/metrics"
	"indoor-network/internal/models"

	geojson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/schema"
	"go.uber.org/zap"
)

// ExportBaseName is the file name, without extension, of every export.
const ExportBaseName = "3D Indoor Network"

// geojsonDecimals is the coordinate precision kept in GeoJSON exports.
const geojsonDecimals = 8

type ExportRequest struct {
	DisplayName string
	Category    string
	Format      mapping.Format
	// OpenData limits the export to rows with restricted = 'N'.
	OpenData bool
}

// ExportService writes the published network of one site to a file.
type ExportService struct {
	conv      converter.Converter
	mapping   *mapping.Mapping
	outDir    string
	formatter schema.Formatter
	logger    *zap.Logger
}

func NewExportService(conv converter.Converter, m *mapping.Mapping, outDir string, logger *zap.Logger) *ExportService {
	return &ExportService{
		conv:      conv,
		mapping:   m,
		outDir:    outDir,
		formatter: schema.NewFormatter(pgdialect.New()),
		logger:    logger,
	}
}

func (s *ExportService) Export(ctx context.Context, req ExportRequest) *models.ExportResult {
	res := &models.ExportResult{DisplayName: req.DisplayName, OutputDir: s.outDir}
	path, err := s.export(ctx, req)
	if err != nil {
		s.logger.Error("Export failed",
			zap.String("displayname", req.DisplayName),
			zap.String("format", string(req.Format)),
			zap.Error(err),
		)
		res.Status = models.StatusError
		res.Message = err.Error()
		return res
	}
	res.Status = models.StatusSuccess
	res.Path = path
	res.Message = fmt.Sprintf("Exported %s to %s", req.DisplayName, path)
	return res
}

func (s *ExportService) export(ctx context.Context, req ExportRequest) (string, error) {
	query, err := s.BuildQuery(req)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", err
	}

	var out converter.ExportRequest
	switch req.Format {
	case mapping.FormatShapefile:
		out = converter.ExportRequest{
			Driver:          "ESRI Shapefile",
			Output:          filepath.Join(s.outDir, ExportBaseName+".shp"),
			CreationOptions: []string{"ENCODING=UTF-8"},
		}
	case mapping.FormatGeoJSON:
		out = converter.ExportRequest{
			Driver:          "GeoJSON",
			Output:          filepath.Join(s.outDir, ExportBaseName+".geojson"),
			CreationOptions: []string{"COORDINATE_PRECISION=15", "RFC7946=YES"},
			TargetSRS:       "EPSG:4326",
		}
	}
	out.SQL = query

	if err := removeExisting(out.Output); err != nil {
		return "", err
	}
	if err := s.conv.Export(ctx, out); err != nil {
		metrics.ConverterFailuresTotal.WithLabelValues("export").Inc()
		return "", &ConversionError{Err: err}
	}

	switch req.Format {
	case mapping.FormatShapefile:
		cpg := strings.TrimSuffix(out.Output, ".shp") + ".cpg"
		if err := os.WriteFile(cpg, []byte("UTF-8"), 0o644); err != nil {
			return "", fmt.Errorf("write code page: %w", err)
		}
	case mapping.FormatGeoJSON:
		if err := RoundGeoJSONFile(out.Output, geojsonDecimals); err != nil {
			return "", err
		}
	}
	return out.Output, nil
}

// BuildQuery renders the SELECT handed to the converter.
func (s *ExportService) BuildQuery(req ExportRequest) (string, error) {
	if req.DisplayName == "" {
		return "", fmt.Errorf("displayname is required")
	}
	switch req.Category {
	case "", mapping.CategoryFull, mapping.CategoryPedestrian, mapping.CategoryIndoor:
	default:
		return "", fmt.Errorf("unknown export category %q", req.Category)
	}
	if req.Format != mapping.FormatShapefile && req.Format != mapping.FormatGeoJSON {
		return "", fmt.Errorf("unknown export format %q", req.Format)
	}

	cols := s.mapping.ExportColumns(req.Category, req.Format)
	if len(cols) == 0 {
		return "", fmt.Errorf("no columns mapped for category %q", req.Category)
	}
	f := s.formatter
	list := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		if c.CastText {
			list = append(list, f.FormatQuery("CAST(? AS TEXT) AS ?", bun.Ident(c.Column), bun.Ident(c.Alias)))
			continue
		}
		list = append(list, f.FormatQuery("? AS ?", bun.Ident(c.Column), bun.Ident(c.Alias)))
	}
	list = append(list, f.FormatQuery("?", bun.Ident(s.mapping.Geometry)))

	q := "SELECT " + strings.Join(list, ", ") +
		f.FormatQuery(" FROM ? WHERE displayname = ?", bun.Ident(s.mapping.Table), req.DisplayName)
	if req.OpenData {
		q += " AND restricted = 'N'"
	}
	return q, nil
}

// removeExisting deletes a previous export, including every shapefile sidecar.
func removeExisting(path string) error {
	paths := []string{path}
	if strings.HasSuffix(path, ".shp") {
		stem := strings.TrimSuffix(path, ".shp")
		paths = paths[:0]
		for _, ext := range []string{".shp", ".shx", ".dbf", ".prj", ".cpg"} {
			paths = append(paths, stem+ext)
		}
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("cannot overwrite file %s: %w", p, err)
		}
	}
	return nil
}

// RoundGeoJSONFile rewrites a feature collection with every coordinate
// rounded to the given number of decimals.
func RoundGeoJSONFile(path string, decimals int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	scale := math.Pow(10, float64(decimals))
	for _, feat := range fc.Features {
		if feat.Geometry == nil {
			continue
		}
		flat := feat.Geometry.FlatCoords()
		for i, v := range flat {
			flat[i] = math.Round(v*scale) / scale
		}
	}
	out, err := json.Marshal(&fc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
