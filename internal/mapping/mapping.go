package mapping

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Export categories; CategoryFull selects every field.
const (
	CategoryFull       = "full"
	CategoryPedestrian = "pedestrian"
	CategoryIndoor     = "indoor"
)

type Format string

const (
	FormatShapefile Format = "shapefile"
	FormatGeoJSON   Format = "geojson"
)

// Field describes one published column and its names in each outward format.
type Field struct {
	Database  string   `yaml:"database" validate:"required,ident"`
	Source    string   `yaml:"source" validate:"omitempty,ident"`
	Type      string   `yaml:"type" validate:"omitempty,oneof=text integer bigint double boolean date timestamptz"`
	Shapefile string   `yaml:"shapefile" validate:"omitempty,max=10"`
	GeoJSON   string   `yaml:"geojson"`
	CastText  bool     `yaml:"cast_text"`
	Output    []string `yaml:"output" validate:"dive,oneof=pedestrian indoor"`
}

// SourceColumn is the holding-table column feeding this field.
func (f Field) SourceColumn() string {
	if f.Source != "" {
		return f.Source
	}
	return f.Database
}

// SQLType is the column type used when creating the table.
func (f Field) SQLType() string {
	switch f.Type {
	case "", "text":
		return "text"
	case "double":
		return "double precision"
	}
	return f.Type
}

// Mapping is a column mapping artifact for one published table.
type Mapping struct {
	Table    string  `yaml:"table" validate:"required,ident"`
	Key      string  `yaml:"key" validate:"required,ident"`
	KeyType  string  `yaml:"key_type" validate:"omitempty,oneof=text integer bigint"`
	Geometry string  `yaml:"geometry" validate:"required,ident"`
	Fields   []Field `yaml:"fields" validate:"required,min=1,dive"`
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	})
	return v
}

// Load reads and validates a mapping file.
func Load(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	if err := newValidator().Struct(&m); err != nil {
		return nil, fmt.Errorf("invalid mapping: %w", err)
	}
	seen := map[string]bool{m.Geometry: true}
	for _, f := range m.Fields {
		if seen[f.Database] {
			return nil, fmt.Errorf("invalid mapping: column %q listed twice", f.Database)
		}
		seen[f.Database] = true
	}
	return &m, nil
}

// ColumnPair maps a holding-table column to a published column.
type ColumnPair struct {
	Source string
	Target string
}

// ReconcileColumns lists the attribute columns, key excluded. The geometry
// column is always last.
func (m *Mapping) ReconcileColumns() []ColumnPair {
	out := make([]ColumnPair, 0, len(m.Fields)+1)
	for _, f := range m.Fields {
		if f.Database == m.Key {
			continue
		}
		out = append(out, ColumnPair{Source: f.SourceColumn(), Target: f.Database})
	}
	return append(out, ColumnPair{Source: m.Geometry, Target: m.Geometry})
}

// ExportColumn is one select-list entry of an export.
type ExportColumn struct {
	Column   string
	Alias    string
	CastText bool
}

// ExportColumns selects the fields tagged with category under the names
// used by format. Fields without a name for the format are skipped.
func (m *Mapping) ExportColumns(category string, format Format) []ExportColumn {
	var out []ExportColumn
	for _, f := range m.Fields {
		if category != "" && category != CategoryFull && !slices.Contains(f.Output, category) {
			continue
		}
		alias := f.GeoJSON
		if format == FormatShapefile {
			alias = f.Shapefile
		}
		if alias == "" {
			continue
		}
		out = append(out, ExportColumn{
			Column:   f.Database,
			Alias:    alias,
			CastText: format == FormatShapefile && f.CastText,
		})
	}
	return out
}
