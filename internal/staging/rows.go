package staging

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"indoor-network/internal/geo"
	"indoor-network/internal/models"

	"github.com/go-playground/validator/v10"
)

// RowError identifies the first holding-area row that failed type checks.
type RowError struct {
	Index      int
	INetworkID string
	Row        map[string]interface{}
	Err        error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (inetworkid %s): %v", e.Index, e.INetworkID, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Decoder converts raw holding-area rows into typed staging rows.
type Decoder struct {
	validate *validator.Validate
}

func NewDecoder() *Decoder {
	return &Decoder{validate: validator.New()}
}

// DecodeAll stops at the first bad row and reports it.
func (d *Decoder) DecodeAll(raw []map[string]interface{}) ([]models.StagingRow, error) {
	rows := make([]models.StagingRow, 0, len(raw))
	for i, r := range raw {
		row, err := d.Decode(r)
		if err != nil {
			return nil, &RowError{Index: i, INetworkID: text(r["inetworkid"]), Row: Printable(r), Err: err}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Decode type-checks one row. NULL creator / amender codes take the default.
func (d *Decoder) Decode(r map[string]interface{}) (models.StagingRow, error) {
	row := models.StagingRow{
		INetworkID: text(r["inetworkid"]),
		GeoJSON:    text(r["geojson"]),
		Highway:    text(r["highway"]),
		Oneway:     text(r["oneway"]),
		Emergency:  text(r["emergency"]),
		Wheelchair: text(r["wheelchair"]),
		FlPolyID:   text(r["flpolyid"]),
		CrtDt:      text(r["crtdt"]),
		CrtBy:      textOr(r["crtby"], models.DefaultActorCode),
		LstAmdDt:   text(r["lstamddt"]),
		LstAmdBy:   textOr(r["lstamdby"], models.DefaultActorCode),
		Restricted: text(r["restricted"]),
	}

	id, err := optionalInt(r["pedrouteid"])
	if err != nil {
		return row, fmt.Errorf("pedrouteid: %w", err)
	}
	row.PedRouteID = id

	if err := d.validate.Struct(&row); err != nil {
		return row, err
	}

	line, err := geo.ParseLineZ([]byte(row.GeoJSON))
	if err != nil {
		return row, fmt.Errorf("geojson: %w", err)
	}
	row.Line = line
	row.Geographic = geo.GeographicLine([]byte(text(r["geojson_wgs84"])))
	return row, nil
}

func text(v interface{}) string {
	return textOr(v, "")
}

func textOr(v interface{}, fallback string) string {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("02/01/2006")
		}
		return t.Format("02/01/2006 15:04:05")
	default:
		return fmt.Sprint(t)
	}
}

func optionalInt(v interface{}) (*int64, error) {
	var n int64
	switch t := v.(type) {
	case nil:
		return nil, nil
	case int64:
		n = t
	case int32:
		n = int64(t)
	case int:
		n = int64(t)
	case float64:
		if t != math.Trunc(t) {
			return nil, fmt.Errorf("%v is not a whole number", t)
		}
		n = int64(t)
	case string, []byte:
		s := strings.TrimSpace(text(t))
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != math.Trunc(f) {
			return nil, fmt.Errorf("%q is not a whole number", s)
		}
		n = int64(f)
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
	return &n, nil
}

// Printable renders a raw row for diagnostics, dropping the binary geometry.
func Printable(r map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(r))
	for k, v := range r {
		if k == "shape" {
			continue
		}
		switch t := v.(type) {
		case []byte:
			out[k] = string(t)
		case time.Time:
			out[k] = t.Format(time.RFC3339)
		default:
			out[k] = v
		}
	}
	return out
}
