package database

import (
	"strings"
	"testing"

	"indoor-network/internal/mapping"
)

func TestPedestrianDDL(t *testing.T) {
	m, err := mapping.Parse([]byte(`
table: pedestrian_route
key: pedrouteid
key_type: bigint
geometry: shape
fields:
  - {database: highway}
  - {database: gradient, type: double}
`))
	if err != nil {
		t.Fatal(err)
	}
	ddl := PedestrianDDL(m)
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS pedestrian_route (",
		"pedrouteid bigint PRIMARY KEY",
		"highway text",
		"gradient double precision",
		"shape geometry(LineStringZ,2326)",
		"last_modified timestamptz NOT NULL DEFAULT now()",
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("DDL missing %q:\n%s", want, ddl)
		}
	}
}
