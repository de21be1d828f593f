// Package catalog assembles the calculators shared by the server and the CLI.
package catalog

import (
	"ISQM/internal/calc/beam"
	"ISQM/internal/calc/column"
	"ISQM/internal/calc/concrete"
	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/formwork"
	"ISQM/internal/calc/rebar"
	"ISQM/internal/calc/slab"
	"ISQM/internal/calc/soffit"
)

func Registry() *flow.Registry {
	return flow.NewRegistry(
		beam.Calculator{},
		column.Calculator{},
		slab.Calculator{},
		soffit.Calculator{},
		concrete.Calculator{},
		formwork.Calculator{},
		rebar.Calculator{},
	)
}
