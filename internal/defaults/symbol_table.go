package defaults

import (
	"math"

	"github.com/karupanerura/expression-solver/internal/types"
)

// Eps is the value of the `eps` constant.
const Eps = 0.000_001

var Constants = map[string]any{
	"e":   types.Constant(math.E),
	"pi":  types.Constant(math.Pi),
	"eps": types.Constant(Eps),
}

// SymbolTable is the read-only table every expression is compiled against
// unless the caller supplies its own.
var SymbolTable = &types.SymbolTable{
	Symbols: mergeMaps(
		map[string]any{"x": types.Variable{}},
		Constants,
		Math,
	),
	ReadOnly: true,
}
