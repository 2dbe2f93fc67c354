package app

import (
	"github.com/quantforge/tickflow/internal/operator"
	"github.com/quantforge/tickflow/operators/momentum"
	"github.com/quantforge/tickflow/operators/price"
	"github.com/quantforge/tickflow/operators/signal"
	"github.com/quantforge/tickflow/operators/trend"
	"github.com/quantforge/tickflow/operators/volatility"
	"github.com/quantforge/tickflow/operators/volume"
)

// coreModules is the single source of truth for the operator packages
// compiled into the binary.
var coreModules = []operator.Module{
	&price.Module{},
	&trend.Module{},
	&momentum.Module{},
	&volatility.Module{},
	&volume.Module{},
	&signal.Module{},
}
