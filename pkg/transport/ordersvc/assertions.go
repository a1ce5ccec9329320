package ordersvc

import "github.com/yourusername/tradecore/pkg/engine"

var _ Engine = (*engine.Engine)(nil)
