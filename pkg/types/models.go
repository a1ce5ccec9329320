package types

// Contract describes a tradable instrument. It is immutable once
// registered in a ContractTable: every field here is set at insertion
// time and never mutated afterward, except LongMarginRate/
// ShortMarginRate which query_margin_rate refreshes in place.
type Contract struct {
	Index       int32 // dense, process-local primary key
	Ticker      string
	Exchange    string
	Name        string
	ProductType ProductType

	Size      int64   // contract multiplier, > 0
	PriceTick float64 // minimum price increment, > 0

	MinMarketOrderVolume int64
	MaxMarketOrderVolume int64
	MinLimitOrderVolume  int64
	MaxLimitOrderVolume  int64

	DeliveryYear  int32
	DeliveryMonth int32

	LongMarginRate  float64
	ShortMarginRate float64
}

// OrderReq is a strategy-originated order request. It is consumed by
// Gateway.SendOrder and carries no identity of its own until the
// gateway assigns an OrderRef.
type OrderReq struct {
	TickerIndex int32
	Direction   Direction
	Offset      Offset
	Type        OrderType
	Volume      int64   // > 0
	Price       float64 // ignored for Market orders
}

// Order is the engine-visible snapshot of a live or completed order.
type Order struct {
	EngineOrderID int64
	OrderRef      int64
	TickerIndex   int32
	Direction     Direction
	Offset        Offset
	Type          OrderType
	Price         float64
	OriginalVol   int64
	TradedVol     int64
	CanceledVol   int64
	Status        OrderStatus
}

// IsLive reports whether the order can still receive fills or
// cancellation.
func (o *Order) IsLive() bool {
	return !o.Status.IsTerminal()
}

// Tick is a single market-data snapshot for one instrument.
type Tick struct {
	TickerIndex int32
	LastPrice   float64
	Volume      int64
	BidPrice    float64
	BidVolume   int64
	AskPrice    float64
	AskVolume   int64
}

// Trade is a single fill report.
type Trade struct {
	TickerIndex int32
	Volume      int64 // > 0
	Price       float64
	Direction   Direction
	Offset      Offset
}

// PositionLeg is one side (long or short) of a Position.
type PositionLeg struct {
	Holdings   int64 // total held, long or short
	YdHoldings int64 // portion settled as of yesterday
	Frozen     int64 // reserved against pending closing orders
	FloatPnl   float64
	CostPrice  float64
}

// Position aggregates holdings for one instrument.
type Position struct {
	TickerIndex int32
	Long        PositionLeg
	Short       PositionLeg
}

// Account is the trading account's cash summary.
type Account struct {
	AccountID        string
	Balance          float64
	FrozenCash       float64
	FrozenMargin     float64
	FrozenCommission float64
}

// Frozen is the sum of all reserved cash components.
func (a *Account) Frozen() float64 {
	return a.FrozenCash + a.FrozenMargin + a.FrozenCommission
}
