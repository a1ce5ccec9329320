// Package types holds the value objects shared by the gateway, risk,
// and engine packages: order requests, live orders, trades, positions,
// accounts, and contracts.
package types

// Direction is the side of an order or a position leg.
type Direction int8

const (
	Buy Direction = iota + 1
	Sell
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}

// Offset distinguishes opening a position from closing one, and (for
// exchanges that track same-day vs. prior-day holdings separately)
// which lot is being closed.
type Offset int8

const (
	Open Offset = iota + 1
	Close
	CloseToday
	CloseYesterday
)

func (o Offset) String() string {
	switch o {
	case Open:
		return "OPEN"
	case Close:
		return "CLOSE"
	case CloseToday:
		return "CLOSE_TODAY"
	case CloseYesterday:
		return "CLOSE_YESTERDAY"
	default:
		return "UNKNOWN"
	}
}

// OrderType selects the exchange time-in-force / pricing behavior.
type OrderType int8

const (
	Limit OrderType = iota + 1
	Market
	FAK // Fill-and-Kill
	FOK // Fill-or-Kill
	Best
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "LIMIT"
	case Market:
		return "MARKET"
	case FAK:
		return "FAK"
	case FOK:
		return "FOK"
	case Best:
		return "BEST"
	default:
		return "UNKNOWN"
	}
}

// OrderStatus is the engine-visible lifecycle stage of a live order.
// It is coarser than the gateway adapter's internal state machine
// (see pkg/gateway): the engine only needs to know whether an order is
// still live and, if not, how it ended.
type OrderStatus int8

const (
	OrderSubmitted OrderStatus = iota + 1
	OrderAcceptedByBroker
	OrderAcceptedByExchange
	OrderPartiallyTraded
	OrderFullyTraded
	OrderCanceled
	OrderPartiallyTradedThenCanceled
	OrderRejected
)

func (s OrderStatus) String() string {
	switch s {
	case OrderSubmitted:
		return "SUBMITTED"
	case OrderAcceptedByBroker:
		return "ACCEPTED_BY_BROKER"
	case OrderAcceptedByExchange:
		return "ACCEPTED_BY_EXCHANGE"
	case OrderPartiallyTraded:
		return "PARTIALLY_TRADED"
	case OrderFullyTraded:
		return "FULLY_TRADED"
	case OrderCanceled:
		return "CANCELED"
	case OrderPartiallyTradedThenCanceled:
		return "PARTIALLY_TRADED_THEN_CANCELED"
	case OrderRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether no further events will arrive for an
// order in this status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderFullyTraded, OrderCanceled, OrderPartiallyTradedThenCanceled, OrderRejected:
		return true
	default:
		return false
	}
}

// ProductType categorizes a tradable instrument.
type ProductType int8

const (
	Future ProductType = iota + 1
	Option
	Stock
)

func (p ProductType) String() string {
	switch p {
	case Future:
		return "FUTURE"
	case Option:
		return "OPTION"
	case Stock:
		return "STOCK"
	default:
		return "UNKNOWN"
	}
}
