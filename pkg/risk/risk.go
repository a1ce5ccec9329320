// Package risk implements the synchronous pre-trade risk kernel: an
// ordered chain of rules gating every outbound order request. Grounded
// on golang/pkg/risk/risk_manager.go for its ambient shape — a
// config-driven manager with mutex-guarded state and a stdlib-log
// bracketed-tag style — but built around a four-hook Rule contract.
package risk

import "github.com/yourusername/tradecore/pkg/types"

// ErrorCode is the veto result of a risk check. NoError means the
// order may proceed.
type ErrorCode int

const (
	NoError ErrorCode = iota
	ErrSelfTrade
	ErrEmergencyStop
)

func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NO_ERROR"
	case ErrSelfTrade:
		return "ERR_SELF_TRADE"
	case ErrEmergencyStop:
		return "ERR_EMERGENCY_STOP"
	default:
		return "ERR_UNKNOWN"
	}
}

// Rule is a single pre-trade risk check. Implementations must be safe
// for concurrent use: CheckOrderReq and OnOrderSent run on the
// goroutine calling Engine.SendOrder, while OnOrderTraded and
// OnOrderCompleted run on whichever goroutine delivers the gateway
// callback (see pkg/engine).
type Rule interface {
	// Name identifies the rule in logs and alerts.
	Name() string

	// CheckOrderReq vetoes req before it reaches the gateway.
	CheckOrderReq(req *types.OrderReq) ErrorCode

	// OnOrderSent notifies the rule that req was dispatched under
	// engineOrderID. Only called when CheckOrderReq returned NoError
	// for req.
	OnOrderSent(engineOrderID int64, req *types.OrderReq)

	// OnOrderTraded notifies the rule of a partial or full fill.
	OnOrderTraded(engineOrderID int64, thisTraded int64, price float64)

	// OnOrderCompleted notifies the rule that the order reached a
	// terminal state; the rule must release any per-order state it
	// holds for engineOrderID.
	OnOrderCompleted(engineOrderID int64, code ErrorCode)
}
