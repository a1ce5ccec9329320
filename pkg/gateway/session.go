package gateway

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/tradecore/pkg/config"
)

const loginStepTimeout = 10 * time.Second

// Login runs the bootstrap handshake: connect, authenticate
// (if configured), user login, settlement query, settlement confirm,
// and — if configured — an outstanding-order sweep. Any step failure
// aborts the whole sequence; is_logon_ (loggedOn) is only set true
// after every step succeeds.
func (a *Adapter) Login(ctx context.Context, cfg *config.GatewayConfig) bool {
	a.cfg = *cfg

	a.front.Connect()
	if err := a.waitConnected(ctx); err != nil {
		log.Printf("[Gateway] login: connect failed: %v", err)
		return false
	}
	log.Println("[Gateway] front connected")

	if cfg.AuthCode != "" {
		if err := a.reqAuthenticate(ctx); err != nil {
			log.Printf("[Gateway] login: authenticate failed: %v", err)
			return false
		}
		log.Println("[Gateway] authenticated")
	}

	if err := a.reqUserLogin(ctx); err != nil {
		log.Printf("[Gateway] login: user login failed: %v", err)
		return false
	}
	log.Printf("[Gateway] logged in: frontID=%d sessionID=%d maxOrderRef=%d", a.frontID, a.sessionID, a.nextOrderRef.Load())

	if err := a.reqSettlementQuery(ctx); err != nil {
		log.Printf("[Gateway] login: settlement query failed: %v", err)
		return false
	}

	if err := a.reqSettlementConfirm(ctx); err != nil {
		log.Printf("[Gateway] login: settlement confirm failed: %v", err)
		return false
	}
	log.Println("[Gateway] settlement confirmed")

	if cfg.CancelOutstandingOnStartup() {
		if err := a.sweepOutstandingOrders(ctx); err != nil {
			log.Printf("[Gateway] login: outstanding-order sweep failed: %v", err)
			return false
		}
		// Let in-flight cancel terminals drain before the engine starts
		// issuing new orders into the same OrderRef space.
		time.Sleep(time.Second)
	}

	a.loggedOn.Store(true)
	log.Println("[Gateway] login sequence complete")
	return true
}

func (a *Adapter) waitConnected(ctx context.Context) error {
	select {
	case <-a.connectedCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for OnFrontConnected: %w", ctx.Err())
	}
}

func (a *Adapter) reqAuthenticate(ctx context.Context) error {
	closeFn := a.gate.open()
	a.authCloser = closeFn
	a.front.ReqAuthenticate(a.cfg.BrokerID, a.cfg.InvestorID, a.cfg.AuthCode, a.cfg.AppID, a.nextRequestID())
	wctx, cancel := context.WithTimeout(ctx, loginStepTimeout)
	defer cancel()
	return a.gate.wait(wctx)
}

func (a *Adapter) OnRspAuthenticate(errorCode int, errorMsg string, isLast bool) {
	if !isLast {
		return
	}
	if errorCode != 0 {
		a.authCloser(fmt.Errorf("authenticate rejected: %s", decodeGB2312(errorMsg)))
		return
	}
	a.authCloser(nil)
}

func (a *Adapter) reqUserLogin(ctx context.Context) error {
	closeFn := a.gate.open()
	a.loginCloser = closeFn
	a.front.ReqUserLogin(a.cfg.BrokerID, a.cfg.InvestorID, a.cfg.Password, a.nextRequestID())
	wctx, cancel := context.WithTimeout(ctx, loginStepTimeout)
	defer cancel()
	return a.gate.wait(wctx)
}

func (a *Adapter) OnRspUserLogin(frontID, sessionID int32, maxOrderRef int64, errorCode int, errorMsg string, isLast bool) {
	if !isLast {
		return
	}
	if errorCode != 0 {
		a.loginCloser(fmt.Errorf("login rejected: %s", decodeGB2312(errorMsg)))
		return
	}
	a.frontID = frontID
	a.sessionID = sessionID
	a.nextOrderRef.Store(maxOrderRef)
	a.loginCloser(nil)
}

func (a *Adapter) reqSettlementQuery(ctx context.Context) error {
	closeFn := a.gate.open()
	a.settlementQueryCloser = closeFn
	a.front.ReqSettlementInfoQuery(a.cfg.BrokerID, a.cfg.InvestorID, a.nextRequestID())
	wctx, cancel := context.WithTimeout(ctx, loginStepTimeout)
	defer cancel()
	return a.gate.wait(wctx)
}

func (a *Adapter) OnRspSettlementInfoQuery(errorCode int, errorMsg string, isLast bool) {
	if !isLast {
		return
	}
	if errorCode != 0 {
		a.settlementQueryCloser(fmt.Errorf("settlement query failed: %s", decodeGB2312(errorMsg)))
		return
	}
	a.settlementQueryCloser(nil)
}

func (a *Adapter) reqSettlementConfirm(ctx context.Context) error {
	closeFn := a.gate.open()
	a.settlementConfirmCloser = closeFn
	a.front.ReqSettlementInfoConfirm(a.cfg.BrokerID, a.cfg.InvestorID, a.nextRequestID())
	wctx, cancel := context.WithTimeout(ctx, loginStepTimeout)
	defer cancel()
	return a.gate.wait(wctx)
}

func (a *Adapter) OnRspSettlementInfoConfirm(errorCode int, errorMsg string, isLast bool) {
	if !isLast {
		return
	}
	if errorCode != 0 {
		a.settlementConfirmCloser(fmt.Errorf("settlement confirm failed: %s", decodeGB2312(errorMsg)))
		return
	}
	a.settlementConfirmCloser(nil)
}

// sweepOutstandingOrders queries pre-existing orders and cancels any
// still resting at the exchange, so the engine starts with an empty
// OrderRef space. The resulting cancel terminals arrive for refs the
// engine never inserted — OnRtnOrder's unknown-ref branch handles that
// case.
func (a *Adapter) sweepOutstandingOrders(ctx context.Context) error {
	closeFn := a.gate.open()
	a.outstandingOrders = nil
	a.outstandingCloser = closeFn
	a.front.ReqQueryOrder(a.cfg.BrokerID, a.cfg.InvestorID, a.nextRequestID())

	wctx, cancel := context.WithTimeout(ctx, loginStepTimeout)
	defer cancel()
	if err := a.gate.wait(wctx); err != nil {
		return err
	}

	for _, o := range a.outstandingOrders {
		if o.Status == StatusNoTradeQueueing || o.Status == StatusPartTradedQueueing {
			a.front.ReqOrderAction(&WireOrderAction{
				InvestorID: a.cfg.InvestorID,
				OrderRef:   o.OrderRef,
				OrderSysID: o.OrderSysID,
			}, a.nextRequestID())
			log.Printf("[Gateway] sweep: canceling outstanding order sysID=%s", o.OrderSysID)
		}
	}
	return nil
}

func (a *Adapter) OnRspQueryOrder(order *WireOutstandingOrder, errorCode int, errorMsg string, isLast bool) {
	if errorCode != 0 {
		a.outstandingCloser(fmt.Errorf("query order failed: %s", decodeGB2312(errorMsg)))
		return
	}
	if order != nil {
		a.outstandingOrders = append(a.outstandingOrders, order)
	}
	if isLast {
		a.outstandingCloser(nil)
	}
}
