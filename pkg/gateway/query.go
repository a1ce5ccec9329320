package gateway

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/tradecore/pkg/types"
)

const querySyncTimeout = 5 * time.Second

func (a *Adapter) syncQuery(issue func(requestID int32)) bool {
	closeFn := a.gate.open()
	a.queryCloser = closeFn
	issue(a.nextRequestID())

	ctx, cancel := context.WithTimeout(context.Background(), querySyncTimeout)
	defer cancel()
	if err := a.gate.wait(ctx); err != nil {
		log.Printf("[Gateway] query failed: %v", err)
		return false
	}
	return true
}

func (a *Adapter) QueryContract(ticker, exchange string) bool {
	return a.syncQuery(func(rid int32) { a.front.ReqQueryContract(ticker, exchange, rid) })
}

func (a *Adapter) QueryPosition(ticker string) bool {
	return a.syncQuery(func(rid int32) { a.front.ReqQueryPosition(a.cfg.BrokerID, a.cfg.InvestorID, ticker, rid) })
}

func (a *Adapter) QueryAccount() bool {
	return a.syncQuery(func(rid int32) { a.front.ReqQueryAccount(a.cfg.BrokerID, a.cfg.InvestorID, rid) })
}

func (a *Adapter) QueryTrades() bool {
	return a.syncQuery(func(rid int32) { a.front.ReqQueryTrade(a.cfg.BrokerID, a.cfg.InvestorID, rid) })
}

func (a *Adapter) QueryMarginRate(ticker string) bool {
	return a.syncQuery(func(rid int32) { a.front.ReqQueryMarginRate(a.cfg.BrokerID, a.cfg.InvestorID, ticker, rid) })
}

func (a *Adapter) OnRspQueryContract(c *WireContract, errorCode int, errorMsg string, isLast bool) {
	if errorCode != 0 {
		a.queryCloser(fmt.Errorf("query contract failed: %s", decodeGB2312(errorMsg)))
		return
	}
	if c != nil {
		contract := types.Contract{
			Index:                c.Index,
			Ticker:               c.Ticker,
			Exchange:             c.Exchange,
			Name:                 decodeGB2312(c.Name),
			ProductType:          types.ProductType(c.ProductType),
			Size:                 c.Size,
			PriceTick:            c.PriceTick,
			MinMarketOrderVolume: c.MinMarketOrderVolume,
			MaxMarketOrderVolume: c.MaxMarketOrderVolume,
			MinLimitOrderVolume:  c.MinLimitOrderVolume,
			MaxLimitOrderVolume:  c.MaxLimitOrderVolume,
			DeliveryYear:         c.DeliveryYear,
			DeliveryMonth:        c.DeliveryMonth,
			LongMarginRate:       c.LongMarginRate,
			ShortMarginRate:      c.ShortMarginRate,
		}
		a.callbacks.OnQueryContract(&contract)
	}
	if isLast {
		a.queryCloser(nil)
	}
}

// OnRspQueryPosition implements SPI. Per the resolved open question,
// each ticker's long and short legs arrive as separate wire rows but
// must reach the engine together: rows are accumulated into posCache
// keyed by TickerIndex, and one OnQueryPosition callback per ticker —
// carrying both legs — fires once isLast arrives, mirroring
// pos_cache_ in the CTP reference implementation.
func (a *Adapter) OnRspQueryPosition(p *WirePosition, errorCode int, errorMsg string, isLast bool) {
	if errorCode != 0 {
		a.queryCloser(fmt.Errorf("query position failed: %s", decodeGB2312(errorMsg)))
		return
	}
	if p != nil {
		leg := types.PositionLeg{
			Holdings:   p.Holdings,
			YdHoldings: p.YdHoldings,
			Frozen:     p.Frozen,
			FloatPnl:   p.FloatPnl,
			CostPrice:  p.CostPrice,
		}
		a.mu.Lock()
		pos, ok := a.posCache[p.TickerIndex]
		if !ok {
			pos = &types.Position{TickerIndex: p.TickerIndex}
			a.posCache[p.TickerIndex] = pos
		}
		if types.Direction(p.Direction) == types.Buy {
			pos.Long = leg
		} else {
			pos.Short = leg
		}
		a.mu.Unlock()
	}
	if isLast {
		a.mu.Lock()
		cache := a.posCache
		a.posCache = make(map[int32]*types.Position)
		a.mu.Unlock()

		for _, pos := range cache {
			a.callbacks.OnQueryPosition(pos)
		}
		a.queryCloser(nil)
	}
}

func (a *Adapter) OnRspQueryAccount(acct *WireAccount, errorCode int, errorMsg string, isLast bool) {
	if errorCode != 0 {
		a.queryCloser(fmt.Errorf("query account failed: %s", decodeGB2312(errorMsg)))
		return
	}
	if acct != nil {
		a.callbacks.OnQueryAccount(&types.Account{
			AccountID:        acct.AccountID,
			Balance:          acct.Balance,
			FrozenCash:       acct.FrozenCash,
			FrozenMargin:     acct.FrozenMargin,
			FrozenCommission: acct.FrozenCommission,
		})
	}
	if isLast {
		a.queryCloser(nil)
	}
}

func (a *Adapter) OnRspQueryTrade(t *WireTrade, errorCode int, errorMsg string, isLast bool) {
	if errorCode != 0 {
		a.queryCloser(fmt.Errorf("query trade failed: %s", decodeGB2312(errorMsg)))
		return
	}
	if t != nil {
		a.callbacks.OnQueryTrade(&types.Trade{
			TickerIndex: t.TickerIndex,
			Volume:      t.Volume,
			Price:       t.Price,
			Direction:   types.Direction(t.Direction),
			Offset:      types.Offset(t.Offset),
		})
	}
	if isLast {
		a.queryCloser(nil)
	}
}

func (a *Adapter) OnRspQueryMarginRate(ticker string, longRate, shortRate float64, errorCode int, errorMsg string, isLast bool) {
	if errorCode != 0 {
		a.queryCloser(fmt.Errorf("query margin rate failed: %s", decodeGB2312(errorMsg)))
		return
	}
	if c := a.contracts.GetByTickerAny(ticker); c != nil {
		if err := a.contracts.UpdateMarginRate(c.Index, longRate, shortRate); err != nil {
			log.Printf("[Gateway] update margin rate: %v", err)
		}
	}
	if isLast {
		a.queryCloser(nil)
	}
}

// OnRtnDepthMarketData implements SPI, fanning market data straight
// through to the engine callback sink.
func (a *Adapter) OnRtnDepthMarketData(tick *WireTick) {
	a.callbacks.OnTick(&types.Tick{
		TickerIndex: tick.TickerIndex,
		LastPrice:   tick.LastPrice,
		Volume:      tick.Volume,
		BidPrice:    tick.BidPrice,
		BidVolume:   tick.BidVolume,
		AskPrice:    tick.AskPrice,
		AskVolume:   tick.AskVolume,
	})
}
