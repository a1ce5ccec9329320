// Package feed fans engine events out over NATS, grounded on
// golang/pkg/client/md_client.go's NATSClient — inverted from
// subscriber to publisher, since the engine is the one producing
// ticks and order events here, and JSON-encoded instead of protobuf
// per DESIGN.md's dropped-dependency note.
package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/yourusername/tradecore/pkg/engine"
	"github.com/yourusername/tradecore/pkg/types"
)

// Publisher implements engine.Subscriber and republishes every event
// it receives onto a NATS subject, so any number of upstream strategy
// processes can subscribe without the engine knowing about them.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher dials addr with the same reconnect policy
// (golang/pkg/client/md_client.go's NewNATSClient).
func NewPublisher(addr string) (*Publisher, error) {
	conn, err := nats.Connect(addr,
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("feed: connect to nats at %s: %w", addr, err)
	}
	return &Publisher{conn: conn}, nil
}

// Close closes the underlying NATS connection with Conn.Close; it does
// not call Conn.Drain.
func (p *Publisher) Close() {
	p.conn.Close()
}

func (p *Publisher) publish(subject string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[Feed] marshal for subject=%s: %v", subject, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("[Feed] publish subject=%s: %v", subject, err)
	}
}

type orderEvent struct {
	EngineOrderID  int64   `json:"engine_order_id"`
	Kind           string  `json:"kind"`
	Volume         int64   `json:"volume,omitempty"`
	Price          float64 `json:"price,omitempty"`
	CanceledVolume int64   `json:"canceled_volume,omitempty"`
}

func (p *Publisher) OnOrderAccepted(id int64) {
	p.publish(orderSubject(id), orderEvent{EngineOrderID: id, Kind: "accepted"})
}

func (p *Publisher) OnOrderTraded(id int64, volume int64, price float64) {
	p.publish(orderSubject(id), orderEvent{EngineOrderID: id, Kind: "traded", Volume: volume, Price: price})
}

func (p *Publisher) OnOrderCanceled(id int64, canceledVolume int64) {
	p.publish(orderSubject(id), orderEvent{EngineOrderID: id, Kind: "canceled", CanceledVolume: canceledVolume})
}

func (p *Publisher) OnOrderRejected(id int64) {
	p.publish(orderSubject(id), orderEvent{EngineOrderID: id, Kind: "rejected"})
}

func (p *Publisher) OnOrderCancelRejected(id int64) {
	p.publish(orderSubject(id), orderEvent{EngineOrderID: id, Kind: "cancel_rejected"})
}

func (p *Publisher) OnTick(tick *types.Tick) {
	p.publish(fmt.Sprintf("ticks.%d", tick.TickerIndex), tick)
}

func (p *Publisher) OnQueryContract(c *types.Contract) {
	p.publish("queries.contract", c)
}

func (p *Publisher) OnQueryAccount(a *types.Account) {
	p.publish("queries.account", a)
}

func (p *Publisher) OnQueryPosition(pos *types.Position) {
	p.publish(fmt.Sprintf("queries.position.%d", pos.TickerIndex), pos)
}

func (p *Publisher) OnQueryTrade(t *types.Trade) {
	p.publish("queries.trade", t)
}

func orderSubject(engineOrderID int64) string {
	return fmt.Sprintf("orders.%d", engineOrderID)
}

var _ engine.Subscriber = (*Publisher)(nil)
