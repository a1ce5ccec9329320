package gateway

// Front is the vendor SDK surface the adapter drives. It is
// deliberately narrow: connection and request methods only. The SDK
// itself is an external collaborator — this interface is
// the boundary the core consumes, not a reimplementation of the SDK.
// A concrete Front wraps whatever CGo/RPC binding talks to the real
// broker front. The "virtual" adapter config does not use a Front at
// all: Virtual (virtual.go) implements Gateway directly. Adapter tests
// drive a hand-written fake Front.
type Front interface {
	// Connect asks the SDK to establish the underlying session. The
	// result arrives asynchronously via SPI.OnFrontConnected or
	// SPI.OnFrontDisconnected.
	Connect()

	// RegisterSPI installs the callback sink the front delivers
	// events to. Called once, before Connect.
	RegisterSPI(spi SPI)

	ReqAuthenticate(brokerID, investorID, authCode, appID string, requestID int32)
	ReqUserLogin(brokerID, investorID, password string, requestID int32)
	ReqUserLogout(brokerID, investorID string, requestID int32)
	ReqSettlementInfoQuery(brokerID, investorID string, requestID int32)
	ReqSettlementInfoConfirm(brokerID, investorID string, requestID int32)
	ReqQueryOrder(brokerID, investorID string, requestID int32)
	ReqQueryContract(ticker, exchange string, requestID int32)
	ReqQueryPosition(brokerID, investorID, ticker string, requestID int32)
	ReqQueryAccount(brokerID, investorID string, requestID int32)
	ReqQueryTrade(brokerID, investorID string, requestID int32)
	ReqQueryMarginRate(brokerID, investorID, ticker string, requestID int32)

	ReqOrderInsert(order *WireOrderInsert, requestID int32)
	ReqOrderAction(action *WireOrderAction, requestID int32)
}

// SPI is the set of callbacks a Front delivers events through. Method
// names and shapes mirror the CTP SPI convention this module's
// broker-facing code assumes (OnFront*, OnRsp*, OnRtn*).
type SPI interface {
	OnFrontConnected()
	OnFrontDisconnected(reason int)

	OnRspAuthenticate(errorCode int, errorMsg string, isLast bool)
	OnRspUserLogin(frontID, sessionID int32, maxOrderRef int64, errorCode int, errorMsg string, isLast bool)
	OnRspUserLogout(errorCode int, errorMsg string, isLast bool)
	OnRspSettlementInfoQuery(errorCode int, errorMsg string, isLast bool)
	OnRspSettlementInfoConfirm(errorCode int, errorMsg string, isLast bool)

	OnRspQueryOrder(order *WireOutstandingOrder, errorCode int, errorMsg string, isLast bool)
	OnRspQueryContract(contract *WireContract, errorCode int, errorMsg string, isLast bool)
	OnRspQueryPosition(pos *WirePosition, errorCode int, errorMsg string, isLast bool)
	OnRspQueryAccount(acct *WireAccount, errorCode int, errorMsg string, isLast bool)
	OnRspQueryTrade(trade *WireTrade, errorCode int, errorMsg string, isLast bool)
	OnRspQueryMarginRate(ticker string, longRate, shortRate float64, errorCode int, errorMsg string, isLast bool)

	OnRspOrderInsert(orderRef, investorID string, errorCode int, errorMsg string)
	OnRtnOrder(update *WireOrderStatusUpdate)
	OnRtnTrade(trade *WireTradeReport)

	OnRtnDepthMarketData(tick *WireTick)
}

// Wire* types are the raw shapes delivered across the broker boundary
// — string OrderRef, broker-native status codes, GB2312 text — before
// the adapter translates them into pkg/types values.

// SubmitStatus mirrors CTP's OrderSubmitStatus field on OnRtnOrder.
type SubmitStatus int8

const (
	SubmitAccepted SubmitStatus = iota
	InsertSubmitted
	CancelSubmitted
	InsertRejected
	CancelRejected
)

// BrokerOrderStatus mirrors CTP's OrderStatus field on OnRtnOrder.
type BrokerOrderStatus int8

const (
	StatusUnknown BrokerOrderStatus = iota
	StatusNoTradeQueueing
	StatusNoTradeNotQueueing
	StatusPartTradedQueueing
	StatusPartTradedNotQueueing
	StatusAllTraded
	StatusCanceled
)

type WireOrderInsert struct {
	InvestorID  string
	TickerIndex int32
	Direction   int8
	Offset      int8
	Type        int8
	Volume      int64
	Price       float64
	OrderRef    string // assigned by the adapter before the call, per CTP convention
}

type WireOrderAction struct {
	InvestorID string
	OrderRef   string
	OrderSysID string // required once the order is at the exchange
}

type WireOrderStatusUpdate struct {
	InvestorID   string
	OrderRef     string
	OrderSysID   string
	SubmitStatus SubmitStatus
	Status       BrokerOrderStatus
	VolumeTraded int64
	VolumeTotal  int64 // original volume, echoed back by the broker
	StatusMsg    string
}

type WireTradeReport struct {
	InvestorID  string
	OrderRef    string
	TickerIndex int32
	Direction   int8
	Offset      int8
	Volume      int64
	Price       float64
}

type WireOutstandingOrder struct {
	InvestorID  string
	OrderRef    string
	OrderSysID  string
	TickerIndex int32
	Status      BrokerOrderStatus
}

type WireContract struct {
	Index                int32
	Ticker               string
	Exchange             string
	Name                 string // GB2312-encoded on the wire
	ProductType          int8
	Size                 int64
	PriceTick            float64
	MinMarketOrderVolume int64
	MaxMarketOrderVolume int64
	MinLimitOrderVolume  int64
	MaxLimitOrderVolume  int64
	DeliveryYear         int32
	DeliveryMonth        int32
	LongMarginRate       float64
	ShortMarginRate      float64
}

type WirePosition struct {
	TickerIndex int32
	Direction   int8 // Buy = long leg, Sell = short leg
	Holdings    int64
	YdHoldings  int64
	Frozen      int64
	FloatPnl    float64
	CostPrice   float64
}

type WireAccount struct {
	AccountID        string
	Balance          float64
	FrozenCash       float64
	FrozenMargin     float64
	FrozenCommission float64
}

type WireTrade struct {
	TickerIndex int32
	Volume      int64
	Price       float64
	Direction   int8
	Offset      int8
}

type WireTick struct {
	TickerIndex int32
	LastPrice   float64
	Volume      int64
	BidPrice    float64
	BidVolume   int64
	AskPrice    float64
	AskVolume   int64
}
