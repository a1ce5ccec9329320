// Package config loads the YAML configuration that wires a
// TradingEngine to a broker gateway, a risk rule set, and the
// transport layer. It follows a read-unmarshal-validate-default
// Validate pattern (golang/pkg/config/trader_config.go) of
// read-unmarshal-validate-default.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for a tradecore process.
type Config struct {
	Gateway   GatewayConfig   `yaml:"gateway"`
	Risk      RiskConfig      `yaml:"risk"`
	Transport TransportConfig `yaml:"transport"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GatewayConfig is the session/connection configuration handed to
// Gateway.Login.
type GatewayConfig struct {
	API                string `yaml:"api"` // "ctp", "xtp", "virtual"
	TradeServerAddress string `yaml:"trade_server_address"`
	QuoteServerAddress string `yaml:"quote_server_address"`
	BrokerID           string `yaml:"broker_id"`
	InvestorID         string `yaml:"investor_id"`
	Password           string `yaml:"password"`
	AuthCode           string `yaml:"auth_code"`
	AppID              string `yaml:"app_id"`

	SubscriptionList []string `yaml:"subscription_list"`

	// CancelOutstandingOrdersOnStartup is nil when the YAML key is
	// entirely absent, and CancelOutstandingOnStartup then reports
	// true. A value explicitly present in the document — including
	// `false` — is always honored.
	CancelOutstandingOrdersOnStartup *bool `yaml:"cancel_outstanding_orders_on_startup"`

	Arg0 string `yaml:"arg0"`
	Arg1 string `yaml:"arg1"`
	Arg2 string `yaml:"arg2"`
	Arg3 string `yaml:"arg3"`
	Arg4 string `yaml:"arg4"`
	Arg5 string `yaml:"arg5"`
	Arg6 string `yaml:"arg6"`
	Arg7 string `yaml:"arg7"`
	Arg8 string `yaml:"arg8"`
}

// CancelOutstandingOnStartup reports the effective value, applying the
// documented default of true.
func (g *GatewayConfig) CancelOutstandingOnStartup() bool {
	if g.CancelOutstandingOrdersOnStartup == nil {
		return true
	}
	return *g.CancelOutstandingOrdersOnStartup
}

// RiskConfig selects and parameterizes the pre-trade risk rule chain.
type RiskConfig struct {
	EnableNoSelfTrade bool    `yaml:"enable_no_self_trade"`
	SelfTradeEpsilon  float64 `yaml:"self_trade_epsilon"`

	// EmergencyStopAfterVetoes trips the engine's emergency stop once
	// this many consecutive check_order_req vetoes have fired; 0
	// disables the counter.
	EmergencyStopAfterVetoes int `yaml:"emergency_stop_after_vetoes"`
}

// TransportConfig configures the gRPC order service and NATS feed
// publisher exposed to upstream strategies.
type TransportConfig struct {
	OrderServiceAddr string        `yaml:"order_service_addr"`
	NATSAddr         string        `yaml:"nats_addr"`
	QuerySyncTimeout time.Duration `yaml:"query_sync_timeout"`
}

// LoggingConfig controls the stdlib logger's verbosity and output.
type LoggingConfig struct {
	Level   string `yaml:"level"` // debug, info, warn, error
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// Load reads, parses, and validates a Config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks required fields and fills in defaults.
func (c *Config) Validate() error {
	if c.Gateway.API == "" {
		return fmt.Errorf("gateway.api is required")
	}
	if c.Gateway.API != "virtual" {
		if c.Gateway.TradeServerAddress == "" {
			return fmt.Errorf("gateway.trade_server_address is required for api=%q", c.Gateway.API)
		}
		if c.Gateway.BrokerID == "" {
			return fmt.Errorf("gateway.broker_id is required for api=%q", c.Gateway.API)
		}
		if c.Gateway.InvestorID == "" {
			return fmt.Errorf("gateway.investor_id is required for api=%q", c.Gateway.API)
		}
	}

	if c.Risk.SelfTradeEpsilon == 0 {
		c.Risk.SelfTradeEpsilon = 1e-5
	}

	if c.Transport.QuerySyncTimeout == 0 {
		c.Transport.QuerySyncTimeout = 5 * time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// Save writes a Config back out as YAML, mirroring the
// SaveTraderConfig round-trip helper.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
