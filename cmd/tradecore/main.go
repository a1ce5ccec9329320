// Command tradecore is the process entrypoint: it loads configuration,
// wires a contract table, a broker gateway, a risk kernel and a
// TradingEngine together, exposes the engine over gRPC and NATS, and
// blocks until interrupted. Grounded on
// golang/cmd/trader/main.go's flag/banner/load/create/start/wait
// shape, trimmed of the strategy-layer config-watch and periodic
// status printing that has no counterpart once pkg/strategy is out of
// scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/yourusername/tradecore/pkg/config"
	"github.com/yourusername/tradecore/pkg/contract"
	"github.com/yourusername/tradecore/pkg/engine"
	"github.com/yourusername/tradecore/pkg/gateway"
	"github.com/yourusername/tradecore/pkg/risk"
	"github.com/yourusername/tradecore/pkg/transport/feed"
	"github.com/yourusername/tradecore/pkg/transport/ordersvc"
)

const (
	appName    = "tradecore"
	appVersion = "1.0.0"
)

var (
	configFile = flag.String("config", "./config/tradecore.yaml", "Configuration file path")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	version    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	printBanner()

	log.Printf("[Main] loading configuration from: %s", *configFile)
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[Main] failed to load config: %v", err)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	log.Printf("[Main] configuration loaded: gateway.api=%s risk.self_trade=%v", cfg.Gateway.API, cfg.Risk.EnableNoSelfTrade)

	contracts := contract.New()
	riskMgr := buildRiskManager(cfg)
	eng := engine.New(cfg, contracts, riskMgr)

	gw, err := buildGateway(cfg, eng)
	if err != nil {
		log.Fatalf("[Main] failed to build gateway: %v", err)
	}
	eng.AttachGateway(gw)

	if cfg.Transport.NATSAddr != "" {
		pub, err := feed.NewPublisher(cfg.Transport.NATSAddr)
		if err != nil {
			log.Fatalf("[Main] failed to connect feed publisher: %v", err)
		}
		defer pub.Close()
		eng.Subscribe(pub)
		log.Printf("[Main] feed publisher connected: %s", cfg.Transport.NATSAddr)
	}

	var grpcServer *grpc.Server
	if cfg.Transport.OrderServiceAddr != "" {
		lis, err := net.Listen("tcp", cfg.Transport.OrderServiceAddr)
		if err != nil {
			log.Fatalf("[Main] failed to listen on %s: %v", cfg.Transport.OrderServiceAddr, err)
		}
		grpcServer = grpc.NewServer()
		ordersvc.NewServer(eng).Register(grpcServer)
		go func() {
			log.Printf("[Main] order service listening on %s", cfg.Transport.OrderServiceAddr)
			if err := grpcServer.Serve(lis); err != nil {
				log.Printf("[Main] order service stopped: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("[Main] starting engine...")
	if err := eng.Start(ctx, &cfg.Gateway); err != nil {
		log.Fatalf("[Main] failed to start engine: %v", err)
	}
	log.Println("[Main] engine started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Println("[Main] tradecore is running. Press Ctrl+C to stop...")
	sig := <-sigChan
	log.Printf("[Main] received signal: %v", sig)

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	eng.Stop()
	log.Println("[Main] goodbye")
}

// buildRiskManager assembles the pre-trade rule chain from config.
// NoSelfTradeRule is the only reference rule SPEC_FULL.md names;
// additional rules plug in here the same way.
func buildRiskManager(cfg *config.Config) *risk.Manager {
	m := risk.NewManager(cfg.Risk.EmergencyStopAfterVetoes)
	if cfg.Risk.EnableNoSelfTrade {
		m.AddRule(risk.NewNoSelfTradeRule(cfg.Risk.SelfTradeEpsilon))
	}
	return m
}

// buildGateway selects a Gateway implementation by cfg.Gateway.API.
// Only "virtual" constructs without a real broker front: the vendor
// CTP/XTP SDK binding itself is out of scope (see DESIGN.md), so any
// other api value fails fast with a clear message rather than silently
// falling back to the simulator.
func buildGateway(cfg *config.Config, cb gateway.Callbacks) (gateway.Gateway, error) {
	switch cfg.Gateway.API {
	case "virtual", "":
		return gateway.NewVirtual(cb), nil
	default:
		return nil, fmt.Errorf("gateway api %q requires a vendor Front binding not present in this build; use \"virtual\" for dry runs", cfg.Gateway.API)
	}
}

func printBanner() {
	fmt.Println("===============================================")
	fmt.Printf(" %s v%s\n", appName, appVersion)
	fmt.Println(" gateway protocol / risk kernel / session core")
	fmt.Println("===============================================")
}
