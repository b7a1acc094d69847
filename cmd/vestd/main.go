// Command vestd runs the vesting accounting engine as an HTTP service:
// bbolt-backed schedule/role storage, JWT-gated admin and schedule-creator
// routes, a rate-limited public claim endpoint, and OTLP/Prometheus
// telemetry. Wiring follows the teacher's gateway entrypoint
// (gateway/main.go): load config, start telemetry, build the router, serve
// with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/config"
	"github.com/blackelite/vestd/internal/events"
	"github.com/blackelite/vestd/internal/logging"
	"github.com/blackelite/vestd/internal/rpc"
	"github.com/blackelite/vestd/internal/storage"
	"github.com/blackelite/vestd/internal/telemetry"
	"github.com/blackelite/vestd/internal/vesting"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "vestd.toml", "path to vestd configuration")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("VESTD_ENV"))
	slogger := logging.Setup("vestd", env)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	slogger = slogger.With("env", env)

	otlpEndpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if otlpEndpoint == "" {
		otlpEndpoint = cfg.Telemetry.OTLPEndpoint
	}
	insecure := true
	if value := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")); value != "" {
		if parsed, parseErr := strconv.ParseBool(value); parseErr == nil {
			insecure = parsed
		}
	}
	shutdownTelemetry, err := telemetry.Start(context.Background(), telemetry.Config{
		ServiceName: firstNonEmpty(cfg.Telemetry.ServiceName, "vestd"),
		Environment: env,
		Endpoint:    otlpEndpoint,
		Insecure:    insecure,
		Headers:     telemetry.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Metrics:     cfg.Telemetry.Enabled,
		Traces:      cfg.Telemetry.Enabled,
	})
	if err != nil {
		slogger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if shutdownTelemetry != nil {
			_ = shutdownTelemetry(context.Background())
		}
	}()

	store, err := storage.Open(cfg.StoragePath, nil)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	admin, err := decodeArray(cfg.Admin)
	if err != nil {
		log.Fatalf("parse Admin: %v", err)
	}
	if err := bootstrapAdmin(store, admin); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}
	if cfg.Creator != "" {
		creator, err := decodeArray(cfg.Creator)
		if err != nil {
			log.Fatalf("parse Creator: %v", err)
		}
		if err := store.GrantRole(access.RoleScheduleCreator, creator); err != nil {
			log.Fatalf("grant Creator: %v", err)
		}
	}

	ctrl := access.NewControl(store)

	self, err := decodeArray(cfg.Token)
	if err != nil {
		log.Fatalf("parse Token (engine escrow) address: %v", err)
	}
	ledger, err := storage.OpenLedger(store.DB(), 18, self)
	if err != nil {
		log.Fatalf("open ledger: %v", err)
	}

	root, err := cfg.ParseMerkleRoot()
	if err != nil {
		log.Fatalf("parse MerkleRoot: %v", err)
	}
	if root != ([32]byte{}) {
		if err := store.MerkleRootPut(root); err != nil {
			log.Fatalf("seed MerkleRoot: %v", err)
		}
	}
	vTokenCost, err := cfg.ParseVTokenCost()
	if err != nil {
		log.Fatalf("parse VTokenCost: %v", err)
	}
	if vTokenCost.Sign() > 0 {
		if err := store.VTokenCostPut(vTokenCost); err != nil {
			log.Fatalf("seed VTokenCost: %v", err)
		}
	}
	if cfg.PaymentReceiver != "" {
		receiver, err := decodeArray(cfg.PaymentReceiver)
		if err != nil {
			log.Fatalf("parse PaymentReceiver: %v", err)
		}
		if err := store.PaymentReceiverPut(receiver); err != nil {
			log.Fatalf("seed PaymentReceiver: %v", err)
		}
	}

	emitter := events.NewSlogEmitter(slogger)
	engine := vesting.NewEngine(store, ctrl, ledger, emitter, func() int64 { return time.Now().Unix() }, self)

	auth := rpc.NewAuthenticator(rpc.AuthConfig{
		Enabled:    cfg.JWTSigningKey != "",
		HMACSecret: cfg.JWTSigningKey,
	})
	claimLimiter := rpc.NewRateLimiter(rpc.RateLimit{RatePerSecond: 5, Burst: 20})
	server := rpc.New(engine, ctrl, auth, claimLimiter)

	var handler http.Handler = server.Router()
	if cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(handler, "vestd")
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	go func() {
		slogger.Info("listening", "addr", listener.Addr().String())
		if serveErr := httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Fatalf("serve: %v", serveErr)
		}
	}()

	<-ctx.Done()
	slogger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slogger.Warn("graceful shutdown failed", "error", err)
	}
}

func decodeArray(raw string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(raw)
	if err != nil {
		return [20]byte{}, err
	}
	return addr.Array(), nil
}

// bootstrapAdmin grants RoleAdmin and records admin as the role store's
// admin field the first time vestd starts against a fresh database. A
// database that already has an admin on file is left untouched, since
// re-running vestd against existing state must not silently reassign
// authority to whatever Admin happens to be in the config file.
func bootstrapAdmin(store *storage.Store, admin [20]byte) error {
	existing, err := store.GetAdmin()
	if err != nil {
		return err
	}
	if existing != ([20]byte{}) {
		return nil
	}
	if err := store.SetAdmin(admin); err != nil {
		return err
	}
	return store.GrantRole(access.RoleAdmin, admin)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
