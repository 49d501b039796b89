package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"moviewrite/cmd/internal/passphrase"
	"moviewrite/config"
	"moviewrite/core"
	"moviewrite/crypto"
	"moviewrite/observability/logging"
	telemetry "moviewrite/observability/otel"
	"moviewrite/rpc"
	"moviewrite/storage"
)

const (
	envName  = "MOVIEWRITE_ENV"
	envLevel = "MOVIEWRITE_LOG_LEVEL"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		slog.Error("moviewrited stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	passSource := passphrase.NewSource(config.KeystorePassphraseEnv, "operator keystore")
	cfg, err := config.Load(configPath, config.WithKeystorePassphraseSource(passSource.Get))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	env := strings.TrimSpace(os.Getenv(envName))
	if env == "" {
		env = cfg.Environment
	}
	logger := logging.Setup("moviewrited", env,
		logging.WithLevel(logging.ParseLevel(os.Getenv(envLevel))),
		logging.WithFile(cfg.LogFile, cfg.Telemetry.LogMaxSizeMB, cfg.Telemetry.LogMaxBackups),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "moviewrited",
		Environment: env,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Headers:     telemetry.ParseHeaders(cfg.Telemetry.Headers),
		Metrics:     cfg.Telemetry.Metrics,
		Traces:      cfg.Telemetry.Traces,
		SampleRatio: cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	spec, err := cfg.GenesisSpec()
	if err != nil {
		return fmt.Errorf("resolve genesis: %w", err)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("close database", slog.Any("error", err))
		}
	}()

	node, err := core.NewNode(db, logger)
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}
	applied, err := node.Bootstrap(ctx, spec)
	if err != nil {
		return fmt.Errorf("bootstrap ledger: %w", err)
	}
	if !applied {
		logger.Info("existing ledger state found", slog.String("dataDir", cfg.DataDir))
	}
	logOperator(logger, cfg.OperatorKeystorePath, passSource)

	server, err := rpc.NewServer(node, rpc.ServerConfig{
		AuthToken:          secretFromEnv(cfg.RPC.AuthTokenEnv),
		JWTSecret:          secretFromEnv(cfg.RPC.JWTSecretEnv),
		JWTIssuer:          cfg.RPC.JWTIssuer,
		RateLimitPerSecond: cfg.RPC.RateLimitPerSecond,
		RateLimitBurst:     cfg.RPC.RateLimitBurst,
		ReadHeaderTimeout:  time.Duration(cfg.RPC.ReadHeaderTimeout) * time.Second,
	}, logger)
	if err != nil {
		return fmt.Errorf("create rpc server: %w", err)
	}

	logger.Info("moviewrited started",
		slog.String("network", cfg.NetworkName),
		slog.String("rpc", cfg.RPCAddress))
	if err := server.Serve(ctx, cfg.RPCAddress); err != nil {
		return err
	}
	logger.Info("moviewrited shut down")
	return nil
}

func secretFromEnv(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}

// logOperator reports the operator address when its keystore can be opened.
// The node runs without it; the key only matters to the CLI.
func logOperator(logger *slog.Logger, path string, source *passphrase.Source) {
	if strings.TrimSpace(path) == "" {
		return
	}
	pass, err := source.Get()
	if err != nil {
		logger.Debug("operator keystore not unlocked", slog.Any("error", err))
		return
	}
	key, err := crypto.LoadFromKeystore(path, pass)
	if err != nil {
		logger.Warn("operator keystore unreadable", slog.Any("error", err))
		return
	}
	logger.Info("operator key loaded", slog.String("operator", key.PubKey().Address().String()))
}
